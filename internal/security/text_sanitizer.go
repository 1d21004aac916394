package security

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService 는 표시용 텍스트 정제 기능의 인터페이스를 정의한다.
// 피드에서 추출한 제목/요약 텍스트에서 HTML 을 제거해 평문으로 만든다.
// bluemonday 의 StrictPolicy(전체 태그 제거)를 사용하고, 피드 본문에
// 이스케이프된 형태로 남는 태그 조각(&lt;...&gt;)도 함께 제거한다.
type TextSanitizerService interface {
	// StripHTML 은 모든 HTML 태그와 이스케이프된 태그 조각을 제거하고
	// 엔티티를 복원한 뒤 앞뒤 공백을 제거한 평문을 반환한다.
	// 빈 문자열 입력에는 빈 문자열을 반환한다. 동일 입력에 항상 동일 출력(멱등).
	StripHTML(raw string) string

	// Truncate 는 문자열을 최대 limit 문자(룬 단위)로 자른다.
	Truncate(s string, limit int) string
}

// escapedTagPattern 은 텍스트에 이스케이프된 채 남은 태그 조각에 매칭한다.
var escapedTagPattern = regexp.MustCompile(`&lt;.*?&gt;`)

// textSanitizer 는 TextSanitizerService 의 구현.
// bluemonday 의 정책을 보관하고 스레드 세이프하게 정제를 수행한다.
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer 는 TextSanitizerService 의 새 인스턴스를 생성한다.
// StrictPolicy 는 허용 태그가 없는 정책으로, 모든 태그를 제거한다.
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// StripHTML 은 HTML 태그를 제거한 평문을 반환한다.
func (s *textSanitizer) StripHTML(raw string) string {
	stripped := s.policy.Sanitize(raw)
	stripped = escapedTagPattern.ReplaceAllString(stripped, "")
	// bluemonday 는 출력 텍스트를 HTML 이스케이프하므로 표시용으로 복원한다
	stripped = html.UnescapeString(stripped)
	return strings.TrimSpace(stripped)
}

// Truncate 는 문자열을 최대 limit 문자로 자른다. 룬 경계를 보존한다.
func (s *textSanitizer) Truncate(str string, limit int) string {
	if limit < 0 {
		return str
	}
	runes := []rune(str)
	if len(runes) <= limit {
		return str
	}
	return string(runes[:limit])
}
