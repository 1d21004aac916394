package news

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/dohyun/newstalk/internal/model"
	"github.com/dohyun/newstalk/internal/security"
)

const (
	// maxNewsItems 는 검색 1회당 유지하는 뉴스 항목의 상한.
	maxNewsItems = 10
	// maxSnippetLength 는 태그 제거 후 요약의 최대 문자 수.
	maxSnippetLength = 200
)

// 관용 스캔(정규식 폴백)용 패턴.
// CDATA 형식을 먼저 시도하고, 없으면 평태그 형식을 시도한다.
var (
	itemBlockPattern  = regexp.MustCompile(`(?s)<item>(.*?)</item>`)
	titleCDATAPattern = regexp.MustCompile(`(?s)<title><!\[CDATA\[(.*?)\]\]></title>`)
	titlePlainPattern = regexp.MustCompile(`(?s)<title>(.*?)</title>`)
	descCDATAPattern  = regexp.MustCompile(`(?s)<description><!\[CDATA\[(.*?)\]\]></description>`)
	descPlainPattern  = regexp.MustCompile(`(?s)<description>(.*?)</description>`)
	linkPlainPattern  = regexp.MustCompile(`(?s)<link>(.*?)</link>`)
)

// Parser 는 피드 문서에서 뉴스 항목을 추출한다.
//
// 1차로 gofeed 의 적합 파서를 사용하고, 문서가 정합 XML 이 아니어서
// 파싱이 거부되면 <item> 블록 단위의 관용 정규식 스캔으로 폴백한다.
// 어느 경로든 동일한 정규화 파이프라인(태그 제거, 요약 자르기, 링크 검증,
// 상한 10건)을 거치므로 결과 규칙은 같다.
type Parser struct {
	sanitizer security.TextSanitizerService
}

// NewParser 는 Parser 의 새 인스턴스를 생성한다.
func NewParser(sanitizer security.TextSanitizerService) *Parser {
	return &Parser{sanitizer: sanitizer}
}

// Parse 는 피드 문서에서 뉴스 항목을 문서 순서대로 최대 10건 추출한다.
// 매칭되는 항목이 없는 문서는 에러가 아니며 빈 슬라이스를 반환한다.
func (p *Parser) Parse(document string) []model.NewsItem {
	parsed, err := gofeed.NewParser().ParseString(document)
	if err != nil {
		return p.scanItemBlocks(document)
	}

	items := make([]model.NewsItem, 0, maxNewsItems)
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		news, ok := p.buildNewsItem(item.Title, item.Link, item.Description)
		if !ok {
			continue
		}
		items = append(items, news)
		if len(items) >= maxNewsItems {
			break
		}
	}
	return items
}

// scanItemBlocks 는 정합 파싱이 거부된 문서에 대한 관용 스캔.
// <item>...</item> 블록을 구분자로 잘라 제목/링크/요약을 추출한다.
func (p *Parser) scanItemBlocks(document string) []model.NewsItem {
	items := make([]model.NewsItem, 0, maxNewsItems)

	for _, match := range itemBlockPattern.FindAllStringSubmatch(document, -1) {
		block := match[1]

		news, ok := p.buildNewsItem(
			extractField(block, titleCDATAPattern, titlePlainPattern),
			extractField(block, linkPlainPattern),
			extractField(block, descCDATAPattern, descPlainPattern),
		)
		if !ok {
			continue
		}

		items = append(items, news)
		if len(items) >= maxNewsItems {
			break
		}
	}

	return items
}

// extractField 는 패턴을 순서대로 시도해 처음 매칭된 값을 반환한다.
// 어느 패턴에도 매칭되지 않으면 빈 문자열을 반환한다.
func extractField(block string, patterns ...*regexp.Regexp) string {
	for _, pattern := range patterns {
		if m := pattern.FindStringSubmatch(block); m != nil {
			return m[1]
		}
	}
	return ""
}

// buildNewsItem 은 추출된 원시 필드를 정규화해 NewsItem 을 만든다.
// 제목 또는 유효한 절대 URL 링크가 없는 항목은 폐기한다(상한에 미포함).
func (p *Parser) buildNewsItem(rawTitle, rawLink, rawDesc string) (model.NewsItem, bool) {
	title := p.sanitizer.StripHTML(rawTitle)
	link := strings.TrimSpace(rawLink)
	if title == "" || link == "" {
		return model.NewsItem{}, false
	}

	// 링크 검증: 절대 URL 로 파싱되지 않으면 항목을 조용히 폐기한다
	parsed, err := url.Parse(link)
	if err != nil || !parsed.IsAbs() || parsed.Hostname() == "" {
		return model.NewsItem{}, false
	}

	snippet := strings.TrimSpace(
		p.sanitizer.Truncate(p.sanitizer.StripHTML(rawDesc), maxSnippetLength),
	)

	return model.NewsItem{
		Title:       title,
		Link:        link,
		Snippet:     snippet,
		DisplayLink: strings.TrimPrefix(parsed.Hostname(), "www."),
	}, true
}
