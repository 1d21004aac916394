// Package model 은 도메인 모델을 정의한다.
package model

import "fmt"

// APIError 는 통일 에러 포맷을 나타낸다.
// UI에 표시할 원인 카테고리와 대처 방법을 포함한다.
type APIError struct {
	Code     string // 에러 코드
	Message  string // 에러 메시지
	Category string // 카테고리: validation, config, news, ai, system
	Action   string // 사용자 대처 방법
}

// Error 는 error 인터페이스를 구현한다.
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 정의된 에러 코드
const (
	ErrCodeKeywordRequired  = "KEYWORD_REQUIRED"
	ErrCodeMessageRequired  = "MESSAGE_REQUIRED"
	ErrCodeNewsRequired     = "NEWS_REQUIRED"
	ErrCodeSearchIDRequired = "SEARCH_ID_REQUIRED"
	ErrCodeInvalidRequest   = "INVALID_REQUEST"
	ErrCodeAPIKeyMissing    = "API_KEY_MISSING"
	ErrCodeFeedFetchFailed  = "FEED_FETCH_FAILED"
	ErrCodeUpstreamError    = "UPSTREAM_ERROR"
	ErrCodePersistence      = "PERSISTENCE_ERROR"
)

// NewKeywordRequiredError 는 검색 키워드 누락 에러를 생성한다.
func NewKeywordRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeKeywordRequired,
		Message:  "키워드가 필요합니다.",
		Category: "validation",
		Action:   "검색할 키워드를 입력해주세요.",
	}
}

// NewMessageRequiredError 는 채팅 메시지 누락 에러를 생성한다.
func NewMessageRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeMessageRequired,
		Message:  "메시지가 필요합니다.",
		Category: "validation",
		Action:   "질문 내용을 입력해주세요.",
	}
}

// NewNewsRequiredError 는 요약 대상 뉴스 누락 에러를 생성한다.
func NewNewsRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeNewsRequired,
		Message:  "뉴스 데이터가 필요합니다.",
		Category: "validation",
		Action:   "먼저 뉴스를 검색한 뒤 요약을 요청해주세요.",
	}
}

// NewSearchIDRequiredError 는 삭제 대상 검색 ID 누락 에러를 생성한다.
func NewSearchIDRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeSearchIDRequired,
		Message:  "삭제할 검색 ID가 필요합니다.",
		Category: "validation",
		Action:   "삭제할 검색 기록의 ID를 지정해주세요.",
	}
}

// NewInvalidRequestError 는 요청 본문 해석 실패 에러를 생성한다.
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "요청 본문을 해석하지 못했습니다.",
		Category: "validation",
		Action:   "올바른 JSON 형식으로 요청해주세요.",
	}
}

// NewAPIKeyMissingError 는 생성형 API 자격 증명 미설정 에러를 생성한다.
func NewAPIKeyMissingError() *APIError {
	return &APIError{
		Code:     ErrCodeAPIKeyMissing,
		Message:  "Gemini API 키가 설정되지 않았습니다.",
		Category: "config",
		Action:   "서버 환경 변수 GEMINI_API_KEY 를 설정해주세요.",
	}
}

// NewFeedFetchError 는 뉴스 피드 조회 실패 에러를 생성한다.
func NewFeedFetchError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeFeedFetchFailed,
		Message:  "뉴스 검색에 실패했습니다.",
		Category: "news",
		Action:   "잠시 후 다시 시도해주세요.",
	}
}

// NewUpstreamError 는 생성형 백엔드 호출 실패 에러를 생성한다.
// 업스트림이 에러 메시지를 반환한 경우 그 메시지를 그대로 전달한다.
func NewUpstreamError(message string) *APIError {
	if message == "" {
		message = "API 오류"
	}
	return &APIError{
		Code:     ErrCodeUpstreamError,
		Message:  message,
		Category: "ai",
		Action:   "잠시 후 다시 시도해주세요.",
	}
}

// NewPersistenceError 는 저장소 조회/삭제 실패 에러를 생성한다.
// 검색 중의 저장 실패는 이 에러 대신 DBStatus 메타데이터로 보고된다.
func NewPersistenceError(message string) *APIError {
	return &APIError{
		Code:     ErrCodePersistence,
		Message:  message,
		Category: "system",
		Action:   "잠시 후 다시 시도해주세요.",
	}
}
