// Package model 은 도메인 모델을 정의한다.
package model

import "time"

// NewsItem 은 피드에서 추출한 뉴스 항목을 나타낸다.
// API 응답에 그대로 직렬화된다.
type NewsItem struct {
	Title       string `json:"title"`       // HTML 태그 제거 후의 제목
	Link        string `json:"link"`        // 절대 URL (파싱 검증 완료)
	Snippet     string `json:"snippet"`     // 태그 제거 후 200자로 자른 요약
	DisplayLink string `json:"displayLink"` // 링크 호스트명에서 선행 www. 를 제거한 값
}

// SearchRecord 는 검색 기록 레코드를 나타낸다.
// 검색 요청마다 1건 생성되며, 생성 후 변경되지 않는다.
type SearchRecord struct {
	ID        string    `json:"id"`
	Keyword   string    `json:"keyword"`
	CreatedAt time.Time `json:"created_at"`
}

// NewsRecord 는 검색 기록에 속한 영속화된 뉴스 행을 나타낸다.
// 부모 SearchRecord 삭제 시 cascade 로 함께 삭제된다.
type NewsRecord struct {
	ID          string    `json:"id"`
	SearchID    string    `json:"search_id"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Snippet     string    `json:"snippet"`
	DisplayLink string    `json:"display_link"`
	CreatedAt   time.Time `json:"created_at"`
}

// SearchWithNews 는 검색 기록과 그에 속한 뉴스 행을 결합한 모델.
// 히스토리 조회 API 의 응답 단위가 된다.
type SearchWithNews struct {
	SearchRecord
	NewsItems []NewsRecord `json:"news_items"`
}

// ChatRole 은 대화 메시지의 화자를 나타낸다.
type ChatRole string

const (
	// ChatRoleUser 는 사용자 발화를 나타낸다.
	ChatRoleUser ChatRole = "user"
	// ChatRoleAssistant 는 AI 응답을 나타낸다.
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage 는 한 채팅 세션 동안만 유지되는 대화 메시지.
// 서버에는 영속화되지 않으며, 요청마다 호출 측이 전달한다.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// DBStatus 는 검색 결과 영속화의 성공 여부를 보고하는 사이드 채널 메타데이터.
// 영속화 실패는 검색 자체의 성공 여부를 바꾸지 않는다.
type DBStatus struct {
	Saved     bool   `json:"saved"`
	Error     string `json:"error,omitempty"`
	SearchID  string `json:"searchId,omitempty"`
	NewsCount int    `json:"newsCount,omitempty"`
}
