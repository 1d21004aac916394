// Package repository 는 영속화 계층의 인터페이스와 PostgreSQL 구현을 제공한다.
package repository

import (
	"context"

	"github.com/dohyun/newstalk/internal/model"
)

// SearchRepository 는 검색 기록과 뉴스 행의 영속화 인터페이스.
type SearchRepository interface {
	// CreateSearch 는 새 검색 기록을 1건 생성한다. ID 와 생성 시각은 저장 시점에 부여된다.
	CreateSearch(ctx context.Context, keyword string) (*model.SearchRecord, error)
	// CreateNewsItems 는 검색 기록에 속한 뉴스 행을 단일 배치로 생성하고, 생성 건수를 반환한다.
	CreateNewsItems(ctx context.Context, searchID string, items []model.NewsItem) (int, error)
	// ListWithNews 는 검색 기록을 뉴스 행과 함께 최신순으로 조회한다.
	// keyword 가 비어 있지 않으면 대소문자 무시 부분 일치로 필터링한다.
	ListWithNews(ctx context.Context, limit int, keyword string) ([]model.SearchWithNews, error)
	// DeleteSearch 는 지정 ID 의 검색 기록을 삭제한다. 뉴스 행은 FK cascade 로 함께 삭제된다.
	// 존재하지 않는 ID 는 에러가 아니다.
	DeleteSearch(ctx context.Context, id string) error
	// CountAll 은 searches / news_items 의 전체 건수를 반환한다. 헬스 체크용.
	CountAll(ctx context.Context) (int, int, error)
}
