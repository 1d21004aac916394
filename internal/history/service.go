// Package history 는 검색 기록의 조회와 삭제를 제공한다.
package history

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dohyun/newstalk/internal/model"
	"github.com/dohyun/newstalk/internal/repository"
)

const (
	// defaultHistoryLimit 은 limit 미지정 시의 조회 건수.
	defaultHistoryLimit = 20
	// maxHistoryLimit 은 limit 의 상한.
	maxHistoryLimit = 100
)

// Service 는 검색 기록의 서비스 계층.
type Service struct {
	repo   repository.SearchRepository
	logger *slog.Logger
}

// NewService 는 Service 의 새 인스턴스를 생성한다.
func NewService(repo repository.SearchRepository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List 는 검색 기록을 최신순으로 조회한다. 키워드가 있으면 부분 일치로
// 필터링한다. limit 은 1 이상 100 이하로 정규화한다.
func (s *Service) List(ctx context.Context, limit int, keyword string) ([]model.SearchWithNews, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	results, err := s.repo.ListWithNews(ctx, limit, strings.TrimSpace(keyword))
	if err != nil {
		s.logger.Error("검색 기록 조회에 실패했습니다",
			slog.String("error", err.Error()),
		)
		return nil, model.NewPersistenceError("히스토리 조회 중 오류가 발생했습니다.")
	}

	return results, nil
}

// Delete 는 지정된 ID 의 검색 기록을 삭제한다. 관련 뉴스 행은 외래 키의
// 캐스케이드로 함께 삭제된다. 존재하지 않는 ID 는 에러가 아니다.
func (s *Service) Delete(ctx context.Context, searchID string) error {
	if strings.TrimSpace(searchID) == "" {
		return model.NewSearchIDRequiredError()
	}

	if err := s.repo.DeleteSearch(ctx, searchID); err != nil {
		s.logger.Error("검색 기록 삭제에 실패했습니다",
			slog.String("search_id", searchID),
			slog.String("error", err.Error()),
		)
		return model.NewPersistenceError("삭제 중 오류가 발생했습니다.")
	}

	s.logger.Info("검색 기록을 삭제했습니다",
		slog.String("search_id", searchID),
	)

	return nil
}
