package news

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dohyun/newstalk/internal/metrics"
	"github.com/dohyun/newstalk/internal/model"
	"github.com/dohyun/newstalk/internal/repository"
)

// FeedFetcher 는 피드 문서 취득의 인터페이스.
type FeedFetcher interface {
	Fetch(ctx context.Context, keyword string) (string, error)
}

// FeedParser 는 피드 문서에서 뉴스 항목을 추출하는 인터페이스.
type FeedParser interface {
	Parse(document string) []model.NewsItem
}

// SearchService 는 키워드 검색의 서비스 계층.
// 페치 → 파싱 → 베스트 에포트 영속화의 흐름을 통괄한다.
type SearchService struct {
	fetcher   FeedFetcher
	parser    FeedParser
	repo      repository.SearchRepository
	logger    *slog.Logger
	collector metrics.MetricsCollector
}

// NewSearchService 는 SearchService 의 새 인스턴스를 생성한다.
func NewSearchService(
	fetcher FeedFetcher,
	parser FeedParser,
	repo repository.SearchRepository,
	logger *slog.Logger,
	collector metrics.MetricsCollector,
) *SearchService {
	return &SearchService{
		fetcher:   fetcher,
		parser:    parser,
		repo:      repo,
		logger:    logger,
		collector: collector,
	}
}

// Search 는 키워드로 뉴스를 검색하고 결과 영속화를 시도한다.
//
// 페치 실패는 정확히 1회 재시도한다. 영속화는 페치 성공 후에만 시도하므로
// 재시도 시점에 롤백할 부분 상태는 존재하지 않는다.
// 영속화 실패는 DBStatus 메타데이터로만 보고되며 검색 자체를 실패시키지 않는다.
func (s *SearchService) Search(ctx context.Context, keyword string) ([]model.NewsItem, model.DBStatus, error) {
	// 검증은 외부 호출 전에 수행한다
	if strings.TrimSpace(keyword) == "" {
		return nil, model.DBStatus{}, model.NewKeywordRequiredError()
	}

	s.collector.RecordSearch()

	document, err := s.fetcher.Fetch(ctx, keyword)
	if err != nil {
		s.logger.Warn("뉴스 피드 페치에 실패해 재시도합니다",
			slog.String("keyword", keyword),
			slog.String("error", err.Error()),
		)
		// 전송 에러는 같은 요청 안에서 1회만 재시도한다
		document, err = s.fetcher.Fetch(ctx, keyword)
		if err != nil {
			return nil, model.DBStatus{}, err
		}
	}

	items := s.parser.Parse(document)
	status := s.persist(ctx, keyword, items)

	s.logger.Info("뉴스 검색이 완료되었습니다",
		slog.String("keyword", keyword),
		slog.Int("news_count", len(items)),
		slog.Bool("saved", status.Saved),
	)

	return items, status, nil
}

// persist 는 검색 기록과 뉴스 행을 베스트 에포트로 저장한다.
// 실패는 로그와 DBStatus 로만 보고한다.
func (s *SearchService) persist(ctx context.Context, keyword string, items []model.NewsItem) model.DBStatus {
	rec, err := s.repo.CreateSearch(ctx, keyword)
	if err != nil {
		s.logger.Error("검색 기록 저장에 실패했습니다",
			slog.String("keyword", keyword),
			slog.String("error", err.Error()),
		)
		return model.DBStatus{Saved: false, Error: "검색 기록 저장에 실패했습니다."}
	}

	count := 0
	if len(items) > 0 {
		count, err = s.repo.CreateNewsItems(ctx, rec.ID, items)
		if err != nil {
			s.logger.Error("뉴스 행 저장에 실패했습니다",
				slog.String("search_id", rec.ID),
				slog.String("error", err.Error()),
			)
			return model.DBStatus{Saved: false, Error: "뉴스 저장에 실패했습니다."}
		}
	}

	return model.DBStatus{
		Saved:     true,
		SearchID:  rec.ID,
		NewsCount: count,
	}
}
