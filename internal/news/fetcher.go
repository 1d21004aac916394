// Package news 는 키워드 기반 뉴스 검색의 도메인 로직을 제공한다.
// 피드 페치 → 파싱 → 영속화의 흐름을 포함한다.
package news

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/dohyun/newstalk/internal/metrics"
	"github.com/dohyun/newstalk/internal/model"
)

const (
	// defaultFeedBaseURL 은 Google News RSS 검색 엔드포인트.
	defaultFeedBaseURL = "https://news.google.com/rss/search"

	// 피드 로케일 파라미터. 한국어 뉴스에 고정한다.
	feedLangParam    = "ko"
	feedRegionParam  = "KR"
	feedChannelParam = "KR:ko"
)

// URLValidator 는 외부 요청 전의 URL 검증 인터페이스.
// security.SSRFGuardService 의 일부만 사용하므로 최소한으로 정의한다.
type URLValidator interface {
	ValidateURL(rawURL string) error
}

// Fetcher 는 키워드에 대한 뉴스 피드 문서를 가져온다.
type Fetcher struct {
	httpClient  *http.Client
	validator   URLValidator
	logger      *slog.Logger
	collector   metrics.MetricsCollector
	maxBodySize int64
	baseURL     string // 테스트용으로 엔드포인트 교체 가능
}

// NewFetcher 는 Fetcher 의 새 인스턴스를 생성한다.
// httpClient 에는 security.SSRFGuardService 가 생성한 안전 클라이언트를 전달한다.
func NewFetcher(httpClient *http.Client, validator URLValidator, logger *slog.Logger, collector metrics.MetricsCollector, maxBodySize int64) *Fetcher {
	return &Fetcher{
		httpClient:  httpClient,
		validator:   validator,
		logger:      logger,
		collector:   collector,
		maxBodySize: maxBodySize,
		baseURL:     defaultFeedBaseURL,
	}
}

// FeedURL 은 키워드를 퍼센트 인코딩해 피드 URL 을 구축한다.
func (f *Fetcher) FeedURL(keyword string) string {
	q := url.Values{}
	q.Set("q", keyword)
	q.Set("hl", feedLangParam)
	q.Set("gl", feedRegionParam)
	q.Set("ceid", feedChannelParam)
	return f.baseURL + "?" + q.Encode()
}

// Fetch 는 키워드에 대한 피드 문서를 텍스트로 가져온다.
// 전송 실패 또는 비정상 응답은 FeedFetchFailed 에러로 보고한다.
func (f *Fetcher) Fetch(ctx context.Context, keyword string) (string, error) {
	start := time.Now()
	feedURL := f.FeedURL(keyword)

	if err := f.validator.ValidateURL(feedURL); err != nil {
		f.logger.Error("피드 URL 검증에 실패했습니다",
			slog.String("keyword", keyword),
			slog.String("error", err.Error()),
		)
		f.collector.RecordFetchFailure()
		return "", model.NewFeedFetchError(err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return "", fmt.Errorf("피드 요청 생성에 실패했습니다: %w", err)
	}
	req.Header.Set("User-Agent", "Newstalk/1.0 News Search")
	req.Header.Set("Accept", "application/rss+xml, application/xml, text/xml, */*")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.logger.Error("뉴스 피드 요청에 실패했습니다",
			slog.String("keyword", keyword),
			slog.String("error", err.Error()),
		)
		f.collector.RecordFetchFailure()
		return "", model.NewFeedFetchError(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.logger.Error("뉴스 피드가 비정상 상태 코드를 반환했습니다",
			slog.String("keyword", keyword),
			slog.Int("http_status", resp.StatusCode),
		)
		f.collector.RecordFetchFailure()
		return "", model.NewFeedFetchError(fmt.Sprintf("http status %d", resp.StatusCode))
	}

	// 응답 본문을 최대 크기 제한을 걸어 읽는다
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		f.logger.Error("피드 응답 본문 읽기에 실패했습니다",
			slog.String("keyword", keyword),
			slog.String("error", err.Error()),
		)
		f.collector.RecordFetchFailure()
		return "", model.NewFeedFetchError(err.Error())
	}

	f.collector.RecordFetchLatency(time.Since(start))

	return string(body), nil
}
