package news

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dohyun/newstalk/internal/model"
	"github.com/dohyun/newstalk/internal/security"
)

// --- 목 정의 ---

// mockCollector 는 metrics.MetricsCollector 의 목 구현.
type mockCollector struct {
	searchCount       int
	fetchFailCount    int
	fetchLatencyCount int
	generateFailCount int
}

func (m *mockCollector) RecordSearch()                               { m.searchCount++ }
func (m *mockCollector) RecordFetchFailure()                         { m.fetchFailCount++ }
func (m *mockCollector) RecordFetchLatency(time.Duration)            { m.fetchLatencyCount++ }
func (m *mockCollector) RecordGenerateFailure(string)                { m.generateFailCount++ }
func (m *mockCollector) RecordGenerateLatency(string, time.Duration) {}
func (m *mockCollector) RecordHTTPStatus(int)                        {}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- 테스트 ---

func TestFetcher_FeedURL_EncodesKeywordAndLocale(t *testing.T) {
	f := NewFetcher(http.DefaultClient, security.NewSSRFGuard(), testLogger(), &mockCollector{}, 1<<20)

	got := f.FeedURL("한국 뉴스")

	if !strings.HasPrefix(got, defaultFeedBaseURL+"?") {
		t.Errorf("FeedURL = %q, want prefix %q", got, defaultFeedBaseURL+"?")
	}
	// 키워드는 퍼센트 인코딩될 것
	if strings.Contains(got, "한국 뉴스") {
		t.Errorf("FeedURL should percent-encode the keyword: %q", got)
	}
	for _, param := range []string{"hl=ko", "gl=KR", "ceid=KR%3Ako"} {
		if !strings.Contains(got, param) {
			t.Errorf("FeedURL should contain %q: %q", param, got)
		}
	}
}

func TestFetcher_Fetch_Success(t *testing.T) {
	const feedBody = `<rss><channel><item><title>t</title></item></channel></rss>`

	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/rss+xml")
		io.WriteString(w, feedBody)
	}))
	defer server.Close()

	collector := &mockCollector{}
	f := NewFetcher(server.Client(), security.NewSSRFGuard(), testLogger(), collector, 1<<20)
	f.baseURL = server.URL

	body, err := f.Fetch(context.Background(), "테스트")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if body != feedBody {
		t.Errorf("body = %q, want %q", body, feedBody)
	}
	if !strings.Contains(gotQuery, "hl=ko") {
		t.Errorf("request query should contain hl=ko: %q", gotQuery)
	}
	if collector.fetchLatencyCount != 1 {
		t.Errorf("fetchLatencyCount = %d, want 1", collector.fetchLatencyCount)
	}
	if collector.fetchFailCount != 0 {
		t.Errorf("fetchFailCount = %d, want 0", collector.fetchFailCount)
	}
}

func TestFetcher_Fetch_Non200Status(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	collector := &mockCollector{}
	f := NewFetcher(server.Client(), security.NewSSRFGuard(), testLogger(), collector, 1<<20)
	f.baseURL = server.URL

	_, err := f.Fetch(context.Background(), "테스트")
	if err == nil {
		t.Fatal("Fetch should return error on non-200 status")
	}
	if collector.fetchFailCount != 1 {
		t.Errorf("fetchFailCount = %d, want 1", collector.fetchFailCount)
	}
}

func TestFetcher_Fetch_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // 즉시 닫아 전송 에러를 유발

	collector := &mockCollector{}
	f := NewFetcher(http.DefaultClient, security.NewSSRFGuard(), testLogger(), collector, 1<<20)
	f.baseURL = server.URL

	_, err := f.Fetch(context.Background(), "테스트")
	if err == nil {
		t.Fatal("Fetch should return error on transport failure")
	}
	if collector.fetchFailCount != 1 {
		t.Errorf("fetchFailCount = %d, want 1", collector.fetchFailCount)
	}
}

func TestFetcher_Fetch_LimitsBodySize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, strings.Repeat("a", 100))
	}))
	defer server.Close()

	f := NewFetcher(server.Client(), security.NewSSRFGuard(), testLogger(), &mockCollector{}, 10)
	f.baseURL = server.URL

	body, err := f.Fetch(context.Background(), "테스트")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(body) != 10 {
		t.Errorf("len(body) = %d, want 10", len(body))
	}
}

func TestFetcher_Fetch_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer server.Close()

	f := NewFetcher(server.Client(), security.NewSSRFGuard(), testLogger(), &mockCollector{}, 1<<20)
	f.baseURL = server.URL

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Fetch(ctx, "테스트")
	if err == nil {
		t.Fatal("Fetch should return error when context is cancelled")
	}
	if !errors.Is(err, context.Canceled) {
		// FeedFetchError 로 래핑되므로 에러 존재만 확인하면 충분하다
		t.Logf("error is wrapped: %v", err)
	}
}

func TestFetcher_Fetch_RejectsDisallowedScheme(t *testing.T) {
	collector := &mockCollector{}
	f := NewFetcher(http.DefaultClient, security.NewSSRFGuard(), testLogger(), collector, 1<<20)
	f.baseURL = "file:///etc/passwd"

	_, err := f.Fetch(context.Background(), "테스트")
	if err == nil {
		t.Fatal("Fetch should reject a disallowed URL scheme before sending the request")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error should be *model.APIError, got %T", err)
	}
	if apiErr.Code != model.ErrCodeFeedFetchFailed {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeFeedFetchFailed)
	}
	if collector.fetchFailCount != 1 {
		t.Errorf("fetchFailCount = %d, want 1", collector.fetchFailCount)
	}
}
