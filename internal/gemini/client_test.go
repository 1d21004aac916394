package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dohyun/newstalk/internal/model"
)

// mockCollector 는 metrics.MetricsCollector 의 목 구현.
type mockCollector struct {
	generateFailCount    int
	generateLatencyCount int
	lastModel            string
}

func (m *mockCollector) RecordSearch()                    {}
func (m *mockCollector) RecordFetchFailure()              {}
func (m *mockCollector) RecordFetchLatency(time.Duration) {}
func (m *mockCollector) RecordGenerateFailure(model string) {
	m.generateFailCount++
	m.lastModel = model
}
func (m *mockCollector) RecordGenerateLatency(model string, d time.Duration) {
	m.generateLatencyCount++
	m.lastModel = model
}
func (m *mockCollector) RecordHTTPStatus(int) {}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_Generate_MissingAPIKey(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	c := NewClient(server.Client(), "", testLogger(), &mockCollector{})
	c.baseURL = server.URL

	_, err := c.Generate(context.Background(), "gemini-1.5-flash", "프롬프트")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error should be *model.APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeAPIKeyMissing {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeAPIKeyMissing)
	}
	// 키 미설정은 네트워크 호출 전에 실패할 것
	if called {
		t.Error("no HTTP request should be made when API key is missing")
	}
}

func TestClient_Generate_Success(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		json.NewDecoder(r.Body).Decode(&gotBody)

		io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"생성된 답변"}]}}]}`)
	}))
	defer server.Close()

	collector := &mockCollector{}
	c := NewClient(server.Client(), "test-key", testLogger(), collector)
	c.baseURL = server.URL

	got, err := c.Generate(context.Background(), "gemini-1.5-flash", "프롬프트 본문")
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if got != "생성된 답변" {
		t.Errorf("Generate = %q, want %q", got, "생성된 답변")
	}
	if gotPath != "/v1beta/models/gemini-1.5-flash:generateContent" {
		t.Errorf("path = %q, want %q", gotPath, "/v1beta/models/gemini-1.5-flash:generateContent")
	}
	if gotKey != "test-key" {
		t.Errorf("key = %q, want %q", gotKey, "test-key")
	}

	// 요청 본문의 와이어 포맷 확인
	raw, _ := json.Marshal(gotBody)
	if !strings.Contains(string(raw), `"text":"프롬프트 본문"`) {
		t.Errorf("request body should carry the prompt: %s", raw)
	}

	if collector.generateLatencyCount != 1 {
		t.Errorf("generateLatencyCount = %d, want 1", collector.generateLatencyCount)
	}
	if collector.lastModel != "gemini-1.5-flash" {
		t.Errorf("lastModel = %q, want %q", collector.lastModel, "gemini-1.5-flash")
	}
}

func TestClient_Generate_UpstreamErrorMessagePassthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"message":"Quota exceeded"}}`)
	}))
	defer server.Close()

	collector := &mockCollector{}
	c := NewClient(server.Client(), "test-key", testLogger(), collector)
	c.baseURL = server.URL

	_, err := c.Generate(context.Background(), "gemini-1.5-flash", "프롬프트")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error should be *model.APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeUpstreamError {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeUpstreamError)
	}
	// 업스트림의 에러 메시지가 그대로 전달될 것
	if apiErr.Message != "Quota exceeded" {
		t.Errorf("Message = %q, want %q", apiErr.Message, "Quota exceeded")
	}
	if collector.generateFailCount != 1 {
		t.Errorf("generateFailCount = %d, want 1", collector.generateFailCount)
	}
}

func TestClient_Generate_UpstreamErrorWithoutMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{}`)
	}))
	defer server.Close()

	c := NewClient(server.Client(), "test-key", testLogger(), &mockCollector{})
	c.baseURL = server.URL

	_, err := c.Generate(context.Background(), "gemini-1.5-flash", "프롬프트")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error should be *model.APIError, got %v", err)
	}
	if apiErr.Message != "API 오류" {
		t.Errorf("Message = %q, want %q", apiErr.Message, "API 오류")
	}
}

func TestClient_Generate_EmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"candidates":[]}`)
	}))
	defer server.Close()

	c := NewClient(server.Client(), "test-key", testLogger(), &mockCollector{})
	c.baseURL = server.URL

	got, err := c.Generate(context.Background(), "gemini-1.5-flash", "프롬프트")
	if err != nil {
		t.Fatalf("empty candidates should not be an error: %v", err)
	}
	if got != "" {
		t.Errorf("Generate = %q, want empty string", got)
	}
}

func TestClient_Generate_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	collector := &mockCollector{}
	c := NewClient(http.DefaultClient, "test-key", testLogger(), collector)
	c.baseURL = server.URL

	_, err := c.Generate(context.Background(), "gemini-1.5-flash", "프롬프트")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error should be *model.APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeUpstreamError {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeUpstreamError)
	}
	if collector.generateFailCount != 1 {
		t.Errorf("generateFailCount = %d, want 1", collector.generateFailCount)
	}
}
