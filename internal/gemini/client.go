// Package gemini 는 Google Generative Language API(generateContent) 클라이언트를 제공한다.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/dohyun/newstalk/internal/metrics"
	"github.com/dohyun/newstalk/internal/model"
)

// defaultBaseURL 은 Generative Language API 의 엔드포인트.
const defaultBaseURL = "https://generativelanguage.googleapis.com"

// generateRequest 는 generateContent 요청 본문.
// 와이어 포맷: {"contents":[{"parts":[{"text":"..."}]}]}
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// generateResponse 는 generateContent 응답 본문.
// 응답 텍스트는 candidates[0].content.parts[0].text 경로에 있다.
type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Client 는 Generative Language API 의 클라이언트.
type Client struct {
	httpClient *http.Client
	apiKey     string
	logger     *slog.Logger
	collector  metrics.MetricsCollector
	baseURL    string // 테스트용으로 엔드포인트 교체 가능
}

// NewClient 는 Client 의 새 인스턴스를 생성한다.
// apiKey 가 비어 있어도 생성은 성공하며, Generate 호출 시점에 설정 오류로 실패한다.
func NewClient(httpClient *http.Client, apiKey string, logger *slog.Logger, collector metrics.MetricsCollector) *Client {
	return &Client{
		httpClient: httpClient,
		apiKey:     apiKey,
		logger:     logger,
		collector:  collector,
		baseURL:    defaultBaseURL,
	}
}

// Generate 는 프롬프트를 전송해 생성된 텍스트를 반환한다.
//
// API 키 미설정은 네트워크 호출 없이 설정 오류로 즉시 실패한다.
// 업스트림이 비정상 상태를 반환하면 가능한 경우 업스트림의 에러 메시지를
// 그대로 담은 UpstreamError 를 반환한다.
// 생성 결과가 비어 있는 것은 에러가 아니며 빈 문자열을 반환한다(호출 측이
// 고정 대체 문구로 대응한다).
func (c *Client) Generate(ctx context.Context, modelName, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", model.NewAPIKeyMissingError()
	}

	reqBody, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("요청 본문 직렬화에 실패했습니다: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.baseURL, modelName, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("HTTP 요청 생성에 실패했습니다: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("생성형 백엔드 호출에 실패했습니다",
			slog.String("model", modelName),
			slog.String("error", err.Error()),
		)
		c.collector.RecordGenerateFailure(modelName)
		return "", model.NewUpstreamError("")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.collector.RecordGenerateFailure(modelName)
		return "", fmt.Errorf("응답 본문 읽기에 실패했습니다: %w", err)
	}

	var result generateResponse
	if decodeErr := json.Unmarshal(body, &result); decodeErr != nil {
		c.logger.Error("생성형 백엔드 응답 파싱에 실패했습니다",
			slog.String("model", modelName),
			slog.Int("http_status", resp.StatusCode),
			slog.String("error", decodeErr.Error()),
		)
		c.collector.RecordGenerateFailure(modelName)
		return "", model.NewUpstreamError("")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := ""
		if result.Error != nil {
			message = result.Error.Message
		}
		c.logger.Error("생성형 백엔드가 에러 상태를 반환했습니다",
			slog.String("model", modelName),
			slog.Int("http_status", resp.StatusCode),
			slog.String("upstream_message", message),
		)
		c.collector.RecordGenerateFailure(modelName)
		return "", model.NewUpstreamError(message)
	}

	c.collector.RecordGenerateLatency(modelName, time.Since(start))

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return result.Candidates[0].Content.Parts[0].Text, nil
}
