// Package handler 는 HTTP 핸들러와 라우팅을 제공한다.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dohyun/newstalk/internal/model"
)

// SearchServiceInterface 는 검색 핸들러가 필요로 하는 서비스 인터페이스.
type SearchServiceInterface interface {
	// Search 는 키워드로 뉴스를 검색하고 영속화 결과를 함께 반환한다.
	Search(ctx context.Context, keyword string) ([]model.NewsItem, model.DBStatus, error)
}

// SearchHandler 는 뉴스 검색의 HTTP 핸들러.
type SearchHandler struct {
	service SearchServiceInterface
}

// NewSearchHandler 는 SearchHandler 를 생성한다.
func NewSearchHandler(service SearchServiceInterface) *SearchHandler {
	return &SearchHandler{service: service}
}

// searchRequest 는 뉴스 검색 요청의 본문.
type searchRequest struct {
	Keyword string `json:"keyword"`
}

// searchResponse 는 뉴스 검색의 API 응답.
// News 는 결과가 없어도 빈 배열로 직렬화한다.
type searchResponse struct {
	News     []model.NewsItem `json:"news"`
	DBStatus model.DBStatus   `json:"dbStatus"`
}

// Search 는 뉴스 검색을 처리한다.
// POST /api/search
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	news, status, err := h.service.Search(r.Context(), req.Keyword)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if news == nil {
		news = []model.NewsItem{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(searchResponse{
		News:     news,
		DBStatus: status,
	})
}

// --- 헬퍼 함수 ---

// apiErrorResponse 는 통일 에러 포맷의 응답.
type apiErrorResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// writeAPIErrorResponse 는 통일 에러 포맷으로 에러 응답을 기록한다.
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(apiErrorResponse{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// handleServiceError 는 서비스 계층에서 반환된 에러를 적절한 HTTP 상태 코드로 변환한다.
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError 이외의 에러는 내부 서버 에러로 취급한다
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "내부 오류가 발생했습니다.",
		Category: "system",
		Action:   "잠시 후 다시 시도해주세요.",
	})
}

// mapAPIErrorToHTTPStatus 는 APIError 코드에서 HTTP 상태 코드로 매핑한다.
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeKeywordRequired,
		model.ErrCodeMessageRequired,
		model.ErrCodeNewsRequired,
		model.ErrCodeSearchIDRequired,
		model.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case model.ErrCodeAPIKeyMissing,
		model.ErrCodeFeedFetchFailed,
		model.ErrCodeUpstreamError,
		model.ErrCodePersistence:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
