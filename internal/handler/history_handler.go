package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dohyun/newstalk/internal/model"
)

// HistoryServiceInterface 는 검색 기록 핸들러가 필요로 하는 서비스 인터페이스.
type HistoryServiceInterface interface {
	// List 는 검색 기록을 최신순으로 조회한다.
	List(ctx context.Context, limit int, keyword string) ([]model.SearchWithNews, error)
	// Delete 는 지정된 ID 의 검색 기록을 삭제한다.
	Delete(ctx context.Context, searchID string) error
}

// HistoryHandler 는 검색 기록의 HTTP 핸들러.
type HistoryHandler struct {
	service HistoryServiceInterface
}

// NewHistoryHandler 는 HistoryHandler 를 생성한다.
func NewHistoryHandler(service HistoryServiceInterface) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// historyListResponse 는 검색 기록 조회의 API 응답.
type historyListResponse struct {
	History []model.SearchWithNews `json:"history"`
}

// historyDeleteResponse 는 검색 기록 삭제의 API 응답.
type historyDeleteResponse struct {
	Success bool `json:"success"`
}

// List 는 검색 기록 조회를 처리한다.
// GET /api/history?limit=20&keyword=...
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		// 해석 불가능한 limit 은 기본값으로 취급한다
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}
	keyword := r.URL.Query().Get("keyword")

	results, err := h.service.List(r.Context(), limit, keyword)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if results == nil {
		results = []model.SearchWithNews{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(historyListResponse{History: results})
}

// Delete 는 검색 기록 삭제를 처리한다.
// DELETE /api/history?id=...
func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	searchID := r.URL.Query().Get("id")

	if err := h.service.Delete(r.Context(), searchID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(historyDeleteResponse{Success: true})
}
