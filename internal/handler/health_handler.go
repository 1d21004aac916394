package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/dohyun/newstalk/internal/repository"
)

// HealthHandler 는 서버와 데이터베이스의 상태 점검 핸들러.
type HealthHandler struct {
	db   *sql.DB
	repo repository.SearchRepository
}

// NewHealthHandler 는 HealthHandler 를 생성한다.
func NewHealthHandler(db *sql.DB, repo repository.SearchRepository) *HealthHandler {
	return &HealthHandler{db: db, repo: repo}
}

// healthResponse 는 상태 점검의 API 응답.
type healthResponse struct {
	Status      string `json:"status"`
	Database    string `json:"database"`
	SearchCount int    `json:"search_count"`
	NewsCount   int    `json:"news_count"`
	Error       string `json:"error,omitempty"`
}

// Health 는 데이터베이스 연결과 테이블 접근 가능 여부를 점검한다.
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(healthResponse{
			Status:   "error",
			Database: "unreachable",
			Error:    err.Error(),
		})
		return
	}

	searchCount, newsCount, err := h.repo.CountAll(ctx)
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(healthResponse{
			Status:   "error",
			Database: "connected",
			Error:    err.Error(),
		})
		return
	}

	json.NewEncoder(w).Encode(healthResponse{
		Status:      "ok",
		Database:    "connected",
		SearchCount: searchCount,
		NewsCount:   newsCount,
	})
}
