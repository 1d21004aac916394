package handler

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dohyun/newstalk/internal/metrics"
	"github.com/dohyun/newstalk/internal/middleware"
	"github.com/dohyun/newstalk/internal/repository"
)

// healthCheckTimeout 은 헬스 체크 중 데이터베이스 점검의 제한 시간.
const healthCheckTimeout = 5 * time.Second

// RouterDeps 는 NewRouter 에 필요한 의존 관계를 모은 구조체.
type RouterDeps struct {
	// 미들웨어 의존
	Logger            *slog.Logger
	CORSAllowedOrigin string

	// 서비스
	SearchService  SearchServiceInterface
	ChatService    ChatServiceInterface
	HistoryService HistoryServiceInterface

	// 헬스 체크
	DB         *sql.DB
	SearchRepo repository.SearchRepository

	// 메트릭 수집과 공개
	Collector metrics.MetricsCollector
	Gatherer  prometheus.Gatherer
}

// NewRouter 는 전체 API 엔드포인트의 라우팅과 미들웨어 체인을 구성한 chi.Router 를 반환한다.
//
// 미들웨어 스택의 실행 순서:
//
//	Recovery → CORS → Logging → SecurityHeaders
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Recovery 를 최상위에 적용해 하위 미들웨어의 panic 도 잡는다
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger, deps.Collector))
	r.Use(middleware.NewSecurityHeadersMiddleware())

	searchHandler := NewSearchHandler(deps.SearchService)
	chatHandler := NewChatHandler(deps.ChatService)
	historyHandler := NewHistoryHandler(deps.HistoryService)
	healthHandler := NewHealthHandler(deps.DB, deps.SearchRepo)

	r.Route("/api", func(r chi.Router) {
		r.Post("/search", searchHandler.Search)
		r.Post("/summarize", chatHandler.Summarize)
		r.Post("/chat", chatHandler.Chat)

		r.Get("/history", historyHandler.List)
		r.Delete("/history", historyHandler.Delete)
	})

	// 운영용 엔드포인트
	r.Get("/health", healthHandler.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))

	return r
}
