// Package app 은 애플리케이션의 초기화, 의존 관계 와이어링, 기동을 담당한다.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dohyun/newstalk/internal/chat"
	"github.com/dohyun/newstalk/internal/config"
	"github.com/dohyun/newstalk/internal/database"
	"github.com/dohyun/newstalk/internal/gemini"
	"github.com/dohyun/newstalk/internal/handler"
	"github.com/dohyun/newstalk/internal/history"
	"github.com/dohyun/newstalk/internal/logger"
	"github.com/dohyun/newstalk/internal/metrics"
	"github.com/dohyun/newstalk/internal/news"
	"github.com/dohyun/newstalk/internal/repository"
	"github.com/dohyun/newstalk/internal/security"
)

// Init 은 애플리케이션의 초기화를 수행한다.
// 환경 변수에서 Config 를 읽어 들이고 JSON 구조화 로그를 셋업한다.
// writer 가 지정된 경우 로그 출력처로 그 writer 를 사용한다.
func Init(w io.Writer) (*config.Config, error) {
	// 1. 로그 초기화(설정 로드 전에 로그를 쓸 수 있게 한다)
	logger.SetupDefault(w)

	// 2. 환경 변수에서 설정 로드
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run 은 애플리케이션의 메인 엔트리 포인트.
// 커맨드 라인 인자에서 서브커맨드를 해석해 대응하는 모드로 기동한다.
// args 에는 os.Args[1:] 를 전달한다.
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck 는 경량 서브커맨드이므로 풀 초기화를 건너뛴다
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
	)

	switch cmd {
	case CommandServe:
		return runServe(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// runServe 는 API 서버 모드로 기동한다.
// DB 연결을 열고 전체 의존 관계를 와이어링한 뒤 HTTP 서버를 기동한다.
// SIGINT 또는 SIGTERM 시그널을 수신하면 그레이스풀 셧다운을 수행한다.
func runServe(cfg *config.Config) error {
	// 1. DB 연결
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")

	// 2. 리포지토리 초기화
	searchRepo := repository.NewPostgresSearchRepo(db)

	// 3. 메트릭 초기화
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 4. 보안 서비스와 아웃바운드 클라이언트 초기화
	ssrfGuard := security.NewSSRFGuard()
	sanitizer := security.NewTextSanitizer()
	feedClient := ssrfGuard.NewSafeClient(cfg.FetchTimeout)

	// 5. 도메인 서비스 초기화
	fetcher := news.NewFetcher(feedClient, ssrfGuard, slog.Default(), collector, cfg.FetchMaxSize)
	parser := news.NewParser(sanitizer)
	searchService := news.NewSearchService(fetcher, parser, searchRepo, slog.Default(), collector)

	geminiClient := gemini.NewClient(
		&http.Client{Timeout: cfg.GeminiTimeout},
		cfg.GeminiAPIKey,
		slog.Default(),
		collector,
	)
	chatService := chat.NewService(geminiClient, cfg.GeminiChatModel, cfg.GeminiSummaryModel, slog.Default())

	historyService := history.NewService(searchRepo, slog.Default())

	// 6. 라우터 구축
	deps := &handler.RouterDeps{
		Logger:            slog.Default(),
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,

		SearchService:  searchService,
		ChatService:    chatService,
		HistoryService: historyService,

		DB:         db,
		SearchRepo: searchRepo,

		Collector: collector,
		Gatherer:  registry,
	}

	router := handler.NewRouter(deps)

	// 7. HTTP 서버 기동
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 그레이스풀 셧다운을 위한 시그널 핸들링
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runMigrate 는 데이터베이스 마이그레이션을 실행한다.
// 모든 미적용 마이그레이션을 순서대로 적용한다.
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck 는 헬스 체크를 실행한다.
// distroless 환경에서의 Docker 헬스 체크용 서브커맨드.
// /health 엔드포인트에 HTTP 요청을 보내고 결과를 반환한다.
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL 은 데이터베이스 URL 의 인증 정보를 마스킹한다.
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
