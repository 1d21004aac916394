package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// statusRecorder 는 http.ResponseWriter 를 감싸 상태 코드를 기록한다.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

// WriteHeader 는 상태 코드를 기록한 뒤 위임한다.
func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

// Write 는 데이터를 기록한다. WriteHeader 가 호출되지 않았다면 200 을 기록한다.
func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// HTTPStatusRecorder 는 응답 상태 코드의 메트릭 기록 인터페이스.
// metrics.MetricsCollector 전체에 의존하지 않도록 최소한으로 정의한다.
type HTTPStatusRecorder interface {
	RecordHTTPStatus(statusCode int)
}

// NewLoggingMiddleware 는 요청의 JSON 구조화 로그를 출력하는 미들웨어를 반환한다.
// 로그에는 method, path, status, duration_ms 를 포함하고,
// 응답 상태 코드를 statusMetrics 에 기록한다.
func NewLoggingMiddleware(logger *slog.Logger, statusMetrics HTTPStatusRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			if statusMetrics != nil {
				statusMetrics.RecordHTTPStatus(rec.statusCode)
			}

			duration := time.Since(start)
			durationMs := float64(duration.Nanoseconds()) / float64(time.Millisecond)

			// slog 의 로그 레벨을 상태 코드에 따라 변경
			level := slog.LevelInfo
			if rec.statusCode >= 500 {
				level = slog.LevelError
			} else if rec.statusCode >= 400 {
				level = slog.LevelWarn
			}

			logger.Log(r.Context(), level, "http_request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.statusCode),
				slog.Float64("duration_ms", durationMs),
			)
		})
	}
}
