package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config 는 애플리케이션 전체 설정을 보관한다.
// 환경 변수에서 기동 시 1회 읽어 들이고, 이후에는 불변으로 다룬다.
type Config struct {
	// Database
	DatabaseURL string

	// Gemini
	// API 키는 기동 필수가 아니다. 미설정 상태에서 요약/채팅을 호출하면
	// 해당 요청이 설정 오류(500)로 실패한다.
	GeminiAPIKey       string
	GeminiChatModel    string
	GeminiSummaryModel string
	GeminiTimeout      time.Duration

	// Fetch
	FetchTimeout time.Duration
	FetchMaxSize int64

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string
}

// Load 는 환경 변수에서 Config 를 읽어 들인다.
// 필수 환경 변수가 미설정이면 에러를 반환한다.
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.GeminiChatModel = getEnvString("GEMINI_CHAT_MODEL", "gemini-1.5-flash")
	cfg.GeminiSummaryModel = getEnvString("GEMINI_SUMMARY_MODEL", "gemini-2.0-flash")
	cfg.GeminiTimeout = getEnvDuration("GEMINI_TIMEOUT", 30*time.Second)
	cfg.FetchTimeout = getEnvDuration("FETCH_TIMEOUT", 10*time.Second)
	cfg.FetchMaxSize = getEnvInt64("FETCH_MAX_SIZE", 5242880)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
