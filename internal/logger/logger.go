package logger

import (
	"io"
	"log/slog"
	"os"
)

// Setup 은 JSON 구조화 로그를 출력하는 slog.Logger 를 생성해 반환한다.
// writer 가 지정된 경우 그 writer 로 출력한다.
func Setup(w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(handler)
}

// SetupDefault 는 JSON 구조화 로그 출력을 전역 로거로 설정한다.
// writer 가 nil 이면 os.Stdout 으로 출력한다.
func SetupDefault(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	logger := Setup(w)
	slog.SetDefault(logger)
}
