package logger

import (
	"log/slog"
	"os"
)

// NewTestLogger returns a logger quiet enough for test output: warnings and
// errors only. Set VISUALES_TEST_LOG=debug to see everything while chasing
// a failing test.
func NewTestLogger() *slog.Logger {
	cfg := Config{Level: slog.LevelWarn, Format: "text"}
	if os.Getenv("VISUALES_TEST_LOG") == "debug" {
		cfg.Level = slog.LevelDebug
	}
	return NewLogger(cfg)
}
