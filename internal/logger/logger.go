// Package logger sets up the process-wide slog logger from LOG_LEVEL and LOG_FORMAT.
package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

var (
	defaultLogger atomic.Pointer[slog.Logger]
	lazyInit      sync.Once
)

// Setup builds the default logger. Output always goes to stderr.
func Setup() *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	var h slog.Handler
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		h = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	} else {
		h = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	}
	l := slog.New(h)
	defaultLogger.Store(l)
	return l
}

// L returns the default logger, running Setup once if nobody has yet.
// Safe for concurrent first use.
func L() *slog.Logger {
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	lazyInit.Do(func() {
		if defaultLogger.Load() == nil {
			Setup()
		}
	})
	return defaultLogger.Load()
}
