// Package logx builds the ambient structured logger for git-warp. The
// lower lifecycle components never log directly — only the Orchestrator
// decides what the user sees; this package exists so the Orchestrator and
// the CLI share one logging setup.
package logx

import (
	"log/slog"
	"os"
	"strings"

	"github.com/gitwarp/warp/internal/config"
)

// New builds a slog.Logger from the resolved logging configuration.
func New(cfg config.LoggingConfig) *slog.Logger {
	level := parseLevel(cfg.Level)
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
