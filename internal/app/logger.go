// AngelaMos | 2026
// logger.go

package app

import (
	"io"
	"log/slog"
	"strings"

	"github.com/alwaysdemon/storefront/internal/config"
)

// NewLogger builds the process logger. Unknown levels fall back to info and
// any format other than "text" logs JSON.
func NewLogger(w io.Writer, logCfg config.LogConfig, appCfg config.AppConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(logCfg.Level))); err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(logCfg.Format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(handler)
	if appCfg.Name != "" {
		logger = logger.With(
			slog.String("service", appCfg.Name),
			slog.String("env", appCfg.Environment),
		)
	}
	return logger
}
