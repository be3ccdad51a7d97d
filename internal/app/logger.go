package app

import (
	"io"
	"log/slog"
	"strings"
)

// parseLevel maps a level name to a slog level. Unknown names fall back to
// info.
func parseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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

// newLogger builds an isolated slog.Logger writing to outW. The global
// default logger is left alone so parallel runs do not share output.
func newLogger(level, format string, outW io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}
