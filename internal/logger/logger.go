package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init installs a JSON slog handler on stderr as the default logger. The
// level comes from flagLevel, then LOG_LEVEL, then configLevel.
func Init(configLevel, flagLevel string) {
	slog.SetDefault(New(os.Stderr, resolveLevel(configLevel, flagLevel)))
}

func resolveLevel(configLevel, flagLevel string) string {
	if flagLevel != "" {
		return flagLevel
	}
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		return env
	}
	return configLevel
}

// New returns a JSON logger writing to w at the named level.
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
}

// ParseLevel maps debug, info, warn and error to slog levels. Anything
// else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
