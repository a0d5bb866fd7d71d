package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gorm.io/gorm"
)

// ParseLevel maps LOG_LEVEL values to slog levels, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Setup initializes the global slog logger with JSON output to stdout.
func Setup(level slog.Level) {
	slog.SetDefault(slog.New(stdoutHandler(os.Stdout, level)))
}

// Install replaces the default logger with one that also persists ERROR+
// records to db. Callers must Stop the returned handler on shutdown.
func Install(db *gorm.DB, level slog.Level) *PGHandler {
	pg := NewPGHandler(db)
	slog.SetDefault(slog.New(NewMultiHandler(stdoutHandler(os.Stdout, level), pg)))
	return pg
}

func stdoutHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}
