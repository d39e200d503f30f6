// ABOUTME: Structured logging configuration using log/slog
// ABOUTME: Logs to stderr for commands and to a debug file while the TUI owns the terminal

package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DebugLogName is the file the TUI logs into inside the config directory
const DebugLogName = "debug.log"

// Init configures the default slog logger to write to w.
// LOG_LEVEL: debug, info, warn, error (default: warn)
// LOG_FORMAT: text, json (default: text)
func Init(w io.Writer) {
	slog.SetDefault(New(w, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT")))
}

// New builds a logger for the given level and format names.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// InitFile points the default logger at <configDir>/debug.log.
// If configDir is empty, log output is discarded.
func InitFile(configDir string) (io.Closer, error) {
	if configDir == "" {
		Init(io.Discard)
		return io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		Init(io.Discard)
		return io.NopCloser(nil), err
	}

	f, err := os.OpenFile(filepath.Join(configDir, DebugLogName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		Init(io.Discard)
		return io.NopCloser(nil), err
	}

	Init(f)
	return f, nil
}

// parseLevel converts a string log level to slog.Level.
// Commands stay quiet unless asked, so the default is warn.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
