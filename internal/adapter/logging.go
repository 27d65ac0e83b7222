package adapter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// NewLogger returns the JSON logger shared by reel and mockapi. Every record
// carries the process name so interleaved logs can be told apart.
func NewLogger(w io.Writer, level, process string) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLogLevel(level)})
	return slog.New(h).With("process", process)
}

// SetupLogger appends to the configured log file. The closer releases the
// file; with no file configured logs are discarded and the closer is a no-op.
func SetupLogger(cfg *LoggingConfig, process string) (*slog.Logger, io.Closer, error) {
	if cfg == nil || cfg.File == "" {
		return NullLogger(), io.NopCloser(nil), nil
	}

	path := expandHome(cfg.File)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return NewLogger(f, cfg.Level, process), f, nil
}

// ParseLogLevel accepts slog level names ("debug", "warn+2") and WARNING.
// Anything unrecognised is INFO.
func ParseLogLevel(level string) slog.Level {
	level = strings.TrimSpace(level)
	if strings.EqualFold(level, "WARNING") {
		return slog.LevelWarn
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// NullLogger discards everything.
func NullLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
