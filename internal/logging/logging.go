// Package logging configures the diagnostics log. Output goes to a
// rotated file only; stdout and stderr belong to the interactive UI.
package logging

import (
	"io"
	"log/slog"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	writer   io.WriteCloser
	writerMu sync.Mutex
)

// Config holds diagnostics log settings.
type Config struct {
	// Path is the log file location. Empty disables logging entirely.
	Path string
	// Level is the minimum level (debug, info, warn, error).
	Level string
	// MaxSizeMB is the rotation threshold. Default 10.
	MaxSizeMB int
	// MaxBackups is how many rotated files to keep. Default 3.
	MaxBackups int
}

// Initialize installs the default slog logger. With no path configured
// every record is discarded, which keeps callers free to log without
// checking.
func Initialize(cfg Config) error {
	writerMu.Lock()
	defer writerMu.Unlock()

	if cfg.Path == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return nil
	}

	maxSize := cfg.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}
	maxBackups := cfg.MaxBackups
	if maxBackups <= 0 {
		maxBackups = 3
	}

	lj := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
	}
	writer = lj

	handler := slog.NewTextHandler(lj, &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	})
	slog.SetDefault(slog.New(handler))
	return nil
}

// Close releases the log file if one is open.
func Close() error {
	writerMu.Lock()
	defer writerMu.Unlock()

	if writer != nil {
		err := writer.Close()
		writer = nil
		return err
	}
	return nil
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
