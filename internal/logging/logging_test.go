package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitializeWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diag.log")
	if err := Initialize(Config{Path: path, Level: "info"}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer Close()

	slog.Info("probe", "key", "value")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "probe") || !strings.Contains(string(data), "key=value") {
		t.Errorf("log file missing record, got: %s", data)
	}
}

func TestInitializeLevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diag.log")
	if err := Initialize(Config{Path: path, Level: "warn"}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer Close()

	slog.Info("quiet")
	slog.Warn("loud")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if strings.Contains(string(data), "quiet") {
		t.Error("info record written despite warn level")
	}
	if !strings.Contains(string(data), "loud") {
		t.Error("warn record missing")
	}
}

func TestInitializeWithoutPathDiscards(t *testing.T) {
	if err := Initialize(Config{}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer Close()

	// Must not panic or write anywhere.
	slog.Info("dropped")

	if err := Close(); err != nil {
		t.Errorf("Close with no writer: %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
