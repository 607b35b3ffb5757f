package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vogelring/vogelring/internal/config"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"Info":    slog.LevelInfo,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFileOutput(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "app.log")

	log := New(config.LogConfig{Level: "debug", File: file, MaxSize: 1})
	log.Info("started", "component", "test")

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "started") {
		t.Errorf("log file missing message, got %q", data)
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "app.log")

	log := New(config.LogConfig{Level: "warn", File: file})
	log.Debug("hidden")
	log.Warn("visible")

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "hidden") {
		t.Error("debug message was not filtered")
	}
	if !strings.Contains(out, "visible") {
		t.Error("warn message missing")
	}
}
