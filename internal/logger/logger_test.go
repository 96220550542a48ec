package logger

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		" info ":  slog.LevelInfo,
		"warn":    slog.LevelWarn,
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

func TestValOr(t *testing.T) {
	if got := valOr(0, 10); got != 10 {
		t.Fatalf("expected default 10, got %d", got)
	}
	if got := valOr(-1, 10); got != 10 {
		t.Fatalf("expected default 10, got %d", got)
	}
	if got := valOr(5, 10); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
}

func TestNewStderrLogger(t *testing.T) {
	l := Config{Level: "debug"}.New()
	if l == nil {
		t.Fatal("expected logger")
	}
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("debug level should be enabled")
	}
}

func TestNewColorLogger(t *testing.T) {
	l := Config{Color: true}.New()
	if l == nil {
		t.Fatal("expected logger")
	}
	if l.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("debug should be disabled at default level")
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vigil.log")
	l := Config{File: path, Level: "info"}.New()

	l.Info("hello", "key", "value")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("log file is empty")
	}
}
