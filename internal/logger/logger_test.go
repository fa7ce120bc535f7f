package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConfigureWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	ConfigureWriter(&buf, "debug", "json")
	defer ConfigureWriter(&bytes.Buffer{}, "info", "text")

	Debug("debug message", "category", "ai")
	Error("failed", errors.New("boom"))

	out := buf.String()
	if !strings.Contains(out, `"msg":"debug message"`) {
		t.Errorf("Expected JSON debug line, got %s", out)
	}
	if !strings.Contains(out, `"category":"ai"`) {
		t.Errorf("Expected category attribute, got %s", out)
	}
	if !strings.Contains(out, `"error":"boom"`) {
		t.Errorf("Expected error attribute, got %s", out)
	}
}

func TestConfigureWriterFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	ConfigureWriter(&buf, "warn", "text")
	defer ConfigureWriter(&bytes.Buffer{}, "info", "text")

	Info("hidden")
	Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("Info message should be filtered at warn level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("Warn message should be logged")
	}
}
