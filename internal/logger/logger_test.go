package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in    string
		want  slog.Level
		known bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		got, known := ParseLevel(tt.in)
		if got != tt.want || known != tt.known {
			t.Errorf("ParseLevel(%q) = (%v, %v), want (%v, %v)", tt.in, got, known, tt.want, tt.known)
		}
	}
}

func TestNew_JSONFormatWithComponent(t *testing.T) {
	var buf bytes.Buffer

	log := New(&buf, "debug", FormatJSON).Component("seo")
	log.Debug("stage done", "stage", "meta")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}

	if entry["component"] != "seo" || entry["stage"] != "meta" {
		t.Errorf("unexpected attributes: %v", entry)
	}
}

func TestSetLevel_AppliesToChildren(t *testing.T) {
	var buf bytes.Buffer

	parent := New(&buf, "error", FormatText)
	child := parent.With("k", "v")

	child.Info("hidden")

	if buf.Len() != 0 {
		t.Fatalf("expected nothing at error level, got %q", buf.String())
	}

	parent.SetLevel("info")
	child.Info("shown")

	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected child to log after level change, got %q", buf.String())
	}
}
