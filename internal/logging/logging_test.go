package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{" DEBUG ", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewWriter_FiltersByLevelAndTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := Component(NewWriter("warn", &buf), "poller")

	logger.Info().Msg("hidden")
	logger.Warn().Msg("status poll failed")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, "status poll failed") || !strings.Contains(out, "component=poller") {
		t.Fatalf("output = %q, want warn line tagged component=poller", out)
	}
}

func TestNew_CreatesFileAndDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "gazer.log")

	logger, closer, err := New("info", path)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info().Str("device", "pi.local").Msg("started")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "started") || !strings.Contains(string(data), "device=pi.local") {
		t.Fatalf("log file = %q", string(data))
	}
}

func TestNew_EmptyPathErrors(t *testing.T) {
	if _, _, err := New("info", " "); err == nil {
		t.Fatalf("New with empty path returned nil error")
	}
}
