package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"warn", WarnLevel},
		{"error", ErrorLevel},
		{"verbose", InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTextFormatFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(New(&buf, WarnLevel, "text"))
	t.Cleanup(func() { SetDefault(nil) })

	Info("hidden %d", 1)
	Warn("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Info message leaked at warn level: %q", out)
	}
	if !strings.Contains(out, "[WARN] shown 2") {
		t.Errorf("Expected warn line, got %q", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(New(&buf, DebugLevel, "json"))
	t.Cleanup(func() { SetDefault(nil) })

	Debug("resolved %d queries", 3)

	var entry jsonEntry
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("Output is not JSON: %v (%q)", err, buf.String())
	}
	if entry.Level != "debug" || entry.Msg != "resolved 3 queries" {
		t.Errorf("Unexpected entry: %+v", entry)
	}
	if entry.Time == "" {
		t.Error("Expected a timestamp")
	}
}

func TestNilDefaultIsSilent(t *testing.T) {
	SetDefault(nil)
	Info("no logger configured")
	Error("still fine")
}
