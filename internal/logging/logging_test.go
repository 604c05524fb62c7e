package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"chatty":  slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLogLevel(in); got != want {
			t.Fatalf("ParseLogLevel(%q) = %v; want %v", in, got, want)
		}
	}
}

func TestNewStructuredLogger_AttachesModule(t *testing.T) {
	var buf bytes.Buffer
	l := NewStructuredLogger(&buf, "info")
	l.Debug("dropped")
	l.Info("kept", "scope", "primaryMenu")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("expected exactly one JSON record; got %q: %v", buf.String(), err)
	}
	if rec["module"] != Module || rec["msg"] != "kept" || rec["scope"] != "primaryMenu" {
		t.Fatalf("unexpected record: %v", rec)
	}
}
