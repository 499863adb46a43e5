package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func decode(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestLogger_FieldsAndTraceID(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelInfo, "campus-rewards", func(context.Context) string { return "abc123" })

	log.Info(context.Background(), "wallet connected", "account", "0x1", "attempt", 2, "error", errors.New("boom"))

	lines := decode(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("lines = %d", len(lines))
	}
	got := lines[0]
	want := map[string]any{
		"msg":      "wallet connected",
		"level":    "info",
		"service":  "campus-rewards",
		"trace_id": "abc123",
		"account":  "0x1",
		"attempt":  float64(2),
		"error":    "boom",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %v", k, got[k], v)
		}
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, ParseLevel("warn"), "svc", nil)
	ctx := context.Background()

	log.Debug(ctx, "debug")
	log.Info(ctx, "info")
	log.Warn(ctx, "warn")
	log.Error(ctx, "error")

	lines := decode(t, &buf)
	if len(lines) != 2 || lines[0]["msg"] != "warn" || lines[1]["msg"] != "error" {
		t.Errorf("lines = %v", lines)
	}
}

func TestLogger_DanglingKey(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, LevelDebug, "svc", nil).Debug(context.Background(), "odd", "lonely")

	lines := decode(t, &buf)
	if len(lines) != 1 || lines[0]["!BADKEY"] != "lonely" {
		t.Errorf("lines = %v", lines)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug": LevelDebug,
		"info":  LevelInfo,
		"warn":  LevelWarn,
		"error": LevelError,
		"":      LevelInfo,
		"loud":  LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
