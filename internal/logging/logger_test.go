package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLoggerStructuredOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter("debug", &buf).WithComponent("test")
	l.Infow("column.degraded", map[string]any{"column": "id", "kind": "UnknownType"})

	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected log output")
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		t.Fatalf("expected JSON log line: %v", err)
	}
	if rec["level"] != "info" {
		t.Fatalf("unexpected level: %#v", rec["level"])
	}
	if rec["message"] != "column.degraded" {
		t.Fatalf("unexpected message: %#v", rec["message"])
	}
	if rec["component"] != "test" {
		t.Fatalf("unexpected component: %#v", rec["component"])
	}
	if rec["column"] != "id" {
		t.Fatalf("unexpected field column: %#v", rec["column"])
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter("error", &buf)
	l.Info("should_not_log")
	l.Warn("should_not_log_either")
	l.Error("should_log %d", 1)
	out := strings.TrimSpace(buf.String())
	lines := strings.Split(out, "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d: %q", len(lines), out)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("expected JSON log line: %v", err)
	}
	if rec["level"] != "error" || rec["message"] != "should_log 1" {
		t.Fatalf("unexpected record: %#v", rec)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("WARN") != LevelWarn || ParseLevel("bogus") != LevelInfo {
		t.Fatal("unexpected level parsing")
	}
}
