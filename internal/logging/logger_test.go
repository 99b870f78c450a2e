package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestConsoleHandlerFormatsComponentAndFields(t *testing.T) {
	var buf bytes.Buffer
	handler := newConsoleHandler(&buf, slog.LevelInfo)
	logger := slog.New(handler).With(String(FieldComponent, "session"))

	logger.Info("pending request stored", String("user", "alice"), Int("size", 42))

	line := buf.String()
	for _, fragment := range []string{"INFO", "| session |", "pending request stored", "user=alice", "size=42"} {
		if !strings.Contains(line, fragment) {
			t.Errorf("log line %q missing %q", line, fragment)
		}
	}
}

func TestConsoleHandlerHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	handler := newConsoleHandler(&buf, slog.LevelWarn)
	if handler.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn level")
	}
	if !handler.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled at warn level")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	// Must not panic or emit; the handler reports disabled for all levels.
	logger.Error("ignored", Error(nil), Duration("after", time.Second))
	if (NoopHandler{}).Enabled(context.Background(), slog.LevelError) {
		t.Error("noop handler must report disabled")
	}
}
