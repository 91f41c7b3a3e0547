package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
)

func TestNewWritesJSONWithContextFields(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Level: "debug", Output: &buf})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ctx := ContextWithUserID(ContextWithRequestID(context.Background(), "req-1"), "u1")
	WithRequestID(ctx, log).Debug("hello")
	_ = log.Sync()

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if entry["msg"] != "hello" || entry["request_id"] != "req-1" || entry["user_id"] != "u1" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Fatalf("expected timestamp key, got %v", entry)
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Fatal("expected an error for an unknown level")
	}
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log, _ := New(Config{Level: "warn", Output: &buf})
	log.Info("hidden")
	_ = log.Sync()
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}
}
