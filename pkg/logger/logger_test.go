package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func logEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not one JSON entry: %v\n%s", err, buf.String())
	}
	return entry
}

func TestErrorCarriesRequestScopedFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "checkout", Output: buf})

	ctx := log.WithRequestID(context.Background(), "req-9f3a")
	ctx = log.WithUserID(ctx, "7c2b1c0e")
	log.Error(ctx, "order placement failed", errors.New("stock exhausted"))

	entry := logEntry(t, buf)
	if entry["service"] != "checkout" {
		t.Fatalf("expected service name in entry, got %v", entry["service"])
	}
	if entry["request_id"] != "req-9f3a" {
		t.Fatalf("expected request_id to survive the context, got %v", entry["request_id"])
	}
	if entry["user_id"] != "7c2b1c0e" {
		t.Fatalf("expected user_id to survive the context, got %v", entry["user_id"])
	}
	if entry["error"] != "stock exhausted" {
		t.Fatalf("expected error field, got %v", entry["error"])
	}
	if _, ok := entry["stack"]; !ok {
		t.Fatal("error entries should always carry a stack")
	}
}

func TestWithFieldsMergesIntoEveryEntry(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "orders", Output: buf})

	ctx := log.WithFields(context.Background(), map[string]any{
		"order_id": "f4d2",
		"total":    "25.00",
	})
	log.Info(ctx, "order placed")

	entry := logEntry(t, buf)
	if entry["order_id"] != "f4d2" || entry["total"] != "25.00" {
		t.Fatalf("expected attached fields, got %v", entry)
	}
}

func TestWarnStackToggle(t *testing.T) {
	withStack := &bytes.Buffer{}
	log := New(Options{ServiceName: "api", Output: withStack, WarnStack: true})
	log.Warn(context.Background(), "payment gateway slow")
	if _, ok := logEntry(t, withStack)["stack"]; !ok {
		t.Fatal("expected stack on warn when WarnStack is on")
	}

	withoutStack := &bytes.Buffer{}
	log = New(Options{ServiceName: "api", Output: withoutStack})
	log.Warn(context.Background(), "payment gateway slow")
	if _, ok := logEntry(t, withoutStack)["stack"]; ok {
		t.Fatal("expected no stack on warn when WarnStack is off")
	}
}

func TestLevelFiltersInfoBelowWarn(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "api", Level: zerolog.WarnLevel, Output: buf})

	log.Info(context.Background(), "suppressed")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %s", buf.String())
	}

	log.Warn(context.Background(), "emitted")
	if buf.Len() == 0 {
		t.Fatal("warn should pass at warn level")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"garbage": zerolog.InfoLevel,
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}
