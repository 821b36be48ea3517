package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("failed to parse log output as JSON: %v\nOutput: %s", err, line)
		}
		out = append(out, entry)
	}
	return out
}

func TestLogger_IncludesCallFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.WithCall(CallMeta{Service: "zerobounce", Operation: "validate", Endpoint: "https://api.example/v2/validate"}).
		Info(context.Background(), "test message")

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 line, got %d", len(entries))
	}
	e := entries[0]
	if e["call.service"] != "zerobounce" {
		t.Errorf("call.service = %v, want zerobounce", e["call.service"])
	}
	if e["call.operation"] != "validate" {
		t.Errorf("call.operation = %v, want validate", e["call.operation"])
	}
	if e["call.endpoint"] != "https://api.example/v2/validate" {
		t.Errorf("call.endpoint = %v", e["call.endpoint"])
	}
	if e["msg"] != "test message" || e["level"] != "info" {
		t.Errorf("msg/level = %v/%v", e["msg"], e["level"])
	}
	if _, ok := e["timestamp"].(string); !ok {
		t.Error("timestamp missing")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", &buf)
	ctx := context.Background()

	logger.Debug(ctx, "debug")
	logger.Info(ctx, "info")
	logger.Warn(ctx, "warn")
	logger.Error(ctx, "error")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("expected 2 lines at warn level, got %d", len(entries))
	}
	if entries[0]["level"] != "warn" || entries[1]["level"] != "error" {
		t.Errorf("levels = %v, %v", entries[0]["level"], entries[1]["level"])
	}
}

func TestLogger_RedactsSensitiveFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Info(context.Background(), "fetched",
		Field{Key: "secret", Value: "s3cr3t"},
		Field{Key: "client_secret", Value: "abc"},
		Field{Key: "token", Value: "eyJhbGciOi"},
		Field{Key: "credential", Value: "bearer"},
		Field{Key: "cache", Value: "token_response"},
	)

	e := decodeLines(t, &buf)[0]
	for _, k := range []string{"secret", "client_secret", "token", "credential"} {
		if e[k] != "[REDACTED]" {
			t.Errorf("%s = %v, want [REDACTED]", k, e[k])
		}
	}
	if e["cache"] != "token_response" {
		t.Errorf("cache = %v, want token_response", e["cache"])
	}
	if strings.Contains(buf.String(), "s3cr3t") {
		t.Error("raw secret leaked into output")
	}
}

func TestLogger_RequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	ctx := WithRequestID(context.Background(), "req-42")
	logger.Info(ctx, "with id")
	logger.Info(context.Background(), "without id")

	entries := decodeLines(t, &buf)
	if entries[0]["request_id"] != "req-42" {
		t.Errorf("request_id = %v, want req-42", entries[0]["request_id"])
	}
	if _, ok := entries[1]["request_id"]; ok {
		t.Error("request_id present without one in context")
	}
}

func TestLogger_DerivedLoggersShareWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l := logger
			if i%2 == 0 {
				l = logger.WithCall(CallMeta{Service: "recaptcha"})
			}
			l.Info(context.Background(), "concurrent", Field{Key: "i", Value: i})
		}(i)
	}
	wg.Wait()

	if got := len(decodeLines(t, &buf)); got != 20 {
		t.Errorf("lines = %d, want 20", got)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNopLogger(t *testing.T) {
	l := NopLogger()
	if l.WithCall(CallMeta{Service: "x"}) == nil {
		t.Fatal("WithCall should return non-nil logger")
	}
	l.Info(context.Background(), "ignored")
}
