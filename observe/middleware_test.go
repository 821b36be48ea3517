package observe

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestMiddleware(t *testing.T, logBuf *bytes.Buffer) (*Middleware, *tracetest.SpanRecorder, *sdkmetric.ManualReader) {
	t.Helper()
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatal(err)
	}
	return NewMiddleware(NewTracer(tp.Tracer("test")), metrics, NewLoggerWithWriter("debug", logBuf)), spans, reader
}

func TestMiddleware_SuccessPath(t *testing.T) {
	var logs bytes.Buffer
	mw, spans, reader := newTestMiddleware(t, &logs)

	meta := CallMeta{Service: "recaptcha", Operation: "verify"}
	wrapped := mw.Wrap(func(ctx context.Context, m CallMeta) ([]byte, error) {
		return []byte(`{"success":true}`), nil
	})

	body, err := wrapped(context.Background(), meta)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if string(body) != `{"success":true}` {
		t.Errorf("body = %q", body)
	}

	ended := spans.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	if ended[0].Name() != "leadguard.call.recaptcha.verify" {
		t.Errorf("span name = %q", ended[0].Name())
	}
	if ended[0].Status().Code != codes.Ok {
		t.Errorf("span status = %v, want Ok", ended[0].Status().Code)
	}
	if got := sumValue(t, collect(t, reader), "leadguard.call.total"); got != 1 {
		t.Errorf("leadguard.call.total = %d, want 1", got)
	}
	entries := decodeLines(t, &logs)
	if len(entries) != 1 || entries[0]["msg"] != "outbound call completed" {
		t.Errorf("log entries = %v", entries)
	}
}

func TestMiddleware_ErrorPath(t *testing.T) {
	var logs bytes.Buffer
	mw, spans, reader := newTestMiddleware(t, &logs)

	cause := errors.New("connection refused")
	wrapped := mw.Wrap(func(ctx context.Context, m CallMeta) ([]byte, error) {
		return nil, cause
	})

	_, err := wrapped(context.Background(), CallMeta{Service: "zerobounce"})
	if !errors.Is(err, cause) {
		t.Fatalf("error = %v, want %v unchanged", err, cause)
	}

	ended := spans.Ended()
	if len(ended) != 1 || ended[0].Status().Code != codes.Error {
		t.Fatalf("expected one errored span, got %v", ended)
	}
	if got := sumValue(t, collect(t, reader), "leadguard.call.errors"); got != 1 {
		t.Errorf("leadguard.call.errors = %d, want 1", got)
	}
	entries := decodeLines(t, &logs)
	if entries[0]["level"] != "warn" || entries[0]["error"] != "connection refused" {
		t.Errorf("log entry = %v", entries[0])
	}
}

func TestMiddleware_NilComponents(t *testing.T) {
	mw := NewMiddleware(nil, nil, nil)
	wrapped := mw.Wrap(func(ctx context.Context, m CallMeta) ([]byte, error) { return nil, nil })
	if _, err := wrapped(context.Background(), CallMeta{Service: "token"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
