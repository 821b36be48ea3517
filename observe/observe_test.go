package observe

import (
	"context"
	"errors"
	"testing"

	promclient "github.com/prometheus/client_golang/prometheus"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"minimal", Config{ServiceName: "leadguard"}, nil},
		{"missing name", Config{}, ErrMissingServiceName},
		{"bad tracing exporter", Config{ServiceName: "x", Tracing: TracingConfig{Enabled: true, Exporter: "zipkin"}}, ErrInvalidTracingExporter},
		{"bad sample", Config{ServiceName: "x", Tracing: TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 1.5}}, ErrInvalidSamplePct},
		{"bad metrics exporter", Config{ServiceName: "x", Metrics: MetricsConfig{Enabled: true, Exporter: "statsd"}}, ErrInvalidMetricsExporter},
		{"bad level", Config{ServiceName: "x", Logging: LoggingConfig{Enabled: true, Level: "trace"}}, ErrInvalidLogLevel},
		{"disabled sections ignore values", Config{ServiceName: "x", Tracing: TracingConfig{Exporter: "zipkin"}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewObserver_Noops(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "observe-test"})
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}
	if obs.Tracer() == nil || obs.Meter() == nil || obs.Logger() == nil {
		t.Fatal("expected non-nil tracer, meter and logger")
	}
	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewObserver_PrometheusMetrics(t *testing.T) {
	reg := promclient.NewRegistry()
	obs, err := NewObserver(context.Background(), Config{
		ServiceName: "observe-test",
		Version:     "test",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "prometheus", Registerer: reg},
		Logging:     LoggingConfig{Enabled: true, Level: "error"},
	})
	if err != nil {
		t.Fatalf("NewObserver failed: %v", err)
	}
	t.Cleanup(func() { _ = obs.Shutdown(context.Background()) })

	mw, err := MiddlewareFromObserver(obs)
	if err != nil {
		t.Fatalf("MiddlewareFromObserver() error = %v", err)
	}
	wrapped := mw.Wrap(func(ctx context.Context, m CallMeta) ([]byte, error) { return nil, nil })
	if _, err := wrapped(context.Background(), CallMeta{Service: "token", Operation: "fetch"}); err != nil {
		t.Fatal(err)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	if len(families) == 0 {
		t.Error("no metric families registered with prometheus")
	}
}

func TestCallMeta_SpanName(t *testing.T) {
	if got := (CallMeta{Service: "recaptcha", Operation: "verify"}).SpanName(); got != "leadguard.call.recaptcha.verify" {
		t.Errorf("SpanName() = %q", got)
	}
	if got := (CallMeta{Service: "token"}).SpanName(); got != "leadguard.call.token" {
		t.Errorf("SpanName() = %q", got)
	}
}

func TestNoopTracer(t *testing.T) {
	tracer := NewNoopTracer()
	_, span := tracer.StartSpan(context.Background(), CallMeta{Service: "noop"})
	tracer.EndSpan(span, errors.New("ignored"))
}
