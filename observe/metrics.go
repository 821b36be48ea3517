package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records outbound call metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, err error)
}

type metricsImpl struct {
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewMetrics creates call metrics on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	totalCount, err := meter.Int64Counter(
		"leadguard.call.total",
		metric.WithDescription("Total number of outbound calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"leadguard.call.errors",
		metric.WithDescription("Total number of failed outbound calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"leadguard.call.duration_ms",
		metric.WithDescription("Outbound call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		totalCount:   totalCount,
		errorCount:   errorCount,
		durationHist: durationHist,
	}, nil
}

func (m *metricsImpl) RecordCall(ctx context.Context, meta CallMeta, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{attribute.String("call.service", meta.Service)}
	if meta.Operation != "" {
		attrs = append(attrs, attribute.String("call.operation", meta.Operation))
	}
	opt := metric.WithAttributes(attrs...)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

type noopMetrics struct{}

func (noopMetrics) RecordCall(context.Context, CallMeta, time.Duration, error) {}

// NoopMetrics returns Metrics that record nothing.
func NoopMetrics() Metrics { return noopMetrics{} }

// CacheMetrics counts cache events per cache name. It satisfies the cache
// package's Metrics interface.
type CacheMetrics struct {
	hits       metric.Int64Counter
	misses     metric.Int64Counter
	refreshes  metric.Int64Counter
	evictions  metric.Int64Counter
	loadErrors metric.Int64Counter
}

// NewCacheMetrics creates cache counters on meter.
func NewCacheMetrics(meter metric.Meter) (*CacheMetrics, error) {
	m := &CacheMetrics{}
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.hits, "leadguard.cache.hits", "Reads answered by a resident entry"},
		{&m.misses, "leadguard.cache.misses", "Reads that invoked the loader"},
		{&m.refreshes, "leadguard.cache.refreshes", "Background reloads queued"},
		{&m.evictions, "leadguard.cache.evictions", "Entries evicted by size bound"},
		{&m.loadErrors, "leadguard.cache.load_errors", "Loader failures"},
	}
	for _, c := range counters {
		counter, err := meter.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, err
		}
		*c.dst = counter
	}
	return m, nil
}

func cacheAttr(name string) metric.AddOption {
	return metric.WithAttributes(attribute.String("cache.name", name))
}

func (m *CacheMetrics) Hit(cache string) {
	m.hits.Add(context.Background(), 1, cacheAttr(cache))
}

func (m *CacheMetrics) Miss(cache string) {
	m.misses.Add(context.Background(), 1, cacheAttr(cache))
}

func (m *CacheMetrics) Refresh(cache string) {
	m.refreshes.Add(context.Background(), 1, cacheAttr(cache))
}

func (m *CacheMetrics) Eviction(cache string, n int) {
	m.evictions.Add(context.Background(), int64(n), cacheAttr(cache))
}

func (m *CacheMetrics) LoadError(cache string) {
	m.loadErrors.Add(context.Background(), 1, cacheAttr(cache))
}

// OutcomeMetrics counts validation results by error code. An empty code
// means the lead was accepted.
type OutcomeMetrics struct {
	total metric.Int64Counter
}

// NewOutcomeMetrics creates the outcome counter on meter.
func NewOutcomeMetrics(meter metric.Meter) (*OutcomeMetrics, error) {
	total, err := meter.Int64Counter(
		"leadguard.validation.total",
		metric.WithDescription("Validation requests by outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}
	return &OutcomeMetrics{total: total}, nil
}

// Record counts one outcome.
func (m *OutcomeMetrics) Record(ctx context.Context, status int, code string) {
	if m == nil {
		return
	}
	if code == "" {
		code = "OK"
	}
	m.total.Add(ctx, 1, metric.WithAttributes(
		attribute.Int("http.status_code", status),
		attribute.String("outcome", code),
	))
}
