package verify

import (
	"context"
	"time"

	"github.com/jonwraymond/leadguard/fetch"
	"github.com/jonwraymond/leadguard/observe"
	"github.com/jonwraymond/leadguard/resilience"
)

// BreakerConfig configures the per-vendor circuit breaker.
type BreakerConfig struct {
	// MaxFailures opens the circuit. Zero disables the breaker.
	MaxFailures int

	// ResetTimeout is how long the circuit stays open.
	ResetTimeout time.Duration
}

// NewVendorFetcher builds the fetch chain for one vendor: instrumentation
// around a circuit breaker around base.
func NewVendorFetcher(vendor string, base fetch.Fetcher, mw *observe.Middleware, breaker BreakerConfig, logger observe.Logger) fetch.Fetcher {
	if base == nil {
		base = fetch.NewHTTPFetcher(nil)
	}
	if logger == nil {
		logger = observe.NopLogger()
	}

	f := base
	if breaker.MaxFailures > 0 {
		cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Name:         vendor,
			MaxFailures:  breaker.MaxFailures,
			ResetTimeout: breaker.ResetTimeout,
			OnStateChange: func(name string, from, to resilience.State) {
				logger.Warn(context.Background(), "circuit state changed",
					observe.Field{Key: "service", Value: name},
					observe.Field{Key: "from", Value: from.String()},
					observe.Field{Key: "to", Value: to.String()},
				)
			},
		})
		f = fetch.Guarded(f, resilience.NewExecutor(resilience.WithCircuitBreaker(cb)))
	}
	return fetch.Instrumented(f, mw)
}
