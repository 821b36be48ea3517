// Package resilience bounds outbound verification calls.
//
// # Patterns
//
//   - Timeout: bounds a single attempt, or the wait for an attempt already
//     running elsewhere.
//
//   - Bulkhead: the per-request worker pool. Each validation request owns one
//     sized to the number of calls it dispatches.
//
//   - Circuit Breaker: one per vendor. After repeated failures the vendor is
//     skipped and callers fall back to their safe default.
//
// Calls are never retried. Every call gets one bounded attempt.
//
// # Usage
//
//	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	    Name:         "zerobounce",
//	    MaxFailures:  5,
//	    ResetTimeout: time.Minute,
//	})
//
//	executor := resilience.NewExecutor(
//	    resilience.WithCircuitBreaker(cb),
//	    resilience.WithTimeout(5*time.Second),
//	)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return callVendor(ctx)
//	})
package resilience
