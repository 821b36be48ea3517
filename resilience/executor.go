package resilience

import (
	"context"
	"time"
)

// Policy runs an operation under one resilience rule.
type Policy interface {
	Execute(ctx context.Context, op func(context.Context) error) error
}

// Executor stacks a circuit breaker around a per-attempt timeout. Unset
// layers are skipped. A timed out attempt reaches the breaker as ErrTimeout
// and counts as a failure.
type Executor struct {
	breaker *CircuitBreaker
	timeout *Timeout
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// NewExecutor creates an executor from opts.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithCircuitBreaker sets the breaker layer.
func WithCircuitBreaker(cb *CircuitBreaker) ExecutorOption {
	return func(e *Executor) { e.breaker = cb }
}

// WithTimeout bounds each attempt to d. A non-positive d leaves attempts
// bounded only by the caller's context.
func WithTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.timeout = nil
		if d > 0 {
			e.timeout = NewTimeout(TimeoutConfig{Timeout: d})
		}
	}
}

// CircuitBreaker returns the breaker layer, or nil.
func (e *Executor) CircuitBreaker() *CircuitBreaker { return e.breaker }

// Execute runs op through every configured layer.
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	run := op
	for _, p := range e.layers() {
		inner := run
		run = func(ctx context.Context) error { return p.Execute(ctx, inner) }
	}
	return run(ctx)
}

// layers returns the configured policies, innermost first.
func (e *Executor) layers() []Policy {
	out := make([]Policy, 0, 2)
	if e.timeout != nil {
		out = append(out, e.timeout)
	}
	if e.breaker != nil {
		out = append(out, e.breaker)
	}
	return out
}
