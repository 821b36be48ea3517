package resilience

import (
	"context"
	"errors"
	"time"
)

// DefaultTimeout applies when TimeoutConfig.Timeout is not set.
const DefaultTimeout = 30 * time.Second

// TimeoutConfig configures the timeout wrapper.
type TimeoutConfig struct {
	// Timeout is the maximum duration for the operation.
	// Default: 30 seconds
	Timeout time.Duration
}

// Timeout wraps operations with a timeout.
type Timeout struct {
	config TimeoutConfig
}

// NewTimeout creates a new timeout wrapper.
func NewTimeout(config TimeoutConfig) *Timeout {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	return &Timeout{config: config}
}

// Execute runs op with a deadline. op keeps running after ErrTimeout is
// returned until it observes its context.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return timeoutErr(ctx)
	}
}

// Await blocks until done is closed, the timeout elapses, or ctx ends. It is
// used to bound the wait on work that is already in flight.
func (t *Timeout) Await(ctx context.Context, done <-chan struct{}) error {
	select {
	case <-done:
		return nil
	default:
	}

	ctx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return timeoutErr(ctx)
	}
}

// Config returns the timeout configuration.
func (t *Timeout) Config() TimeoutConfig {
	return t.config
}

func timeoutErr(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}
	return ctx.Err()
}

// AwaitWithTimeout is a convenience wrapper around Timeout.Await.
func AwaitWithTimeout(ctx context.Context, timeout time.Duration, done <-chan struct{}) error {
	return NewTimeout(TimeoutConfig{Timeout: timeout}).Await(ctx, done)
}
