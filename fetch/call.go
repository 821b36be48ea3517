package fetch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonwraymond/leadguard/resilience"
)

// Call is a dispatched Request. The result becomes available once Done is
// closed.
type Call struct {
	service string
	done    chan struct{}
	cancel  context.CancelFunc

	once sync.Once
	body []byte
	err  error
}

func newCall(service string, cancel context.CancelFunc) *Call {
	if cancel == nil {
		cancel = func() {}
	}
	return &Call{service: service, done: make(chan struct{}), cancel: cancel}
}

// failedCall returns a Call that has already completed with err.
func failedCall(service string, err error) *Call {
	c := newCall(service, nil)
	c.finish(nil, err)
	return c
}

func (c *Call) finish(body []byte, err error) {
	c.once.Do(func() {
		c.body = body
		c.err = err
		close(c.done)
	})
}

// Service returns the service the call targets.
func (c *Call) Service() string { return c.service }

// Done is closed when the call has completed.
func (c *Call) Done() <-chan struct{} { return c.done }

// Abort cancels the transport. It is safe to call at any time.
func (c *Call) Abort() { c.cancel() }

// Await waits up to timeout for the call. On timeout or cancellation of ctx
// the call is aborted and the returned error wraps ErrAborted.
func (c *Call) Await(ctx context.Context, timeout time.Duration) ([]byte, error) {
	if err := resilience.AwaitWithTimeout(ctx, timeout, c.done); err != nil {
		c.Abort()
		return nil, fmt.Errorf("%w: %s: %w", ErrAborted, c.service, err)
	}
	return c.body, c.err
}
