package fetch

import (
	"context"
	"time"

	"github.com/jonwraymond/leadguard/resilience"
)

// Pool dispatches Requests concurrently. It is created per validation
// request and sized to the number of calls that request makes.
type Pool struct {
	bulkhead *resilience.Bulkhead
}

// NewPool creates a pool with size slots. maxWait bounds how long Submit
// waits for a free slot.
func NewPool(size int, maxWait time.Duration) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{
		bulkhead: resilience.NewBulkhead(resilience.BulkheadConfig{
			MaxConcurrent: size,
			MaxWait:       maxWait,
		}),
	}
}

// Submit starts req on f and returns its Call. The call runs on a context
// that keeps ctx's values but not its cancellation, bounded by timeout, so
// an abandoned call still finishes on its own.
func (p *Pool) Submit(ctx context.Context, f Fetcher, req *Request, timeout time.Duration) *Call {
	if req == nil {
		return failedCall("", ErrNilRequest)
	}
	if timeout <= 0 {
		timeout = resilience.DefaultTimeout
	}

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	call := newCall(req.Service, cancel)

	err := p.bulkhead.Go(ctx, func() {
		defer cancel()
		body, err := f.Fetch(callCtx, req)
		call.finish(body, err)
	})
	if err != nil {
		cancel()
		call.finish(nil, err)
	}
	return call
}

// Wait blocks until every submitted call has returned.
func (p *Pool) Wait() {
	p.bulkhead.Wait()
}

// Metrics returns the pool's slot usage.
func (p *Pool) Metrics() resilience.BulkheadMetrics {
	return p.bulkhead.Metrics()
}
