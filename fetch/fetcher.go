package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonwraymond/leadguard/observe"
	"github.com/jonwraymond/leadguard/resilience"
)

// DefaultMaxBody caps response bodies read by HTTPFetcher.
const DefaultMaxBody = 1 << 20

// Fetcher executes a prepared Request and returns the response body.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Context: cancelling ctx aborts the call.
//   - Errors: non-2xx responses, or any status other than
//     Request.ExpectStatus when it is set, are *StatusError.
type Fetcher interface {
	Fetch(ctx context.Context, req *Request) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, req *Request) ([]byte, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, req *Request) ([]byte, error) {
	return f(ctx, req)
}

// HTTPFetcher performs Requests over HTTP.
type HTTPFetcher struct {
	client  *http.Client
	maxBody int64
}

// NewHTTPFetcher creates a fetcher. A nil client gets a 30 second timeout.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPFetcher{client: client, maxBody: DefaultMaxBody}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, req *Request) ([]byte, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	httpReq, err := req.HTTPRequest(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch: %s request failed: %w", req.Service, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return nil, fmt.Errorf("fetch: read %s response: %w", req.Service, err)
	}

	if !req.accepts(resp.StatusCode) {
		return nil, &StatusError{Service: req.Service, Code: resp.StatusCode, Body: body}
	}
	return body, nil
}

func (r *Request) accepts(code int) bool {
	if r.ExpectStatus != 0 {
		return code == r.ExpectStatus
	}
	return code >= 200 && code <= 299
}

// Instrumented wraps f with tracing, metrics and logging.
func Instrumented(f Fetcher, mw *observe.Middleware) Fetcher {
	if mw == nil {
		return f
	}
	return FetcherFunc(func(ctx context.Context, req *Request) ([]byte, error) {
		if req == nil {
			return nil, ErrNilRequest
		}
		call := mw.Wrap(func(ctx context.Context, _ observe.CallMeta) ([]byte, error) {
			return f.Fetch(ctx, req)
		})
		return call(ctx, req.Meta())
	})
}

// Guarded runs every fetch through exec.
func Guarded(f Fetcher, exec *resilience.Executor) Fetcher {
	if exec == nil {
		return f
	}
	return FetcherFunc(func(ctx context.Context, req *Request) ([]byte, error) {
		var body []byte
		err := exec.Execute(ctx, func(ctx context.Context) error {
			var ferr error
			body, ferr = f.Fetch(ctx, req)
			return ferr
		})
		if err != nil {
			return nil, err
		}
		return body, nil
	})
}

var (
	_ Fetcher = (*HTTPFetcher)(nil)
	_ Fetcher = FetcherFunc(nil)
)
