package fetch

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jonwraymond/leadguard/observe"
)

// Request is a prepared outbound call. Params travel in the query string for
// GET and as a form-encoded body otherwise, unless Body is set.
type Request struct {
	Service   string
	Operation string
	Method    string
	URL       string
	Params    url.Values
	Header    http.Header

	// Body, when non-nil, is sent as is in place of encoded Params.
	Body []byte

	// ExpectStatus, when set, is the only status treated as success.
	// Otherwise any 2xx is.
	ExpectStatus int
}

// NewGet prepares a GET request with params in the query string.
func NewGet(service, operation, endpoint string, params url.Values) *Request {
	return &Request{
		Service:   service,
		Operation: operation,
		Method:    http.MethodGet,
		URL:       endpoint,
		Params:    params,
		Header:    http.Header{"Accept": {"application/json"}},
	}
}

// NewPostForm prepares a form-encoded POST request.
func NewPostForm(service, operation, endpoint string, params url.Values) *Request {
	return &Request{
		Service:   service,
		Operation: operation,
		Method:    http.MethodPost,
		URL:       endpoint,
		Params:    params,
		Header: http.Header{
			"Accept":       {"application/json"},
			"Content-Type": {"application/x-www-form-urlencoded"},
		},
	}
}

// NewPostJSON prepares a POST request with a JSON body.
func NewPostJSON(service, operation, endpoint string, body []byte) *Request {
	return &Request{
		Service:   service,
		Operation: operation,
		Method:    http.MethodPost,
		URL:       endpoint,
		Body:      body,
		Header: http.Header{
			"Accept":       {"application/json"},
			"Content-Type": {"application/json"},
		},
	}
}

// Meta returns the telemetry description of the request.
func (r *Request) Meta() observe.CallMeta {
	return observe.CallMeta{
		Service:   r.Service,
		Operation: r.Operation,
		Endpoint:  r.Endpoint(),
	}
}

// Endpoint returns the URL without query string, safe to log.
func (r *Request) Endpoint() string {
	u, err := url.Parse(r.URL)
	if err != nil {
		return ""
	}
	u.RawQuery = ""
	u.User = nil
	return u.String()
}

// HTTPRequest builds the *http.Request bound to ctx.
func (r *Request) HTTPRequest(ctx context.Context) (*http.Request, error) {
	u, err := url.Parse(r.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch: invalid url for %s: %w", r.Service, err)
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	var req *http.Request
	switch {
	case r.Body != nil:
		req, err = http.NewRequestWithContext(ctx, method, u.String(), bytes.NewReader(r.Body))
	case method == http.MethodGet:
		if len(r.Params) > 0 {
			q := u.Query()
			for k, vs := range r.Params {
				for _, v := range vs {
					q.Add(k, v)
				}
			}
			u.RawQuery = q.Encode()
		}
		req, err = http.NewRequestWithContext(ctx, method, u.String(), nil)
	default:
		req, err = http.NewRequestWithContext(ctx, method, u.String(), strings.NewReader(r.Params.Encode()))
	}
	if err != nil {
		return nil, fmt.Errorf("fetch: build %s request: %w", r.Service, err)
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return req, nil
}
