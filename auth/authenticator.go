package auth

import (
	"context"
	"net/http"
)

// Authenticator admits or rejects an inbound request.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Errors: a rejected credential is reported in AuthResult with a nil
//     error. A non-nil error means the authenticator itself failed.
type Authenticator interface {
	// Name identifies the authenticator in logs.
	Name() string

	// Supports reports whether req carries a credential this authenticator
	// understands.
	Supports(ctx context.Context, req *AuthRequest) bool

	Authenticate(ctx context.Context, req *AuthRequest) (*AuthResult, error)
}

// AuthRequest is the part of an HTTP request an Authenticator sees.
type AuthRequest struct {
	Headers http.Header

	// Resource is the request path, for logging.
	Resource string
}

// GetHeader returns the first value of key. Headers set on a raw map with a
// non-canonical key are matched too.
func (r *AuthRequest) GetHeader(key string) string {
	if r.Headers == nil {
		return ""
	}
	if v := r.Headers.Get(key); v != "" {
		return v
	}
	if values := r.Headers[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// AuthResult is the outcome of one Authenticate call.
type AuthResult struct {
	Authenticated bool

	// Identity is set when Authenticated.
	Identity *Identity

	// Error is the sentinel explaining a rejection.
	Error error

	Method string
}

// AuthSuccess admits identity.
func AuthSuccess(identity *Identity) *AuthResult {
	return &AuthResult{Authenticated: true, Identity: identity, Method: string(identity.Method)}
}

// AuthFailure rejects with err.
func AuthFailure(err error, method string) *AuthResult {
	return &AuthResult{Error: err, Method: method}
}
