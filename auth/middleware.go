package auth

import (
	"errors"
	"net/http"
)

// FailureFunc writes the response for a rejected request. err is one of the
// package sentinel errors, or an internal error from the authenticator.
type FailureFunc func(w http.ResponseWriter, r *http.Request, err error)

// Require returns HTTP middleware that admits only requests a authenticates.
// The identity is attached to the request context. A nil onFail writes a
// plain status: 401 for credential failures, 500 otherwise.
//
// Usage:
//
//	r.With(auth.Require(apiKeys, nil)).Get("/admin/caches", list)
func Require(a Authenticator, onFail FailureFunc) func(http.Handler) http.Handler {
	if onFail == nil {
		onFail = defaultFailure
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := &AuthRequest{Headers: r.Header, Resource: r.URL.Path}
			if !a.Supports(r.Context(), req) {
				onFail(w, r, ErrMissingCredentials)
				return
			}
			res, err := a.Authenticate(r.Context(), req)
			if err != nil {
				onFail(w, r, err)
				return
			}
			if !res.Authenticated {
				onFail(w, r, res.Error)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), res.Identity)))
		})
	}
}

// StatusFor maps an authentication error to an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrMissingCredentials),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrTokenMalformed):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func defaultFailure(w http.ResponseWriter, _ *http.Request, err error) {
	status := StatusFor(err)
	http.Error(w, http.StatusText(status), status)
}
