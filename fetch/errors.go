package fetch

import (
	"errors"
	"fmt"
)

// Sentinel errors for fetch operations.
var (
	// ErrAborted is returned when an in-flight call is abandoned by its
	// caller, on timeout or cancellation.
	ErrAborted = errors.New("fetch: call aborted")

	// ErrUnexpectedStatus is wrapped by StatusError.
	ErrUnexpectedStatus = errors.New("fetch: unexpected status")

	// ErrNilRequest is returned when a nil Request is fetched.
	ErrNilRequest = errors.New("fetch: request is nil")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	Service string
	Code    int
	Body    []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch: %s returned status %d", e.Service, e.Code)
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }
