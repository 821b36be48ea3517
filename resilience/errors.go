package resilience

import "errors"

var (
	// ErrCircuitOpen rejects a call while the breaker is open or its
	// half-open trial calls are exhausted.
	ErrCircuitOpen = errors.New("resilience: circuit open")

	// ErrBulkheadFull rejects a call that found no free slot in time.
	ErrBulkheadFull = errors.New("resilience: no free slot")

	// ErrTimeout reports an attempt that outlived its deadline.
	ErrTimeout = errors.New("resilience: deadline exceeded")
)
