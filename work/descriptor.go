package work

import (
	"sync"

	"github.com/jonwraymond/leadguard/cache"
	"github.com/jonwraymond/leadguard/fetch"
)

// Descriptor is one unit of work in a validation request. It is the cache
// key for its service: entries are stored under ID, and the loader reads
// Input and the in-flight call from the Descriptor itself.
//
// Contract:
//   - Concurrency: state and call access are safe for concurrent use.
//   - Equality: two descriptors are equal iff their IDs are equal.
type Descriptor struct {
	// ID is Input abbreviated to cache.MaxIdentityLength.
	ID string

	// Input is the full value the check runs against.
	Input string

	Kind Kind

	// Request is prepared only when the key was not already resident.
	Request *fetch.Request

	mu    sync.Mutex
	state State
	call  *fetch.Call
}

// New creates a Pending descriptor for input.
func New(kind Kind, input string) *Descriptor {
	return &Descriptor{
		ID:    cache.Abbreviate(input, cache.MaxIdentityLength),
		Input: input,
		Kind:  kind,
	}
}

// CacheKey implements cache.Key.
func (d *Descriptor) CacheKey() string { return d.ID }

// Equal reports whether d and other share an identity key.
func (d *Descriptor) Equal(other *Descriptor) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.ID == other.ID
}

// Fingerprint returns a log-safe digest of the identity key.
func (d *Descriptor) Fingerprint() string {
	return cache.Fingerprint(d.ID)
}

// State returns the current state.
func (d *Descriptor) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Transition moves d to the given state.
func (d *Descriptor) Transition(to State) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !CanTransition(d.state, to) {
		return illegal(d.state, to)
	}
	d.state = to
	return nil
}

// Dispatch records the in-flight call and moves d to Dispatched.
func (d *Descriptor) Dispatch(call *fetch.Call) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !CanTransition(d.state, Dispatched) {
		return illegal(d.state, Dispatched)
	}
	d.state = Dispatched
	d.call = call
	return nil
}

// NeedsDispatch reports whether d has a prepared request that has not been
// sent yet.
func (d *Descriptor) NeedsDispatch() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Request != nil && d.state == Pending
}

// TakeCall returns the in-flight call and detaches it, so every call is
// awaited at most once. Later loads for the same key issue a fresh request.
func (d *Descriptor) TakeCall() *fetch.Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	c := d.call
	d.call = nil
	return c
}

// Skip moves d to Skipped when it has not finished. A dispatched call is
// left to complete on its own and its result is discarded.
func (d *Descriptor) Skip() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !CanTransition(d.state, Skipped) {
		return false
	}
	d.state = Skipped
	d.call = nil
	return true
}

var _ cache.Key = (*Descriptor)(nil)
