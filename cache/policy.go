package cache

import (
	"fmt"
	"time"
)

// Default policy values applied by Registry.Register.
const (
	DefaultTTL     = 60 * time.Minute
	DefaultMaxSize = 10000
)

// Policy configures an Instance.
type Policy struct {
	// TTL is measured from the last write. Older entries are stale.
	TTL time.Duration

	// MaxStale is how long past TTL a stale entry may still be served while
	// it reloads in the background. Entries older than TTL+MaxStale are
	// treated as absent. Zero means MaxStale equals TTL.
	MaxStale time.Duration

	// MaxSize bounds the number of resident entries. Least recently used
	// entries are evicted first.
	MaxSize int

	// RefreshQueue bounds pending background reloads. Zero selects a
	// default derived from MaxSize.
	RefreshQueue int
}

// DefaultPolicy returns the registry default: 60 minute TTL, 10000 entries.
func DefaultPolicy() Policy {
	return Policy{
		TTL:     DefaultTTL,
		MaxSize: DefaultMaxSize,
	}
}

// Validate reports whether the policy can back an Instance.
func (p Policy) Validate() error {
	if p.TTL <= 0 {
		return fmt.Errorf("%w: ttl must be positive, got %s", ErrInvalidPolicy, p.TTL)
	}
	if p.MaxSize <= 0 {
		return fmt.Errorf("%w: max size must be positive, got %d", ErrInvalidPolicy, p.MaxSize)
	}
	if p.MaxStale < 0 {
		return fmt.Errorf("%w: max stale must not be negative", ErrInvalidPolicy)
	}
	return nil
}

// StaleWindow returns the effective MaxStale.
func (p Policy) StaleWindow() time.Duration {
	if p.MaxStale <= 0 {
		return p.TTL
	}
	return p.MaxStale
}

func (p Policy) queueSize() int {
	if p.RefreshQueue > 0 {
		return p.RefreshQueue
	}
	n := p.MaxSize / 100
	if n < 16 {
		n = 16
	}
	if n > 1024 {
		n = 1024
	}
	return n
}

// age classifies an entry written at written relative to now.
type age int

const (
	ageFresh age = iota
	ageStale
	ageExpired
)

func (p Policy) classify(written, now time.Time) age {
	d := now.Sub(written)
	switch {
	case d < p.TTL:
		return ageFresh
	case d < p.TTL+p.StaleWindow():
		return ageStale
	default:
		return ageExpired
	}
}
