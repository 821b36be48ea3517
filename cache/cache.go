package cache

import (
	"errors"
	"strings"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// MaxIdentityLength bounds identity keys after abbreviation.
const MaxIdentityLength = 60

// Sentinel errors for cache operations.
var (
	ErrInvalidKey      = errors.New("cache: key is invalid")
	ErrKeyTooLong      = errors.New("cache: key exceeds max length")
	ErrNotInitialized  = errors.New("cache: instance is not initialized")
	ErrNoValue         = errors.New("cache: loader produced no value")
	ErrLoadFailed      = errors.New("cache: load failed")
	ErrNilLoader       = errors.New("cache: loader is nil")
	ErrInvalidPolicy   = errors.New("cache: invalid policy")
	ErrNotAllowed      = errors.New("cache: name is not on the allow-list")
	ErrUnknownInstance = errors.New("cache: no instance registered under name")
)

// Key identifies a cache entry. The entry is stored under CacheKey(), while
// the Key value itself is handed to the loader on misses and reloads.
//
// Contract:
// - Two keys with the same CacheKey() address the same entry.
// - CacheKey() must be stable for the lifetime of the key.
type Key interface {
	CacheKey() string
}

// StringKey is a Key backed by a plain string.
type StringKey string

// CacheKey implements Key.
func (k StringKey) CacheKey() string { return string(k) }

// ValidateKey checks if a key is valid for caching.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}

// Abbreviate shortens s to at most max characters. Longer strings keep their
// first max-3 characters followed by "...". Inputs shorter than max, and
// max values below 4, are returned unchanged.
func Abbreviate(s string, max int) string {
	if max < 4 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
