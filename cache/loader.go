package cache

import (
	"context"
	"fmt"

	"github.com/jonwraymond/leadguard/observe"
)

// Loader produces the value for a key on a miss or a background reload.
//
// Contract:
//   - Returning (nil, nil) means the key has no value; nothing is stored.
//   - Returning an error means the load failed; nothing is stored.
//   - The context may outlive the request that triggered the load.
type Loader func(ctx context.Context, key Key) (any, error)

// load runs loader for key and normalizes its outcome. Panics are contained
// and reported as ErrLoadFailed.
func (c *Instance) load(ctx context.Context, loader Loader, key Key) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.loadErrors.Add(1)
			c.metrics.LoadError(c.name)
			c.logger.Error(ctx, "cache loader panicked",
				observe.Field{Key: "cache", Value: c.name},
				observe.Field{Key: "key", Value: Fingerprint(key.CacheKey())},
				observe.Field{Key: "panic", Value: fmt.Sprint(r)},
			)
			value = nil
			err = fmt.Errorf("%w: panic: %v", ErrLoadFailed, r)
		}
	}()

	value, err = loader(ctx, key)
	if err != nil {
		c.loadErrors.Add(1)
		c.metrics.LoadError(c.name)
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	if value == nil {
		return nil, ErrNoValue
	}
	return value, nil
}
