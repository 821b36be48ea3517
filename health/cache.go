package health

import (
	"context"
	"strings"

	"github.com/jonwraymond/leadguard/cache"
)

// CacheChecker reports the state of the service caches.
type CacheChecker struct {
	registry *cache.Registry
	expected []string
}

// NewCacheChecker checks that every expected cache is registered and
// initialized.
func NewCacheChecker(registry *cache.Registry, expected ...string) *CacheChecker {
	return &CacheChecker{registry: registry, expected: expected}
}

func (c *CacheChecker) Name() string { return "cache" }

// Check degrades when an expected cache is missing or uninitialized.
// Disabled caches are reported but do not degrade.
func (c *CacheChecker) Check(context.Context) Result {
	if c.registry == nil {
		return Degraded("no cache registry")
	}

	details := make(map[string]any, len(c.expected))
	var missing []string
	for _, name := range c.expected {
		stats, ok := c.registry.Describe(name)
		if !ok || !stats.Initialized {
			missing = append(missing, name)
			details[name] = "unavailable"
			continue
		}
		details[name] = map[string]any{
			"enabled": stats.Enabled,
			"entries": stats.Entries,
			"hits":    stats.Hits,
			"misses":  stats.Misses,
		}
	}

	if len(missing) > 0 {
		return Degraded("caches unavailable: " + strings.Join(missing, ", ")).WithDetails(details)
	}
	return Healthy("all caches initialized").WithDetails(details)
}
