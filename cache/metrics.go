package cache

// Metrics receives cache lifecycle events. Implementations must be safe for
// concurrent use and must not block.
type Metrics interface {
	// Hit is called when a resident entry answers a read, fresh or stale.
	Hit(cache string)

	// Miss is called when a read falls through to the loader.
	Miss(cache string)

	// Refresh is called when a background reload is queued.
	Refresh(cache string)

	// Eviction is called when entries leave because the store is full.
	Eviction(cache string, n int)

	// LoadError is called when the loader fails or panics.
	LoadError(cache string)
}

// NoopMetrics discards all events.
type NoopMetrics struct{}

func (NoopMetrics) Hit(string)           {}
func (NoopMetrics) Miss(string)          {}
func (NoopMetrics) Refresh(string)       {}
func (NoopMetrics) Eviction(string, int) {}
func (NoopMetrics) LoadError(string)     {}

var _ Metrics = NoopMetrics{}
