package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/leadguard/observe"
)

// Instance is one named cache.
//
// Contract:
//   - Concurrency: all methods are safe for concurrent use.
//   - Until Init succeeds, Get returns ErrNotInitialized and nothing is stored.
//   - While disabled, Get calls the loader directly and never stores.
//   - Failed or absent loads are never stored.
type Instance struct {
	name    string
	policy  Policy
	logger  observe.Logger
	metrics Metrics
	now     func() time.Time

	mu          sync.Mutex
	store       *memoryStore
	loader      Loader
	lane        *refreshLane
	initialized bool

	enabled atomic.Bool
	group   singleflight.Group

	hits       atomic.Int64
	misses     atomic.Int64
	refreshes  atomic.Int64
	evictions  atomic.Int64
	loadErrors atomic.Int64
}

// Option configures an Instance or a Registry.
type Option func(*options)

type options struct {
	logger  observe.Logger
	metrics Metrics
	now     func() time.Time
}

// WithLogger sets the logger used for load failures and stats output.
func WithLogger(l observe.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger:  observe.NopLogger(),
		metrics: NoopMetrics{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewInstance creates an enabled, uninitialized cache.
func NewInstance(name string, policy Policy, opts ...Option) *Instance {
	o := buildOptions(opts)
	c := &Instance{
		name:    name,
		policy:  policy,
		logger:  o.logger,
		metrics: o.metrics,
		now:     o.now,
	}
	c.enabled.Store(true)
	return c
}

// Name returns the cache name.
func (c *Instance) Name() string { return c.name }

// Policy returns the policy the instance was created with.
func (c *Instance) Policy() Policy { return c.policy }

// Init binds loader, allocates the store and starts the reload worker.
// On failure the instance stays uninitialized and every read misses.
func (c *Instance) Init(loader Loader) error {
	ctx := context.Background()
	if loader == nil {
		c.logger.Error(ctx, "cache init failed", observe.Field{Key: "cache", Value: c.name}, observe.Field{Key: "error", Value: ErrNilLoader.Error()})
		return ErrNilLoader
	}
	if err := c.policy.Validate(); err != nil {
		c.logger.Error(ctx, "cache init failed", observe.Field{Key: "cache", Value: c.name}, observe.Field{Key: "error", Value: err.Error()})
		return err
	}

	c.mu.Lock()
	old := c.lane
	c.loader = loader
	c.store = newMemoryStore(c.policy.MaxSize)
	c.lane = newRefreshLane(c.policy.queueSize(), c.reload)
	c.initialized = true
	c.mu.Unlock()

	if old != nil {
		old.close()
	}
	return nil
}

// Initialized reports whether Init has succeeded.
func (c *Instance) Initialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}

// Enabled reports whether reads go through the store.
func (c *Instance) Enabled() bool { return c.enabled.Load() }

// SetEnabled toggles the store. Disabling drops every resident entry.
func (c *Instance) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled.Store(enabled)
	if !enabled && c.store != nil {
		c.store.clear()
	}
}

// Get returns the value for key.
//
// A fresh entry is returned as is. A stale entry is returned immediately and
// one background reload is queued for it. Otherwise the loader runs once for
// all concurrent misses on the key, on a context detached from their
// cancellation. A caller whose ctx ends stops waiting with ErrLoadFailed;
// the load continues for the others.
func (c *Instance) Get(ctx context.Context, key Key) (any, error) {
	c.mu.Lock()
	if !c.initialized {
		c.mu.Unlock()
		return nil, ErrNotInitialized
	}
	loader := c.loader
	if !c.enabled.Load() {
		c.mu.Unlock()
		return c.load(ctx, loader, key)
	}

	k := key.CacheKey()
	if e, ok := c.store.get(k); ok {
		switch c.policy.classify(e.writtenAt, c.now()) {
		case ageFresh:
			v := e.value
			c.mu.Unlock()
			c.hit()
			return v, nil
		case ageStale:
			v := e.value
			schedule := !e.refreshing
			e.refreshing = true
			lane := c.lane
			c.mu.Unlock()
			c.hit()
			if schedule {
				c.scheduleRefresh(ctx, lane, key)
			}
			return v, nil
		default:
			c.store.remove(k)
		}
	}
	c.mu.Unlock()

	c.misses.Add(1)
	c.metrics.Miss(c.name)

	// The shared load outlives any one caller; each caller stops waiting
	// when its own context ends.
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(k, func() (any, error) {
		v, err := c.load(loadCtx, loader, key)
		if err != nil {
			return nil, err
		}
		c.put(key, v)
		return v, nil
	})
	select {
	case r := <-ch:
		return r.Val, r.Err
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, ctx.Err())
	}
}

// ContainsKey reports whether key is resident and servable. It never loads.
func (c *Instance) ContainsKey(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized || !c.enabled.Load() {
		return false
	}
	e, ok := c.store.peek(key.CacheKey())
	if !ok {
		return false
	}
	return c.policy.classify(e.writtenAt, c.now()) != ageExpired
}

// Invalidate removes key.
func (c *Instance) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized || !c.enabled.Load() {
		return
	}
	c.store.remove(key.CacheKey())
}

// InvalidateAll removes every entry.
func (c *Instance) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized || !c.enabled.Load() {
		return
	}
	c.store.clear()
}

// Close stops the reload worker. The instance reverts to uninitialized.
func (c *Instance) Close() {
	c.mu.Lock()
	lane := c.lane
	c.lane = nil
	c.initialized = false
	if c.store != nil {
		c.store.clear()
	}
	c.mu.Unlock()
	if lane != nil {
		lane.close()
	}
}

func (c *Instance) hit() {
	c.hits.Add(1)
	c.metrics.Hit(c.name)
}

func (c *Instance) put(key Key, v any) {
	c.mu.Lock()
	if !c.initialized || !c.enabled.Load() {
		c.mu.Unlock()
		return
	}
	evicted := c.store.put(key.CacheKey(), key, v, c.now())
	c.mu.Unlock()
	if evicted > 0 {
		c.evictions.Add(int64(evicted))
		c.metrics.Eviction(c.name, evicted)
	}
}

func (c *Instance) scheduleRefresh(ctx context.Context, lane *refreshLane, key Key) {
	job := refreshJob{ctx: context.WithoutCancel(ctx), key: key}
	if lane != nil && lane.offer(job) {
		c.refreshes.Add(1)
		c.metrics.Refresh(c.name)
		return
	}
	c.mu.Lock()
	if e, ok := c.store.peek(key.CacheKey()); ok {
		e.refreshing = false
	}
	c.mu.Unlock()
}

// reload runs on the refresh lane. A successful load replaces the entry if
// it is still resident; a failed one leaves the stale value in place.
func (c *Instance) reload(job refreshJob) {
	c.mu.Lock()
	loader := c.loader
	c.mu.Unlock()

	v, err := c.load(job.ctx, loader, job.key)

	k := job.key.CacheKey()
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized || c.store == nil {
		return
	}
	e, ok := c.store.peek(k)
	if !ok {
		return
	}
	if err != nil {
		e.refreshing = false
		c.logger.Debug(job.ctx, "cache reload kept stale value",
			observe.Field{Key: "cache", Value: c.name},
			observe.Field{Key: "key", Value: Fingerprint(k)},
			observe.Field{Key: "error", Value: err.Error()},
		)
		return
	}
	if !c.enabled.Load() {
		return
	}
	c.store.put(k, job.key, v, c.now())
}

// Stats is a point-in-time description of an Instance.
type Stats struct {
	Name        string        `json:"name"`
	Initialized bool          `json:"initialized"`
	Enabled     bool          `json:"enabled"`
	Entries     int           `json:"entries"`
	ApproxBytes int64         `json:"approxBytes"`
	TTL         time.Duration `json:"ttl"`
	MaxStale    time.Duration `json:"maxStale"`
	MaxSize     int           `json:"maxSize"`
	Hits        int64         `json:"hits"`
	Misses      int64         `json:"misses"`
	Refreshes   int64         `json:"refreshes"`
	Evictions   int64         `json:"evictions"`
	LoadErrors  int64         `json:"loadErrors"`
}

// Describe reports entry count, approximate size and counters. It only
// scans memory and never panics.
func (c *Instance) Describe() (s Stats) {
	s = Stats{
		Name:       c.name,
		Enabled:    c.enabled.Load(),
		TTL:        c.policy.TTL,
		MaxStale:   c.policy.StaleWindow(),
		MaxSize:    c.policy.MaxSize,
		Hits:       c.hits.Load(),
		Misses:     c.misses.Load(),
		Refreshes:  c.refreshes.Load(),
		Evictions:  c.evictions.Load(),
		LoadErrors: c.loadErrors.Load(),
	}
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn(context.Background(), "cache describe failed",
				observe.Field{Key: "cache", Value: c.name},
				observe.Field{Key: "panic", Value: fmt.Sprint(r)},
			)
		}
	}()

	c.mu.Lock()
	defer c.mu.Unlock()
	s.Initialized = c.initialized
	if c.store != nil {
		s.Entries = c.store.len()
		s.ApproxBytes = c.store.approxBytes()
	}
	return s
}

// Fingerprints returns digests of the resident keys, most recent first.
func (c *Instance) Fingerprints() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		return nil
	}
	keys := c.store.keys()
	for i, k := range keys {
		keys[i] = Fingerprint(k)
	}
	return keys
}

// LogStats writes the current Stats and key fingerprints to the logger.
func (c *Instance) LogStats(ctx context.Context) {
	s := c.Describe()
	c.logger.Info(ctx, "cache stats",
		observe.Field{Key: "cache", Value: s.Name},
		observe.Field{Key: "entries", Value: s.Entries},
		observe.Field{Key: "size_kb", Value: float64(s.ApproxBytes) / 1024},
		observe.Field{Key: "size_mb", Value: float64(s.ApproxBytes) / (1024 * 1024)},
		observe.Field{Key: "keys", Value: c.Fingerprints()},
	)
}
