package cache

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/jonwraymond/leadguard/observe"
)

// RegistryConfig configures a Registry.
type RegistryConfig struct {
	// Defaults is the policy used by Register.
	Defaults Policy

	// Allowed lists the cache names the registry will create.
	Allowed []string
}

// Registry maps names to Instances, restricted to an allow-list.
//
// Contract:
//   - Concurrency: safe for concurrent use. The table lock is never held
//     while an Instance operation runs.
//   - Register returns nil for names outside the allow-list.
type Registry struct {
	mu        sync.RWMutex
	allowed   map[string]struct{}
	instances map[string]*Instance
	defaults  Policy
	opts      []Option
	logger    observe.Logger
}

// NewRegistry creates a registry. opts are applied to every Instance it
// creates.
func NewRegistry(cfg RegistryConfig, opts ...Option) *Registry {
	defaults := cfg.Defaults
	if defaults.TTL <= 0 {
		defaults.TTL = DefaultTTL
	}
	if defaults.MaxSize <= 0 {
		defaults.MaxSize = DefaultMaxSize
	}
	allowed := make(map[string]struct{}, len(cfg.Allowed))
	for _, name := range cfg.Allowed {
		if n := strings.TrimSpace(name); n != "" {
			allowed[n] = struct{}{}
		}
	}
	return &Registry{
		allowed:   allowed,
		instances: make(map[string]*Instance),
		defaults:  defaults,
		opts:      opts,
		logger:    buildOptions(opts).logger,
	}
}

// Defaults returns the policy used by Register.
func (r *Registry) Defaults() Policy { return r.defaults }

// Allowed reports whether name may be registered.
func (r *Registry) Allowed(name string) bool {
	_, ok := r.allowed[strings.TrimSpace(name)]
	return ok
}

// Register creates an enabled Instance under name with the default policy.
func (r *Registry) Register(name string) *Instance {
	return r.RegisterWithPolicy(name, r.defaults)
}

// RegisterWithPolicy creates an enabled Instance under name. An existing
// instance under the same name is replaced and closed.
func (r *Registry) RegisterWithPolicy(name string, policy Policy) *Instance {
	name = strings.TrimSpace(name)
	if !r.Allowed(name) {
		r.logger.Warn(context.Background(), "cache registration refused",
			observe.Field{Key: "cache", Value: name},
			observe.Field{Key: "error", Value: ErrNotAllowed.Error()},
		)
		return nil
	}
	if policy.TTL <= 0 {
		policy.TTL = r.defaults.TTL
	}
	if policy.MaxSize <= 0 {
		policy.MaxSize = r.defaults.MaxSize
	}
	if policy.MaxStale <= 0 {
		policy.MaxStale = r.defaults.MaxStale
	}

	inst := NewInstance(name, policy, r.opts...)

	r.mu.Lock()
	old := r.instances[name]
	r.instances[name] = inst
	r.mu.Unlock()

	if old != nil {
		old.Close()
	}
	return inst
}

// Unregister removes and closes the instance under name.
func (r *Registry) Unregister(name string) {
	name = strings.TrimSpace(name)
	r.mu.Lock()
	inst := r.instances[name]
	delete(r.instances, name)
	r.mu.Unlock()
	if inst != nil {
		inst.Close()
	}
}

// Get returns the instance under name, or nil.
func (r *Registry) Get(name string) *Instance {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.instances[strings.TrimSpace(name)]
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.instances))
	for name := range r.instances {
		names = append(names, name)
	}
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

// Invalidate removes key from the named cache.
func (r *Registry) Invalidate(name string, key Key) error {
	inst := r.Get(name)
	if inst == nil {
		return ErrUnknownInstance
	}
	inst.Invalidate(key)
	return nil
}

// InvalidateAll clears the named cache.
func (r *Registry) InvalidateAll(name string) error {
	inst := r.Get(name)
	if inst == nil {
		return ErrUnknownInstance
	}
	inst.InvalidateAll()
	return nil
}

// Describe returns the stats of the named cache.
func (r *Registry) Describe(name string) (Stats, bool) {
	inst := r.Get(name)
	if inst == nil {
		return Stats{}, false
	}
	return inst.Describe(), true
}

// Close closes and removes every instance.
func (r *Registry) Close() {
	r.mu.Lock()
	instances := r.instances
	r.instances = make(map[string]*Instance)
	r.mu.Unlock()
	for _, inst := range instances {
		inst.Close()
	}
}
