package verify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonwraymond/leadguard/cache"
	"github.com/jonwraymond/leadguard/fetch"
	"github.com/jonwraymond/leadguard/observe"
	"github.com/jonwraymond/leadguard/resilience"
	"github.com/jonwraymond/leadguard/work"
)

// DefaultTimeout bounds a vendor call when ServiceConfig.Timeout is unset.
const DefaultTimeout = 5 * time.Second

// ServiceConfig holds the settings every vendor shares.
type ServiceConfig struct {
	// Endpoint is the vendor URL.
	Endpoint string

	// Timeout bounds each call and each wait on an in-flight call.
	// Default: 5 seconds
	Timeout time.Duration

	// Cache is the policy of the service's cache. Zero fields take the
	// registry defaults.
	Cache cache.Policy

	// LogCacheStats logs cache size and key fingerprints on every resolve.
	LogCacheStats bool

	// FailOpen lets Unknown verdicts pass.
	FailOpen bool
}

// Deps are the collaborators shared by all services.
type Deps struct {
	// Registry provides the service's cache. Nil, or a registry that
	// refuses the name, leaves the service uncached.
	Registry *cache.Registry

	// Fetcher performs vendor calls. Nil defaults to a plain HTTPFetcher.
	Fetcher fetch.Fetcher

	Logger observe.Logger

	// Now is the clock used for credential expiry. Default: time.Now
	Now func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Fetcher == nil {
		d.Fetcher = fetch.NewHTTPFetcher(nil)
	}
	if d.Logger == nil {
		d.Logger = observe.NopLogger()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// parseFunc turns a response body into the cached value. A nil value with a
// nil error means the vendor answered without a usable result.
type parseFunc func(body []byte) (any, error)

// service is the cache-backed resolution path shared by every vendor.
type service struct {
	name      string
	operation string
	cacheName string
	kind      work.Kind
	cfg       ServiceConfig

	cache   *cache.Instance
	fetcher fetch.Fetcher
	logger  observe.Logger

	build func(input string) *fetch.Request
	parse parseFunc
}

func newService(s *service, deps Deps) *service {
	if s.cfg.Timeout <= 0 {
		s.cfg.Timeout = DefaultTimeout
	}
	// Every attempt, pooled or direct, is bounded by the service timeout.
	s.fetcher = fetch.Guarded(deps.Fetcher, resilience.NewExecutor(resilience.WithTimeout(s.cfg.Timeout)))
	s.logger = deps.Logger.WithCall(observe.CallMeta{Service: s.name, Operation: s.operation})

	if deps.Registry == nil {
		return s
	}
	inst := deps.Registry.RegisterWithPolicy(s.cacheName, s.cfg.Cache)
	if inst == nil {
		s.logger.Warn(context.Background(), "cache unavailable, calls go straight to the vendor",
			observe.Field{Key: "cache", Value: s.cacheName},
		)
		return s
	}
	if err := inst.Init(s.load); err != nil {
		s.logger.Warn(context.Background(), "cache init failed",
			observe.Field{Key: "cache", Value: s.cacheName},
			observe.Field{Key: "error", Value: err.Error()},
		)
	}
	s.cache = inst
	return s
}

// describe builds the descriptor and prepares a request unless the input
// is empty or already cached.
func (s *service) describe(input string) *work.Descriptor {
	d := work.New(s.kind, input)
	if input == "" {
		return d
	}
	if s.cache != nil && s.cache.ContainsKey(d) {
		return d
	}
	d.Request = s.build(input)
	return d
}

func (s *service) dispatch(ctx context.Context, pool *fetch.Pool, d *work.Descriptor) error {
	if d == nil || !d.NeedsDispatch() {
		return nil
	}
	return d.Dispatch(pool.Submit(ctx, s.fetcher, d.Request, s.cfg.Timeout))
}

// load is the cache loader. It awaits the descriptor's in-flight call when
// there is one and otherwise performs a single bounded call.
func (s *service) load(ctx context.Context, key cache.Key) (any, error) {
	d, ok := key.(*work.Descriptor)
	if !ok {
		return nil, fmt.Errorf("verify: %s: unexpected key type %T", s.name, key)
	}

	var body []byte
	var err error
	if call := d.TakeCall(); call != nil {
		body, err = call.Await(ctx, s.cfg.Timeout)
	} else {
		body, err = s.fetcher.Fetch(ctx, s.build(d.Input))
	}
	if err != nil {
		return nil, err
	}
	return s.parse(body)
}

// get reads d through the cache, or straight from the loader when the
// cache is missing or unusable. Absent results are reported as
// cache.ErrNoValue either way.
func (s *service) get(ctx context.Context, d *work.Descriptor) (any, error) {
	if s.cache != nil {
		v, err := s.cache.Get(ctx, d)
		if !errors.Is(err, cache.ErrNotInitialized) {
			return v, err
		}
	}
	v, err := s.load(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cache.ErrLoadFailed, err)
	}
	if v == nil {
		return nil, cache.ErrNoValue
	}
	return v, nil
}

// resolve returns the value for d, or false when none could be obtained.
func (s *service) resolve(ctx context.Context, d *work.Descriptor) (any, bool) {
	if s.cfg.LogCacheStats && s.cache != nil {
		s.cache.LogStats(ctx)
	}
	v, err := s.get(ctx, d)
	if err != nil {
		s.logger.Warn(ctx, "no result from vendor",
			observe.Field{Key: "key", Value: d.Fingerprint()},
			observe.Field{Key: "error", Value: err.Error()},
		)
		return nil, false
	}
	return v, true
}

func (s *service) invalidate(d *work.Descriptor) {
	if s.cache != nil {
		s.cache.Invalidate(d)
	}
}

// Cache returns the service's cache instance, or nil when uncached.
func (s *service) Cache() *cache.Instance { return s.cache }
