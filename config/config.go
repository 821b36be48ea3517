package config

import (
	"time"

	"github.com/jonwraymond/leadguard/cache"
	"github.com/jonwraymond/leadguard/verify"
)

// Config is the full leadguard configuration.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Cache      CacheConfig      `toml:"cache"`
	Recaptcha  RecaptchaConfig  `toml:"recaptcha"`
	ZeroBounce ZeroBounceConfig `toml:"zerobounce"`
	LeadAPI    LeadAPIConfig    `toml:"leadapi"`
	Admin      AdminConfig      `toml:"admin"`
	Observe    ObserveConfig    `toml:"observe"`
	Secrets    SecretsConfig    `toml:"secrets"`
}

// ServerConfig configures the inbound HTTP server.
type ServerConfig struct {
	Addr            string   `toml:"addr" validate:"required,listen_addr"`
	ReadTimeout     Duration `toml:"read_timeout" validate:"gt=0"`
	WriteTimeout    Duration `toml:"write_timeout" validate:"gt=0"`
	ShutdownTimeout Duration `toml:"shutdown_timeout" validate:"gt=0"`

	// PoolWait bounds how long a vendor call waits for a pool slot.
	PoolWait Duration `toml:"pool_wait" validate:"gte=0"`
}

// CacheConfig holds the registry defaults and allow-list.
type CacheConfig struct {
	TTL      Duration `toml:"ttl" validate:"gt=0"`
	MaxStale Duration `toml:"max_stale" validate:"gte=0"`
	MaxSize  int      `toml:"max_size" validate:"gt=0"`
	Allowed  []string `toml:"allowed" validate:"dive,oneof=recaptcha_response zerobounce_response token_response"`
}

// VendorConfig holds the settings shared by every outbound service.
type VendorConfig struct {
	Endpoint      string   `toml:"endpoint" validate:"omitempty,url"`
	Timeout       Duration `toml:"timeout" validate:"gt=0"`
	CacheTTL      Duration `toml:"cache_ttl" validate:"gte=0"`
	CacheMaxStale Duration `toml:"cache_max_stale" validate:"gte=0"`
	CacheMaxSize  int      `toml:"cache_max_size" validate:"gte=0"`
	LogCacheStats bool     `toml:"log_cache_stats"`

	// FailOpen lets requests through when the vendor gives no answer.
	FailOpen bool `toml:"fail_open"`

	// BreakerMaxFailures opens the vendor circuit after this many
	// consecutive failures. Zero disables the breaker.
	BreakerMaxFailures int      `toml:"breaker_max_failures" validate:"gte=0"`
	BreakerReset       Duration `toml:"breaker_reset" validate:"gte=0"`
}

// Service converts v to the verify settings.
func (v VendorConfig) Service() verify.ServiceConfig {
	return verify.ServiceConfig{
		Endpoint: v.Endpoint,
		Timeout:  v.Timeout.Std(),
		Cache: cache.Policy{
			TTL:      v.CacheTTL.Std(),
			MaxStale: v.CacheMaxStale.Std(),
			MaxSize:  v.CacheMaxSize,
		},
		LogCacheStats: v.LogCacheStats,
		FailOpen:      v.FailOpen,
	}
}

// Breaker converts v to the circuit breaker settings.
func (v VendorConfig) Breaker() verify.BreakerConfig {
	return verify.BreakerConfig{
		MaxFailures:  v.BreakerMaxFailures,
		ResetTimeout: v.BreakerReset.Std(),
	}
}

// RecaptchaConfig configures the bot check.
type RecaptchaConfig struct {
	VendorConfig
	SiteKey string `toml:"site_key" validate:"required"`
	Secret  string `toml:"secret" validate:"required"`
}

// ZeroBounceConfig configures the email check.
type ZeroBounceConfig struct {
	VendorConfig
	APIKey string `toml:"api_key" validate:"required"`
}

// LeadAPIConfig configures credential fetch and lead submission. The
// embedded VendorConfig applies to the token endpoint.
type LeadAPIConfig struct {
	VendorConfig
	SubmitEndpoint string   `toml:"submit_endpoint" validate:"required,url"`
	SubmitTimeout  Duration `toml:"submit_timeout" validate:"gt=0"`

	Username     string `toml:"username" validate:"required"`
	Password     string `toml:"password" validate:"required"`
	ClientID     string `toml:"client_id" validate:"required"`
	ClientSecret string `toml:"client_secret" validate:"required"`

	Company      string `toml:"company"`
	LeadSource   string `toml:"lead_source"`
	RecordTypeID string `toml:"record_type_id"`
}

// AdminConfig protects the cache admin routes. No keys disables them.
type AdminConfig struct {
	APIKeys []string `toml:"api_keys" validate:"dive,min=16"`
}

// ObserveConfig configures logging, tracing and metrics.
type ObserveConfig struct {
	ServiceName     string  `toml:"service_name" validate:"required"`
	LogLevel        string  `toml:"log_level" validate:"oneof=debug info warn error"`
	TracingEnabled  bool    `toml:"tracing_enabled"`
	TracingExporter string  `toml:"tracing_exporter" validate:"omitempty,oneof=otlp stdout none"`
	SamplePct       float64 `toml:"sample_pct" validate:"gte=0,lte=1"`
	MetricsEnabled  bool    `toml:"metrics_enabled"`
	MetricsExporter string  `toml:"metrics_exporter" validate:"omitempty,oneof=otlp prometheus stdout none"`
}

// SecretsConfig configures the file secret provider.
type SecretsConfig struct {
	Dir string `toml:"dir"`
}

// Default returns the configuration used for every key the file omits.
func Default() Config {
	vendor := VendorConfig{
		Timeout:            Duration(verify.DefaultTimeout),
		FailOpen:           true,
		BreakerMaxFailures: 5,
		BreakerReset:       Duration(30 * time.Second),
	}
	token := vendor
	token.CacheTTL = Duration(14 * time.Minute)
	token.CacheMaxSize = 10

	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     Duration(10 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			ShutdownTimeout: Duration(15 * time.Second),
		},
		Cache: CacheConfig{
			TTL:     Duration(cache.DefaultTTL),
			MaxSize: cache.DefaultMaxSize,
			Allowed: []string{verify.RecaptchaCache, verify.ZeroBounceCache, verify.TokenCache},
		},
		Recaptcha:  RecaptchaConfig{VendorConfig: withEndpoint(vendor, verify.DefaultRecaptchaEndpoint)},
		ZeroBounce: ZeroBounceConfig{VendorConfig: withEndpoint(vendor, verify.DefaultZeroBounceEndpoint)},
		LeadAPI: LeadAPIConfig{
			VendorConfig:  token,
			SubmitTimeout: Duration(verify.DefaultTimeout),
		},
		Observe: ObserveConfig{
			ServiceName: "leadguard",
			LogLevel:    "info",
			SamplePct:   1,
		},
	}
}

func withEndpoint(v VendorConfig, endpoint string) VendorConfig {
	v.Endpoint = endpoint
	return v
}

// CachePolicy returns the registry default policy.
func (c CacheConfig) CachePolicy() cache.Policy {
	return cache.Policy{
		TTL:      c.TTL.Std(),
		MaxStale: c.MaxStale.Std(),
		MaxSize:  c.MaxSize,
	}
}
