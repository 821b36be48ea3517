package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/jonwraymond/leadguard/cache"
	"github.com/jonwraymond/leadguard/fetch"
	"github.com/jonwraymond/leadguard/work"
)

// RecaptchaCache is the cache name for bot-check verdicts.
const RecaptchaCache = "recaptcha_response"

// DefaultRecaptchaEndpoint is Google's siteverify URL.
const DefaultRecaptchaEndpoint = "https://www.google.com/recaptcha/api/siteverify"

// RecaptchaConfig configures the bot-check service.
type RecaptchaConfig struct {
	ServiceConfig

	// SiteKey is handed to the browser widget.
	SiteKey string

	// Secret authenticates siteverify calls.
	Secret string
}

// Recaptcha verifies challenge tokens with Google reCAPTCHA.
type Recaptcha struct {
	svc     *service
	siteKey string
}

// NewRecaptcha creates the bot-check service and registers its cache.
func NewRecaptcha(cfg RecaptchaConfig, deps Deps) *Recaptcha {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultRecaptchaEndpoint
	}
	secret := cfg.Secret
	endpoint := cfg.Endpoint
	svc := &service{
		name:      "recaptcha",
		operation: "siteverify",
		cacheName: RecaptchaCache,
		kind:      work.BotCheck,
		cfg:       cfg.ServiceConfig,
		build: func(token string) *fetch.Request {
			return fetch.NewGet("recaptcha", "siteverify", endpoint, url.Values{
				"secret":   {secret},
				"response": {token},
			})
		},
		parse: parseRecaptcha,
	}
	return &Recaptcha{svc: newService(svc, deps.withDefaults()), siteKey: cfg.SiteKey}
}

type recaptchaResponse struct {
	Success    *bool    `json:"success"`
	Hostname   string   `json:"hostname,omitempty"`
	ErrorCodes []string `json:"error-codes,omitempty"`
}

func parseRecaptcha(body []byte) (any, error) {
	var resp recaptchaResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("verify: decode recaptcha response: %w", err)
	}
	if resp.Success == nil {
		return nil, nil
	}
	return *resp.Success, nil
}

// SiteKey returns the public key for the browser widget.
func (r *Recaptcha) SiteKey() string { return r.siteKey }

// FailOpen reports whether Unknown verdicts pass.
func (r *Recaptcha) FailOpen() bool { return r.svc.cfg.FailOpen }

// Cache returns the verdict cache, or nil.
func (r *Recaptcha) Cache() *cache.Instance { return r.svc.Cache() }

// Describe builds the descriptor for a challenge token.
func (r *Recaptcha) Describe(token string) *work.Descriptor {
	return r.svc.describe(token)
}

// Dispatch starts the prepared request of d on pool.
func (r *Recaptcha) Dispatch(ctx context.Context, pool *fetch.Pool, d *work.Descriptor) error {
	return r.svc.dispatch(ctx, pool, d)
}

// Resolve returns the verdict for d. An empty token is allowed without a
// call.
func (r *Recaptcha) Resolve(ctx context.Context, d *work.Descriptor) work.Verdict {
	if d.Input == "" {
		return work.Allow
	}
	v, ok := r.svc.resolve(ctx, d)
	if !ok {
		return work.Unknown
	}
	allowed, ok := v.(bool)
	if !ok {
		return work.Unknown
	}
	return work.VerdictOf(allowed)
}
