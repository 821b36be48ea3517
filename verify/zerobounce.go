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

// ZeroBounceCache is the cache name for email-check verdicts.
const ZeroBounceCache = "zerobounce_response"

// DefaultZeroBounceEndpoint is the v2 validate URL.
const DefaultZeroBounceEndpoint = "https://api.zerobounce.net/v2/validate"

// ZeroBounceConfig configures the email-check service.
type ZeroBounceConfig struct {
	ServiceConfig

	APIKey string
}

// ZeroBounce scores email addresses with ZeroBounce.
type ZeroBounce struct {
	svc *service
}

// NewZeroBounce creates the email-check service and registers its cache.
func NewZeroBounce(cfg ZeroBounceConfig, deps Deps) *ZeroBounce {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultZeroBounceEndpoint
	}
	apiKey := cfg.APIKey
	endpoint := cfg.Endpoint
	svc := &service{
		name:      "zerobounce",
		operation: "validate",
		cacheName: ZeroBounceCache,
		kind:      work.EmailCheck,
		cfg:       cfg.ServiceConfig,
		build: func(email string) *fetch.Request {
			return fetch.NewGet("zerobounce", "validate", endpoint, url.Values{
				"api_key":    {apiKey},
				"email":      {email},
				"ip_address": {""},
			})
		},
		parse: parseZeroBounce,
	}
	return &ZeroBounce{svc: newService(svc, deps.withDefaults())}
}

// zeroBounceResponse is the subset of the validate payload leadguard reads.
type zeroBounceResponse struct {
	Address     string `json:"address"`
	Status      string `json:"status"`
	SubStatus   string `json:"sub_status"`
	FreeEmail   bool   `json:"free_email"`
	DidYouMean  string `json:"did_you_mean"`
	Domain      string `json:"domain"`
	MXFound     string `json:"mx_found"`
	ProcessedAt string `json:"processed_at"`
}

func parseZeroBounce(body []byte) (any, error) {
	var resp zeroBounceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("verify: decode zerobounce response: %w", err)
	}
	return EmailAllowed(resp.Status, resp.SubStatus), nil
}

// FailOpen reports whether Unknown verdicts pass.
func (z *ZeroBounce) FailOpen() bool { return z.svc.cfg.FailOpen }

// Cache returns the verdict cache, or nil.
func (z *ZeroBounce) Cache() *cache.Instance { return z.svc.Cache() }

// Describe builds the descriptor for an email address.
func (z *ZeroBounce) Describe(email string) *work.Descriptor {
	return z.svc.describe(email)
}

// Dispatch starts the prepared request of d on pool.
func (z *ZeroBounce) Dispatch(ctx context.Context, pool *fetch.Pool, d *work.Descriptor) error {
	return z.svc.dispatch(ctx, pool, d)
}

// Resolve returns the verdict for d. An empty address is allowed without a
// call.
func (z *ZeroBounce) Resolve(ctx context.Context, d *work.Descriptor) work.Verdict {
	if d.Input == "" {
		return work.Allow
	}
	v, ok := z.svc.resolve(ctx, d)
	if !ok {
		return work.Unknown
	}
	allowed, ok := v.(bool)
	if !ok {
		return work.Unknown
	}
	return work.VerdictOf(allowed)
}
