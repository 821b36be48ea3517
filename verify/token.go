package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/jonwraymond/leadguard/auth"
	"github.com/jonwraymond/leadguard/cache"
	"github.com/jonwraymond/leadguard/fetch"
	"github.com/jonwraymond/leadguard/observe"
	"github.com/jonwraymond/leadguard/work"
)

// TokenCache is the cache name for submission credentials.
const TokenCache = "token_response"

// TokenConfig configures the credential service. Endpoint is the OAuth2
// token URL.
type TokenConfig struct {
	ServiceConfig

	Username     string
	Password     string
	ClientID     string
	ClientSecret string
}

// Token obtains bearer credentials with the OAuth2 password grant. All
// requests share one cache entry keyed by Username.
type Token struct {
	svc      *service
	username string
	now      func() time.Time
}

// NewToken creates the credential service and registers its cache.
func NewToken(cfg TokenConfig, deps Deps) *Token {
	deps = deps.withDefaults()
	t := &Token{username: cfg.Username, now: deps.Now}

	endpoint := cfg.Endpoint
	params := url.Values{
		"grant_type":    {"password"},
		"username":      {cfg.Username},
		"password":      {cfg.Password},
		"client_id":     {cfg.ClientID},
		"client_secret": {cfg.ClientSecret},
	}
	svc := &service{
		name:      "token",
		operation: "password_grant",
		cacheName: TokenCache,
		kind:      work.TokenFetch,
		cfg:       cfg.ServiceConfig,
		build: func(string) *fetch.Request {
			return fetch.NewPostForm("token", "password_grant", endpoint, params)
		},
		parse: t.parse,
	}
	t.svc = newService(svc, deps)
	return t
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	InstanceURL string `json:"instance_url,omitempty"`
	TokenType   string `json:"token_type,omitempty"`
	IssuedAt    string `json:"issued_at,omitempty"`
}

// parse extracts access_token. Credentials that are already expired are
// treated as absent so they are never cached.
func (t *Token) parse(body []byte) (any, error) {
	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("verify: decode token response: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, nil
	}
	if auth.CredentialExpired(resp.AccessToken, t.now()) {
		return nil, nil
	}
	return resp.AccessToken, nil
}

// Username returns the account the credential is issued for.
func (t *Token) Username() string { return t.username }

// Cache returns the credential cache, or nil.
func (t *Token) Cache() *cache.Instance { return t.svc.Cache() }

// Describe builds the descriptor for the configured account. The input is
// ignored.
func (t *Token) Describe(string) *work.Descriptor {
	return t.svc.describe(t.username)
}

// Dispatch starts the prepared request of d on pool.
func (t *Token) Dispatch(ctx context.Context, pool *fetch.Pool, d *work.Descriptor) error {
	return t.svc.dispatch(ctx, pool, d)
}

// Resolve returns the credential for d. A cached credential that has
// expired since it was stored is dropped and fetched again once.
func (t *Token) Resolve(ctx context.Context, d *work.Descriptor) (string, bool) {
	tok, ok := t.lookup(ctx, d)
	if !ok || !auth.CredentialExpired(tok, t.now()) {
		return tok, ok
	}

	t.svc.logger.Info(ctx, "cached credential expired, reloading",
		observe.Field{Key: "key", Value: d.Fingerprint()},
	)
	t.svc.invalidate(d)
	tok, ok = t.lookup(ctx, d)
	if !ok || auth.CredentialExpired(tok, t.now()) {
		return "", false
	}
	return tok, true
}

func (t *Token) lookup(ctx context.Context, d *work.Descriptor) (string, bool) {
	v, ok := t.svc.resolve(ctx, d)
	if !ok {
		return "", false
	}
	tok, ok := v.(string)
	if !ok || tok == "" {
		return "", false
	}
	return tok, true
}
