package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jonwraymond/leadguard/auth"
	"github.com/jonwraymond/leadguard/cache"
	"github.com/jonwraymond/leadguard/config"
	"github.com/jonwraymond/leadguard/fetch"
	"github.com/jonwraymond/leadguard/health"
	"github.com/jonwraymond/leadguard/lead"
	"github.com/jonwraymond/leadguard/observe"
	"github.com/jonwraymond/leadguard/orchestrator"
	"github.com/jonwraymond/leadguard/server"
	"github.com/jonwraymond/leadguard/verify"
)

// app is the wired process.
type app struct {
	observer observe.Observer
	logger   observe.Logger
	registry *cache.Registry
	server   *server.Server
}

// build wires every component from cfg. The registry is created once here
// and shared by all services.
func build(ctx context.Context, cfg config.Config, version string) (*app, error) {
	obsCfg := cfg.ObserveConfig(version)
	var gatherer prometheus.Gatherer
	if obsCfg.Metrics.Enabled && obsCfg.Metrics.Exporter == "prometheus" {
		reg := prometheus.NewRegistry()
		obsCfg.Metrics.Registerer = reg
		gatherer = reg
	}

	obs, err := observe.NewObserver(ctx, obsCfg)
	if err != nil {
		return nil, fmt.Errorf("observe: %w", err)
	}
	logger := obs.Logger()

	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("observe middleware: %w", err), obs.Shutdown(ctx))
	}
	cacheMetrics, err := observe.NewCacheMetrics(obs.Meter())
	if err != nil {
		return nil, errors.Join(fmt.Errorf("cache metrics: %w", err), obs.Shutdown(ctx))
	}
	outcomes, err := observe.NewOutcomeMetrics(obs.Meter())
	if err != nil {
		return nil, errors.Join(fmt.Errorf("outcome metrics: %w", err), obs.Shutdown(ctx))
	}

	registry := cache.NewRegistry(
		cache.RegistryConfig{Defaults: cfg.Cache.CachePolicy(), Allowed: cfg.Cache.Allowed},
		cache.WithLogger(logger),
		cache.WithMetrics(cacheMetrics),
	)

	base := fetch.NewHTTPFetcher(nil)
	vendorDeps := func(name string, v config.VendorConfig) verify.Deps {
		return verify.Deps{
			Registry: registry,
			Fetcher:  verify.NewVendorFetcher(name, base, mw, v.Breaker(), logger),
			Logger:   logger,
		}
	}

	bot := verify.NewRecaptcha(verify.RecaptchaConfig{
		ServiceConfig: cfg.Recaptcha.Service(),
		SiteKey:       cfg.Recaptcha.SiteKey,
		Secret:        cfg.Recaptcha.Secret,
	}, vendorDeps("recaptcha", cfg.Recaptcha.VendorConfig))

	email := verify.NewZeroBounce(verify.ZeroBounceConfig{
		ServiceConfig: cfg.ZeroBounce.Service(),
		APIKey:        cfg.ZeroBounce.APIKey,
	}, vendorDeps("zerobounce", cfg.ZeroBounce.VendorConfig))

	la := cfg.LeadAPI
	token := verify.NewToken(verify.TokenConfig{
		ServiceConfig: la.Service(),
		Username:      la.Username,
		Password:      la.Password,
		ClientID:      la.ClientID,
		ClientSecret:  la.ClientSecret,
	}, vendorDeps("token", la.VendorConfig))

	logger.Info(ctx, "lead api credential",
		observe.Field{Key: "account", Value: token.Username()},
		observe.Field{Key: "cache", Value: verify.TokenCache},
	)

	submitter := lead.NewSubmitter(lead.Config{
		Endpoint: la.SubmitEndpoint,
		Timeout:  la.SubmitTimeout.Std(),
	}, fetch.Instrumented(base, mw), logger)

	orch, err := orchestrator.New(orchestrator.Config{
		Account: lead.Account{
			Company:      la.Company,
			LeadSource:   la.LeadSource,
			RecordTypeID: la.RecordTypeID,
		},
		PoolWait: cfg.Server.PoolWait.Std(),
	}, orchestrator.Deps{
		Bot:       bot,
		Email:     email,
		Token:     token,
		Submitter: submitter,
		Logger:    logger,
		Outcomes:  outcomes,
	})
	if err != nil {
		registry.Close()
		return nil, errors.Join(err, obs.Shutdown(ctx))
	}

	agg := health.NewAggregator(0)
	agg.Register(health.NewMemoryChecker(health.MemoryCheckerConfig{}))
	agg.Register(health.NewCacheChecker(registry, cfg.Cache.Allowed...))

	var admin auth.Authenticator
	if len(cfg.Admin.APIKeys) > 0 {
		admin = auth.NewAPIKeyAuthenticator(auth.APIKeyConfig{}, auth.NewStaticAPIKeyStore(cfg.Admin.APIKeys, "admin"))
	}

	handler := server.NewRouter(server.Options{
		Validator: orch,
		SiteKey:   bot.SiteKey(),
		Registry:  registry,
		Health:    agg,
		Admin:     admin,
		Gatherer:  gatherer,
		Logger:    logger,
	})
	srv := server.New(server.Config{
		Addr:            cfg.Server.Addr,
		ReadTimeout:     cfg.Server.ReadTimeout.Std(),
		WriteTimeout:    cfg.Server.WriteTimeout.Std(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout.Std(),
	}, handler, logger)

	return &app{observer: obs, logger: logger, registry: registry, server: srv}, nil
}

// close stops the cache workers and flushes telemetry.
func (a *app) close() {
	a.registry.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.observer.Shutdown(ctx); err != nil {
		a.logger.Warn(ctx, "telemetry shutdown", observe.Field{Key: "error", Value: err.Error()})
	}
}
