package server

import (
	"context"
	"encoding/json"
	"net/http"

	chi "github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonwraymond/leadguard/auth"
	"github.com/jonwraymond/leadguard/cache"
	"github.com/jonwraymond/leadguard/health"
	"github.com/jonwraymond/leadguard/lead"
	"github.com/jonwraymond/leadguard/observe"
)

// maxFormBytes bounds the lead form body.
const maxFormBytes = 64 << 10

// Validator runs one lead validation.
type Validator interface {
	Validate(ctx context.Context, form lead.Form) lead.Result
}

// Options are the collaborators the router serves.
type Options struct {
	Validator Validator
	SiteKey   string

	// Registry backs the admin cache routes.
	Registry *cache.Registry

	// Health is mounted on the health routes when set.
	Health *health.Aggregator

	// Admin authenticates admin routes. Nil leaves them unmounted.
	Admin auth.Authenticator

	// Gatherer is served on /metrics when set.
	Gatherer prometheus.Gatherer

	Logger observe.Logger
}

// NewRouter builds the HTTP handler.
func NewRouter(opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = observe.NopLogger()
	}
	h := &handlers{opts: opts, logger: opts.Logger}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(accessLog(opts.Logger))
	r.Use(middleware.Recoverer)

	r.Post("/services/leadgeneration", h.leadGeneration)
	r.Get("/services/recaptcha/sitekey", h.siteKey)

	if opts.Health != nil {
		health.Mount(r, opts.Health)
	}
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	if opts.Admin != nil && opts.Registry != nil {
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.Require(opts.Admin, adminFailure))
			r.Get("/caches", h.listCaches)
			r.Get("/caches/{name}", h.describeCache)
			r.Delete("/caches/{name}", h.clearCache)
			r.Delete("/caches/{name}/keys/{key}", h.invalidateKey)
			r.Put("/caches/{name}/enabled", h.setEnabled)
		})
	}
	return r
}

type handlers struct {
	opts   Options
	logger observe.Logger
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func adminFailure(w http.ResponseWriter, _ *http.Request, err error) {
	status := auth.StatusFor(err)
	writeError(w, status, http.StatusText(status))
}
