package server

import (
	"encoding/json"
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/jonwraymond/leadguard/auth"
	"github.com/jonwraymond/leadguard/cache"
	"github.com/jonwraymond/leadguard/observe"
)

type cacheDetail struct {
	cache.Stats
	Keys []string `json:"keys"`
}

func (h *handlers) listCaches(w http.ResponseWriter, _ *http.Request) {
	reg := h.opts.Registry
	out := make([]cache.Stats, 0)
	for _, name := range reg.Names() {
		if s, ok := reg.Describe(name); ok {
			out = append(out, s)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// instance returns the named cache or writes a 404.
func (h *handlers) instance(w http.ResponseWriter, r *http.Request) (*cache.Instance, bool) {
	inst := h.opts.Registry.Get(chi.URLParam(r, "name"))
	if inst == nil {
		writeError(w, http.StatusNotFound, cache.ErrUnknownInstance.Error())
		return nil, false
	}
	return inst, true
}

func (h *handlers) describeCache(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.instance(w, r)
	if !ok {
		return
	}
	keys := inst.Fingerprints()
	if keys == nil {
		keys = []string{}
	}
	writeJSON(w, http.StatusOK, cacheDetail{Stats: inst.Describe(), Keys: keys})
}

func (h *handlers) clearCache(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.instance(w, r)
	if !ok {
		return
	}
	inst.InvalidateAll()
	h.audit(r, "cache cleared", inst.Name())
	w.WriteHeader(http.StatusNoContent)
}

// invalidateKey drops one entry. The key is the raw input; it is
// abbreviated the same way descriptors are.
func (h *handlers) invalidateKey(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.instance(w, r)
	if !ok {
		return
	}
	raw := chi.URLParam(r, "key")
	if err := cache.ValidateKey(raw); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	key := cache.StringKey(cache.Abbreviate(raw, cache.MaxIdentityLength))
	inst.Invalidate(key)
	h.audit(r, "cache key invalidated", inst.Name(), observe.Field{Key: "key", Value: cache.Fingerprint(key.CacheKey())})
	w.WriteHeader(http.StatusNoContent)
}

type enabledRequest struct {
	Enabled *bool `json:"enabled"`
}

func (h *handlers) setEnabled(w http.ResponseWriter, r *http.Request) {
	inst, ok := h.instance(w, r)
	if !ok {
		return
	}
	var req enabledRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10)).Decode(&req); err != nil || req.Enabled == nil {
		writeError(w, http.StatusBadRequest, `body must be {"enabled": true|false}`)
		return
	}
	inst.SetEnabled(*req.Enabled)
	h.audit(r, "cache toggled", inst.Name(), observe.Field{Key: "enabled", Value: *req.Enabled})
	writeJSON(w, http.StatusOK, inst.Describe())
}

func (h *handlers) audit(r *http.Request, msg, name string, fields ...observe.Field) {
	fields = append(fields,
		observe.Field{Key: "cache", Value: name},
		observe.Field{Key: "principal", Value: auth.PrincipalFromContext(r.Context())},
	)
	h.logger.Info(r.Context(), msg, fields...)
}
