package server

import (
	"net/http"

	"github.com/jonwraymond/leadguard/lead"
	"github.com/jonwraymond/leadguard/observe"
)

func (h *handlers) leadGeneration(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.logger.Warn(r.Context(), "unreadable lead form", observe.Field{Key: "error", Value: err.Error()})
		writeResult(w, lead.InvalidRequest())
		return
	}
	writeResult(w, h.opts.Validator.Validate(r.Context(), lead.FormFromValues(r.PostForm)))
}

func writeResult(w http.ResponseWriter, res lead.Result) {
	status := res.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}
	if res.Errors == nil {
		res.Errors = []lead.Error{}
	}
	writeJSON(w, status, res)
}

func (h *handlers) siteKey(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"siteKey": h.opts.SiteKey})
}
