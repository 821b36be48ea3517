package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMount(t *testing.T) {
	tests := []struct {
		name     string
		check    Result
		path     string
		wantCode int
		wantBody string
	}{
		{"liveness ignores checks", Unhealthy("down", nil), "/healthz", http.StatusOK, "OK"},
		{"ready healthy", Healthy(""), "/readyz", http.StatusOK, "healthy"},
		{"ready degraded", Degraded(""), "/readyz", http.StatusOK, "degraded"},
		{"ready unhealthy", Unhealthy("", nil), "/readyz", http.StatusServiceUnavailable, "unhealthy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := NewAggregator(0)
			agg.Register(fixed("dep", tt.check))
			mux := http.NewServeMux()
			Mount(mux, agg)

			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantCode || rec.Body.String() != tt.wantBody {
				t.Errorf("got %d %q, want %d %q", rec.Code, rec.Body.String(), tt.wantCode, tt.wantBody)
			}
		})
	}
}

func TestDetailedHandler(t *testing.T) {
	agg := NewAggregator(0)
	agg.Register(fixed("memory", Healthy("fine")))
	agg.Register(fixed("cache", Unhealthy("gone", ErrCheckFailed)))

	rec := httptest.NewRecorder()
	DetailedHandler(agg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("code = %d, want 503", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var rep Report
	if err := json.NewDecoder(rec.Body).Decode(&rep); err != nil {
		t.Fatal(err)
	}
	if rep.Status != "unhealthy" || len(rep.Checks) != 2 {
		t.Errorf("report = %+v", rep)
	}
	if rep.Checks["cache"].Error != ErrCheckFailed.Error() {
		t.Errorf("cache error = %q", rep.Checks["cache"].Error)
	}
}
