package verify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonwraymond/leadguard/cache"
)

var allNames = []string{RecaptchaCache, ZeroBounceCache, TokenCache}

func newRegistry(t *testing.T, names ...string) *cache.Registry {
	t.Helper()
	r := cache.NewRegistry(cache.RegistryConfig{Allowed: names})
	t.Cleanup(r.Close)
	return r
}

// vendor is an httptest server that counts hits and answers with respond.
type vendor struct {
	*httptest.Server
	hits atomic.Int32
}

func newVendor(t *testing.T, respond func(w http.ResponseWriter, r *http.Request)) *vendor {
	t.Helper()
	v := &vendor{}
	v.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v.hits.Add(1)
		respond(w, r)
	}))
	t.Cleanup(v.Close)
	return v
}

func jsonBody(body string) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func slow(d time.Duration) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		// Drained so a client hang-up cancels r.Context().
		_, _ = io.Copy(io.Discard, r.Body)
		select {
		case <-time.After(d):
			_, _ = w.Write([]byte(`{"success":true}`))
		case <-r.Context().Done():
		}
	}
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}
