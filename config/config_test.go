package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonwraymond/leadguard/secret"
)

const validTOML = `
[server]
addr = "127.0.0.1:9090"

[cache]
ttl = "30m"

[recaptcha]
site_key = "site"
secret = "${LG_TEST_RECAPTCHA_SECRET}"
fail_open = false

[zerobounce]
api_key = "secretref:env:LG_TEST_ZB_KEY"
timeout = "2s"

[leadapi]
endpoint = "https://login.example.com/services/oauth2/token"
submit_endpoint = "https://example.my.salesforce.com/services/data/v58.0/sobjects/Lead"
username = "integration@example.com"
password = "pw"
client_id = "cid"
client_secret = "csecret"
company = "Acme"

[admin]
api_keys = ["0123456789abcdef0123"]
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDuration(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("90s")); err != nil {
		t.Fatal(err)
	}
	if d.Std() != 90*time.Second {
		t.Errorf("Std() = %s", d.Std())
	}
	if b, _ := d.MarshalText(); string(b) != "1m30s" {
		t.Errorf("MarshalText() = %s", b)
	}
	if err := d.UnmarshalText([]byte("soon")); err == nil {
		t.Error("UnmarshalText(soon) should fail")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if !cfg.Recaptcha.FailOpen || !cfg.ZeroBounce.FailOpen {
		t.Error("vendors should fail open by default")
	}
	if cfg.LeadAPI.CacheTTL.Std() != 14*time.Minute || cfg.LeadAPI.CacheMaxSize != 10 {
		t.Errorf("token cache = %s/%d", cfg.LeadAPI.CacheTTL, cfg.LeadAPI.CacheMaxSize)
	}
	if len(cfg.Cache.Allowed) != 3 {
		t.Errorf("Allowed = %v", cfg.Cache.Allowed)
	}
	if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("Default().Validate() = %v, want credentials missing", err)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("LG_TEST_RECAPTCHA_SECRET", "rc-secret")
	t.Setenv("LG_TEST_ZB_KEY", "zb-key")
	path := writeFile(t, "leadguard.toml", validTOML)

	cfg, err := Load(context.Background(), path, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:9090" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout.Std() != 10*time.Second {
		t.Errorf("ReadTimeout default lost: %s", cfg.Server.ReadTimeout)
	}
	if cfg.Cache.TTL.Std() != 30*time.Minute {
		t.Errorf("Cache.TTL = %s", cfg.Cache.TTL)
	}
	if cfg.Recaptcha.Secret != "rc-secret" || cfg.ZeroBounce.APIKey != "zb-key" {
		t.Errorf("secrets = %q %q", cfg.Recaptcha.Secret, cfg.ZeroBounce.APIKey)
	}
	if cfg.Recaptcha.FailOpen {
		t.Error("recaptcha fail_open = true, want false from file")
	}
	if !cfg.ZeroBounce.FailOpen {
		t.Error("zerobounce fail_open should keep its default")
	}
	if cfg.ZeroBounce.Timeout.Std() != 2*time.Second {
		t.Errorf("zerobounce timeout = %s", cfg.ZeroBounce.Timeout)
	}
	if cfg.Recaptcha.Endpoint == "" {
		t.Error("recaptcha endpoint default lost")
	}

	svc := cfg.LeadAPI.Service()
	if svc.Cache.TTL != 14*time.Minute || svc.Timeout != 5*time.Second {
		t.Errorf("token service = %+v", svc)
	}
	if b := cfg.Recaptcha.Breaker(); b.MaxFailures != 5 || b.ResetTimeout != 30*time.Second {
		t.Errorf("breaker = %+v", b)
	}
	if p := cfg.Cache.CachePolicy(); p.TTL != 30*time.Minute || p.MaxSize != 10000 {
		t.Errorf("policy = %+v", p)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	t.Setenv("LG_TEST_ZB_KEY", "zb-key")
	// godotenv never overrides variables that are already set.
	os.Unsetenv("LG_TEST_RECAPTCHA_SECRET")
	t.Cleanup(func() { os.Unsetenv("LG_TEST_RECAPTCHA_SECRET") })

	env := writeFile(t, ".env", "LG_TEST_RECAPTCHA_SECRET=from-dotenv\n")
	path := writeFile(t, "leadguard.toml", validTOML)

	cfg, err := Load(context.Background(), path, env)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Recaptcha.Secret != "from-dotenv" {
		t.Errorf("Secret = %q", cfg.Recaptcha.Secret)
	}

	if _, err := Load(context.Background(), path, filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("Load() with a missing env file should fail")
	}
}

func TestLoad_SecretsDir(t *testing.T) {
	t.Setenv("LG_TEST_RECAPTCHA_SECRET", "rc")
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "zb"), []byte("zb-from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	content := strings.Replace(validTOML, `"secretref:env:LG_TEST_ZB_KEY"`, `"secretref:file:zb"`, 1) +
		"\n[secrets]\ndir = \"" + filepath.ToSlash(dir) + "\"\n"
	path := writeFile(t, "leadguard.toml", content)

	cfg, err := Load(context.Background(), path, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ZeroBounce.APIKey != "zb-from-file" {
		t.Errorf("APIKey = %q", cfg.ZeroBounce.APIKey)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv("LG_TEST_RECAPTCHA_SECRET", "rc")
	t.Setenv("LG_TEST_ZB_KEY", "zb")

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"addr without port", strings.Replace(validTOML, `addr = "127.0.0.1:9090"`, `addr = "127.0.0.1"`, 1), ErrInvalid},
		{"unknown key", validTOML + "\n[extra]\nfoo = 1\n", ErrUnknownKeys},
		{"missing env", strings.Replace(validTOML, "LG_TEST_RECAPTCHA_SECRET", "LG_TEST_NOT_SET_X", 1), secret.ErrMissingEnv},
		{"bad duration", strings.Replace(validTOML, `ttl = "30m"`, `ttl = "forever"`, 1), nil},
		{"zero ttl", strings.Replace(validTOML, `ttl = "30m"`, `ttl = "0s"`, 1), ErrInvalid},
		{"short admin key", strings.Replace(validTOML, "0123456789abcdef0123", "short", 1), ErrInvalid},
		{"unknown cache", strings.Replace(validTOML, `ttl = "30m"`, `ttl = "30m"`+"\nallowed = [\"other\"]", 1), ErrInvalid},
		{"bad log level", validTOML + "\n[observe]\nlog_level = \"loud\"\n", ErrInvalid},
		{"tracing without exporter", validTOML + "\n[observe]\ntracing_enabled = true\n", ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), writeFile(t, "leadguard.toml", tt.content), "")
			if err == nil {
				t.Fatal("Load() error = nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_FieldPaths(t *testing.T) {
	cfg := Default()
	cfg.LeadAPI.Endpoint = "https://login.example.com/token"
	cfg.Recaptcha.Timeout = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil")
	}
	for _, want := range []string{"recaptcha.timeout: failed gt=0", "recaptcha.secret: failed required", "leadapi.username: failed required"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestObserveConfig(t *testing.T) {
	cfg := Default()
	cfg.Observe.MetricsEnabled = true
	cfg.Observe.MetricsExporter = "prometheus"

	o := cfg.ObserveConfig("1.2.3")
	if o.ServiceName != "leadguard" || o.Version != "1.2.3" || o.Metrics.Exporter != "prometheus" || o.Logging.Level != "info" {
		t.Errorf("ObserveConfig() = %+v", o)
	}
	if err := o.Validate(); err != nil {
		t.Errorf("observe.Config.Validate() = %v", err)
	}
}

func TestValidListenAddr(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"127.0.0.1:0", true},
		{":8080", true},
		{":0", true},
		{"localhost:8080", true},
		{"[::1]:9090", true},
		{"127.0.0.1", false},
		{"host:99999", false},
		{"host:http", false},
		{"bad host:80", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := validListenAddr(tt.addr); got != tt.want {
			t.Errorf("validListenAddr(%q) = %v, want %v", tt.addr, got, tt.want)
		}
	}
}

func TestLoad_EphemeralPort(t *testing.T) {
	t.Setenv("LG_TEST_RECAPTCHA_SECRET", "rc-secret")
	t.Setenv("LG_TEST_ZB_KEY", "zb-key")
	content := strings.Replace(validTOML, `addr = "127.0.0.1:9090"`, `addr = "127.0.0.1:0"`, 1)

	cfg, err := Load(context.Background(), writeFile(t, "leadguard.toml", content), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:0" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
}
