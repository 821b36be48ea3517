package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/jonwraymond/leadguard/secret"
)

// ErrUnknownKeys is returned when the file sets keys leadguard does not read.
var ErrUnknownKeys = errors.New("config: unknown keys")

// Load reads the configuration at path. When envFile is set it is loaded
// into the environment first and must exist.
func Load(ctx context.Context, path, envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("config: load env file: %w", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.ResolveSecrets(ctx); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes TOML over Default without resolving secrets or validating.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%w: %s", ErrUnknownKeys, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// ResolveSecrets expands environment variables and secret references in
// every credential and endpoint field.
func (c *Config) ResolveSecrets(ctx context.Context) error {
	reg := secret.NewRegistry()
	providers := make([]secret.Provider, 0, 2)
	env, err := reg.Create("env", nil)
	if err != nil {
		return err
	}
	providers = append(providers, env)
	if c.Secrets.Dir != "" {
		file, err := reg.Create("file", map[string]any{"dir": c.Secrets.Dir})
		if err != nil {
			return err
		}
		providers = append(providers, file)
	}

	r := secret.NewResolver(true, providers...)
	defer r.Close()

	err = r.ResolveAll(ctx,
		&c.Recaptcha.Endpoint, &c.Recaptcha.SiteKey, &c.Recaptcha.Secret,
		&c.ZeroBounce.Endpoint, &c.ZeroBounce.APIKey,
		&c.LeadAPI.Endpoint, &c.LeadAPI.SubmitEndpoint,
		&c.LeadAPI.Username, &c.LeadAPI.Password,
		&c.LeadAPI.ClientID, &c.LeadAPI.ClientSecret,
	)
	if err != nil {
		return fmt.Errorf("config: resolve secrets: %w", err)
	}
	keys, err := r.ResolveSlice(ctx, c.Admin.APIKeys)
	if err != nil {
		return fmt.Errorf("config: resolve admin keys: %w", err)
	}
	c.Admin.APIKeys = keys
	return nil
}
