package config

import (
	"errors"
	"fmt"
	"net"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonwraymond/leadguard/observe"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		return name
	})
	_ = validate.RegisterValidation("listen_addr", func(fl validator.FieldLevel) bool {
		return validListenAddr(fl.Field().String())
	})
}

// validListenAddr accepts host:port where port 0 asks the kernel for a free
// port and an empty host listens on every interface.
func validListenAddr(addr string) bool {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if _, err := strconv.ParseUint(port, 10, 16); err != nil {
		return false
	}
	if host == "" || net.ParseIP(host) != nil {
		return true
	}
	return !strings.ContainsAny(host, " /\\\t")
}

// Validate checks field constraints and the rules that span fields.
func (c Config) Validate() error {
	var problems []string
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		for _, fe := range verrs {
			problems = append(problems, describe(fe))
		}
	}

	if c.LeadAPI.Endpoint == "" {
		problems = append(problems, "leadapi.endpoint: token endpoint is required")
	}
	if c.Observe.TracingEnabled && c.Observe.TracingExporter == "" {
		problems = append(problems, "observe.tracing_exporter: required when tracing is enabled")
	}
	if c.Observe.MetricsEnabled && c.Observe.MetricsExporter == "" {
		problems = append(problems, "observe.metrics_exporter: required when metrics are enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// describe renders a field error with its TOML path, e.g.
// "recaptcha.secret: failed required".
func describe(fe validator.FieldError) string {
	path := fe.Namespace()
	if _, rest, ok := strings.Cut(path, "."); ok {
		path = rest
	}
	// Embedded VendorConfig fields appear under their own type name.
	path = strings.ReplaceAll(path, "VendorConfig.", "")
	if fe.Param() != "" {
		return fmt.Sprintf("%s: failed %s=%s", path, fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s: failed %s", path, fe.Tag())
}

// ObserveConfig converts the section to observe settings.
func (c Config) ObserveConfig(version string) observe.Config {
	o := c.Observe
	return observe.Config{
		ServiceName: o.ServiceName,
		Version:     version,
		Tracing: observe.TracingConfig{
			Enabled:   o.TracingEnabled,
			Exporter:  o.TracingExporter,
			SamplePct: o.SamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  o.MetricsEnabled,
			Exporter: o.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   o.LogLevel,
		},
	}
}
