// Package server exposes leadguard over HTTP with a chi router.
//
// Public routes:
//
//	POST   /services/leadgeneration     validate and submit a lead form
//	GET    /services/recaptcha/sitekey  public reCAPTCHA key for the widget
//	GET    /healthz /readyz /health     health checks
//	GET    /metrics                     Prometheus scrape, when enabled
//
// Admin routes require an API key in X-API-Key and are mounted only when
// keys are configured:
//
//	GET    /admin/caches
//	GET    /admin/caches/{name}
//	DELETE /admin/caches/{name}
//	DELETE /admin/caches/{name}/keys/{key}
//	PUT    /admin/caches/{name}/enabled
package server
