// Package health reports whether leadguard can serve validation requests.
//
// An Aggregator runs a set of named Checkers concurrently and folds their
// results into one Status. The server exposes it on three routes:
//
//	/healthz  liveness, always OK while the process runs
//	/readyz   readiness, 503 when any check is unhealthy
//	/health   every check's result as JSON
//
// CacheChecker reports Degraded when a service cache is missing from the
// registry or was never initialized. Requests still succeed in that state,
// they just go straight to the vendor.
package health
