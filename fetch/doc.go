// Package fetch performs the outbound HTTP calls behind every verification
// step.
//
// A Request is a prepared, not yet executed call. A Pool dispatches Requests
// on its own goroutines and hands back a Call, which the caller later awaits
// with a per-service timeout. Awaiting past the timeout aborts the transport.
//
// Fetchers compose: HTTPFetcher talks to the network, Instrumented adds
// tracing, metrics and logging, and Guarded adds a circuit breaker.
package fetch
