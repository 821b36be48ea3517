// Package observe provides the logging, metrics and tracing used across the
// service.
//
// Every outbound verification call is wrapped by Middleware, which opens a
// span, records call metrics and writes one structured log line. Cache
// events are counted through CacheMetrics and final validation outcomes
// through OutcomeMetrics. Exporters are selected by name in the exporters
// subpackage.
package observe
