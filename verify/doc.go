// Package verify adapts the external verification vendors to the uniform
// contract the orchestrator consumes.
//
// Each service owns one named cache from the registry. Describe turns an
// input into a work.Descriptor and prepares a request only when the input is
// not already cached; Dispatch starts that request on the per-request pool;
// Resolve reads the typed result through the cache, whose loader awaits the
// in-flight call or, on reloads, issues a fresh one.
//
// A result that cannot be obtained is Unknown (or an empty credential). It
// never fails the caller; what Unknown means is decided by FailOpen.
package verify
