// Package cache provides the named, size-bounded, time-bounded caches that
// sit in front of every outbound verification call.
//
// An Instance holds one cache: an LRU store bounded by Policy.MaxSize, a
// write TTL after which entries are served stale while a single background
// worker reloads them, and a loader that is consulted on misses. Loader
// failures and absent results are never stored.
//
// A Registry owns the Instances by name and only hands out caches whose name
// is on its allow-list.
package cache
