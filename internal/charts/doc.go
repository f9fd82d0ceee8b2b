// Package charts coordinates chart requests across the cache, the provider
// registry and the track matcher.
//
// Each request walks a small state machine: check the cache and serve a valid
// record, otherwise select a provider, fetch, persist the outcome (success or
// failure) and serve fresh. Failed fetches are memoized with a short TTL so a
// broken provider is retried soon instead of being cached as permanently
// down. Concurrent requests for the same stale key are collapsed into one
// provider call with [singleflight.Group].
package charts
