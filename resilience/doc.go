// Package resilience paces and retries calls to geocoding providers.
//
// This package includes:
//   - RateLimiter: token bucket that makes callers wait instead of dropping them
//   - LimiterSet: one RateLimiter per provider and method
//   - Retry: retries failed operations with exponential backoff
//
// Both run on a clockwork.Clock so tests can advance time deterministically.
//
//	limiters := resilience.NewLimiterSet(nil)
//	rl := limiters.Get("osm:geocode", 1, 1)
//	if err := rl.Wait(ctx); err != nil { ... }
package resilience
