// Package livequote serves on-demand single-symbol quotes with a short-TTL
// cache and a per-symbol circuit breaker. Degradation order on failure:
// fresh cache, stale cache, explicit rate-limited or error status. A zero
// price is never fabricated.
package livequote
