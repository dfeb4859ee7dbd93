// Package resolver implements the per-symbol provider fallback chain.
//
// A Resolver holds providers in strict priority order and returns the first
// successful quote; on total failure it returns a failed Quote carrying the
// last provider's error. The Registry decides at startup which providers
// exist in this process, so optional upstreams are a registration question,
// not a per-call capability probe.
package resolver
