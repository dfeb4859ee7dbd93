// Package model defines the domain types shared across the aggregator.
//
// A Quote is the normalized record produced by a provider adapter for one
// symbol at one point in time. It is either resolved (Price set, Error empty)
// or failed (Price nil, Error set), never both. Quotes are created fresh on
// every aggregation pass and superseded wholesale by the next pass.
//
// Conventions:
//   - Prices and other market figures: *float64, nil when the provider had
//     no value (JSON null in snapshot files)
//   - Timestamps: time.Time, serialized as RFC 3339
package model
