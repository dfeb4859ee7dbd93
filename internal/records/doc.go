// Package records persists user tracking records (habits, notes, daily
// entries) in Postgres. The payload is opaque JSON; the store only indexes
// by kind and day. The whole feature is optional and gated by config.
package records
