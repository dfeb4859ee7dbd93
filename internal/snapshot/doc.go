// Package snapshot persists aggregation results to disk. Each dataset owns
// one JSON file (and optionally a tab-separated rendering) under a shared
// directory. Failed passes never destroy previously written data: the old
// snapshot is carried over with staleness annotations instead.
package snapshot
