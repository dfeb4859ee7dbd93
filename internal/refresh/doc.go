// Package refresh schedules recurring aggregation passes. Each dataset gets
// its own independent loop: run once at startup, then on a fixed interval,
// with failures logged and converted into "no update this cycle".
package refresh
