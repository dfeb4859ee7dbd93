// Package aggregate runs full passes over a symbol universe, resolving every
// symbol through a fallback chain and assembling one complete result set.
// Individual symbol failures are recorded in place and never abort a pass.
package aggregate
