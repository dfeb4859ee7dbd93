// Package rates resolves the USD/TRY conversion rate used by the global
// market stats pass, with last-known and static fallbacks so a rate is
// always available.
package rates
