// Package config loads and validates the aggregator's YAML configuration.
//
// Loading is split into three stages: Load (parse + ${VAR} expansion),
// LoadWithDefaults (fill optional fields), and LoadAndValidate (reject
// invalid combinations). Secrets such as the AI token and database password
// are expected to arrive through environment variable expansion.
package config
