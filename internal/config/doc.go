// Package config loads, normalizes, and validates Clipforge configuration
// from TOML. Validation is fail-fast: bad values abort startup with an error
// naming the offending key instead of being silently corrected.
package config
