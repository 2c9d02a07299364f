// Package config loads, normalizes, and validates cadence configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and maps the [match] section onto the
// engine's weight table and thresholds. Always obtain settings through this
// package so downstream code receives sanitized paths, canonical log
// formats, and clear validation errors.
package config
