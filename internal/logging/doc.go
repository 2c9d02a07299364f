// Package logging assembles the structured slog loggers used across cadence.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes attr helper aliases so components emit log lines with
// a consistent shape. The package also provides a no-op logger for tests and
// wiring code that cannot fail.
package logging
