// Package services defines the shared error taxonomy for cadence components.
//
// Sentinel markers classify failures so callers can branch on errors.Is
// without parsing messages: malformed input, bad configuration, missing
// records, timeouts, and transient catalog failures each carry their own
// marker. Wrap attaches component and operation context while preserving the
// marker and the underlying cause.
package services
