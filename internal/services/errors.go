package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInput marks malformed caller-supplied data (a track set or
	// candidate release that violates its invariants). Never retried.
	ErrInput = errors.New("input error")
	// ErrConfiguration marks invalid weights, thresholds, or tolerances.
	// Raised once at configuration load, not per attempt.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound marks a catalog record that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrTimeout marks a catalog lookup that exceeded its deadline.
	ErrTimeout = errors.New("timeout")
	// ErrTransient marks catalog failures worth retrying (network, 5xx).
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// InputField reports a malformed field on caller-supplied data. The field
// name and offending value always appear in the message so the caller can
// surface exactly what was wrong.
func InputField(component, field string, value any, reason string) error {
	return fmt.Errorf("%w: %s: field %s=%v: %s", ErrInput, component, field, value, reason)
}

// ConfigField reports an invalid configuration key.
func ConfigField(key string, value any, reason string) error {
	return fmt.Errorf("%w: %s=%v: %s", ErrConfiguration, key, value, reason)
}

// IsTransient reports whether the error is worth retrying.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}

// IsNotFound reports whether the error marks an absent catalog record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
