package services

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapPreservesMarker(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(ErrTransient, "musicbrainz", "search", "release lookup failed", cause)

	if !errors.Is(err, ErrTransient) {
		t.Errorf("marker lost: %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("cause lost: %v", err)
	}
	for _, want := range []string{"musicbrainz", "search", "release lookup failed", "connection reset"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("message missing %q: %v", want, err)
		}
	}
}

func TestWrapNilMarkerDefaultsTransient(t *testing.T) {
	err := Wrap(nil, "musicbrainz", "search", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Errorf("expected transient default, got %v", err)
	}
}

func TestWrapEmptyDetail(t *testing.T) {
	err := Wrap(ErrNotFound, "", "", "", nil)
	if !strings.Contains(err.Error(), "service failure") {
		t.Errorf("expected fallback detail, got %v", err)
	}
}

func TestInputFieldIdentifiesField(t *testing.T) {
	err := InputField("track set", "duration_secs", -3, "must not be negative")
	if !errors.Is(err, ErrInput) {
		t.Fatalf("expected input marker, got %v", err)
	}
	for _, want := range []string{"duration_secs", "-3", "must not be negative"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("message missing %q: %v", want, err)
		}
	}
}

func TestConfigFieldIdentifiesKey(t *testing.T) {
	err := ConfigField("match.accept_threshold", 1.5, "must be between 0 and 1")
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected configuration marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "match.accept_threshold=1.5") {
		t.Errorf("message missing key/value: %v", err)
	}
}
