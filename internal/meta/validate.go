package meta

import (
	"cadence/internal/services"
)

// ValidateTrackSet checks the structural invariants of caller-supplied local
// metadata. Violations are input errors identifying the offending field;
// absent fields are never errors.
func ValidateTrackSet(set TrackSet) error {
	if len(set.Tracks) == 0 {
		return services.InputField("track set", "tracks", 0, "must contain at least one track")
	}
	if set.ExpectedTracks < 0 {
		return services.InputField("track set", "expected_tracks", set.ExpectedTracks, "must not be negative")
	}
	seen := make(map[string]bool, len(set.Tracks))
	for i, t := range set.Tracks {
		if t.ID == "" {
			return services.InputField("track set", "tracks[].id", i, "every track needs an identifier")
		}
		if seen[t.ID] {
			return services.InputField("track set", "tracks[].id", t.ID, "duplicate track identifier")
		}
		seen[t.ID] = true
		if t.Duration < 0 {
			return services.InputField("track set", "tracks[].duration", t.Duration, "must not be negative")
		}
		if t.Index < 0 {
			return services.InputField("track set", "tracks[].index", t.Index, "must not be negative")
		}
		if t.Disc < 0 {
			return services.InputField("track set", "tracks[].disc", t.Disc, "must not be negative")
		}
	}
	return nil
}

// ValidateRelease checks the structural invariants of a candidate release.
func ValidateRelease(r Release) error {
	if r.ID == "" {
		return services.InputField("release", "id", "", "candidate needs a catalog identifier")
	}
	seen := make(map[string]bool, len(r.Tracks))
	for i, t := range r.Tracks {
		if t.ID == "" {
			return services.InputField("release", "tracks[].id", i, "every track needs a catalog identifier")
		}
		if seen[t.ID] {
			return services.InputField("release", "tracks[].id", t.ID, "duplicate track identifier")
		}
		seen[t.ID] = true
		if t.Duration < 0 {
			return services.InputField("release", "tracks[].duration", t.Duration, "must not be negative")
		}
		if t.Index < 0 {
			return services.InputField("release", "tracks[].index", t.Index, "must not be negative")
		}
		if t.Medium < 0 {
			return services.InputField("release", "tracks[].medium", t.Medium, "must not be negative")
		}
	}
	return nil
}
