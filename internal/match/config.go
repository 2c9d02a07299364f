package match

import (
	"cadence/internal/services"
	"cadence/internal/textutil"
)

// Field names used in the weight table and in FieldDistance components.
// Release-level fields first, then per-track fields.
const (
	FieldArtist        = "artist"
	FieldAlbum         = "album"
	FieldMediums       = "mediums"
	FieldTrackCount    = "track_count"
	FieldYear          = "year"
	FieldCountry       = "country"
	FieldLabel         = "label"
	FieldCatalogNum    = "catalognum"
	FieldDisambig      = "disambig"
	FieldReleaseID     = "release_id"
	FieldTracks        = "tracks"
	FieldMissingTracks = "missing_tracks"
	FieldExtraTracks   = "extra_tracks"

	FieldTrackTitle  = "track_title"
	FieldTrackArtist = "track_artist"
	FieldTrackIndex  = "track_index"
	FieldTrackLength = "track_length"
	FieldTrackID     = "track_id"
	FieldMedium      = "medium"
)

// Config carries every knob the engine needs: the field weight table,
// comparator tolerances, unmatched-track penalties, and the decision policy.
// Constructed explicitly and passed in; there are no ambient defaults.
type Config struct {
	// Weights maps field names to non-negative weights. A weight of 0
	// removes the field from scoring entirely. At least one weight must be
	// positive.
	Weights map[string]float64

	// DurationGrace is the slack in seconds within which two track lengths
	// count as identical. DurationMax is the additional difference at which
	// the length penalty saturates at 1.
	DurationGrace float64
	DurationMax   float64

	// MissingTrackPenalty is the fixed distance contributed by each local
	// track the assignment leaves unmatched; ExtraTrackPenalty likewise for
	// each unmatched candidate track. Fixed so one absent track cannot
	// dominate an otherwise excellent match.
	MissingTrackPenalty float64
	ExtraTrackPenalty   float64

	// UnknownPenalty is the distance scored when exactly one side of a
	// comparison declares the field.
	UnknownPenalty float64

	// EditionMarkers are stripped from titles before comparison.
	EditionMarkers []string

	// IndexTieBreak weights the track-index proximity term added to every
	// assignment cost. It exists purely to make tied-cost assignments
	// deterministic and must stay small enough never to outweigh a real
	// field difference.
	IndexTieBreak float64

	Policy Policy
}

// DefaultWeights returns the documented default field weight table.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		FieldArtist:        3.0,
		FieldAlbum:         3.0,
		FieldMediums:       1.0,
		FieldTrackCount:    0.5,
		FieldYear:          1.0,
		FieldCountry:       0.5,
		FieldLabel:         0.5,
		FieldCatalogNum:    0.5,
		FieldDisambig:      0.5,
		FieldReleaseID:     5.0,
		FieldTracks:        2.0,
		FieldMissingTracks: 0.9,
		FieldExtraTracks:   0.6,
		FieldTrackTitle:    3.0,
		FieldTrackArtist:   2.0,
		FieldTrackIndex:    1.0,
		FieldTrackLength:   2.0,
		FieldTrackID:       5.0,
		FieldMedium:        1.0,
	}
}

// DefaultConfig returns the documented engine defaults.
func DefaultConfig() Config {
	return Config{
		Weights:             DefaultWeights(),
		DurationGrace:       10,
		DurationMax:         30,
		MissingTrackPenalty: 1.0,
		ExtraTrackPenalty:   1.0,
		UnknownPenalty:      0.2,
		EditionMarkers:      textutil.DefaultEditionMarkers,
		IndexTieBreak:       1e-4,
		Policy:              DefaultPolicy(),
	}
}

// Validate fails fast on an unusable configuration, identifying the
// offending key. Called once at construction, not per attempt.
func (c Config) Validate() error {
	if len(c.Weights) == 0 {
		return services.ConfigField("match.weights", "{}", "weight table must not be empty")
	}
	anyPositive := false
	for field, w := range c.Weights {
		if w < 0 {
			return services.ConfigField("match.weights."+field, w, "must not be negative")
		}
		if w > 0 {
			anyPositive = true
		}
	}
	if !anyPositive {
		return services.ConfigField("match.weights", "all zero", "at least one field weight must be positive")
	}
	if c.DurationGrace < 0 {
		return services.ConfigField("match.duration_grace", c.DurationGrace, "must not be negative")
	}
	if c.DurationMax <= 0 {
		return services.ConfigField("match.duration_max", c.DurationMax, "must be positive")
	}
	if c.MissingTrackPenalty < 0 || c.MissingTrackPenalty > 1 {
		return services.ConfigField("match.missing_track_penalty", c.MissingTrackPenalty, "must be between 0 and 1")
	}
	if c.ExtraTrackPenalty < 0 || c.ExtraTrackPenalty > 1 {
		return services.ConfigField("match.extra_track_penalty", c.ExtraTrackPenalty, "must be between 0 and 1")
	}
	if c.UnknownPenalty < 0 || c.UnknownPenalty > 1 {
		return services.ConfigField("match.unknown_penalty", c.UnknownPenalty, "must be between 0 and 1")
	}
	if c.IndexTieBreak < 0 || c.IndexTieBreak >= 0.01 {
		return services.ConfigField("match.index_tie_break", c.IndexTieBreak, "must be in [0, 0.01)")
	}
	return c.Policy.Validate()
}

func (c Config) weight(field string) float64 {
	return c.Weights[field]
}
