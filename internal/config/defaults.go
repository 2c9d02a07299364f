package config

import (
	"os"
	"path/filepath"
	"strings"

	"cadence/internal/match"
	"cadence/internal/textutil"
)

const (
	defaultCacheDir          = "~/.cache/cadence"
	defaultMusicBrainzURL    = "https://musicbrainz.org/ws/2"
	defaultUserAgent         = "cadence/dev (https://github.com/cadence-audio/cadence)"
	defaultRequestsPerSecond = 1.0
	defaultMaxCandidates     = 5
	defaultCacheTTLDays      = 7
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults. The [match]
// section mirrors the engine defaults so a missing config file and an empty
// one behave identically.
func Default() Config {
	engine := match.DefaultConfig()
	return Config{
		Paths: Paths{
			CacheDir: defaultCacheDir,
		},
		MusicBrainz: MusicBrainz{
			BaseURL:           defaultMusicBrainzURL,
			UserAgent:         defaultUserAgent,
			RequestsPerSecond: defaultRequestsPerSecond,
			MaxCandidates:     defaultMaxCandidates,
		},
		Match: Match{
			Weights:             engine.Weights,
			DurationGrace:       engine.DurationGrace,
			DurationMax:         engine.DurationMax,
			MissingTrackPenalty: engine.MissingTrackPenalty,
			ExtraTrackPenalty:   engine.ExtraTrackPenalty,
			UnknownPenalty:      engine.UnknownPenalty,
			EditionMarkers:      textutil.DefaultEditionMarkers,
			AcceptThreshold:     engine.Policy.AcceptThreshold,
			RejectThreshold:     engine.Policy.RejectThreshold,
			AmbiguityMargin:     engine.Policy.AmbiguityMargin,
			TrackTolerance:      engine.Policy.TrackTolerance,
		},
		Cache: Cache{
			Enabled: true,
			TTLDays: defaultCacheTTLDays,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultCachePath(cacheDir string) string {
	return filepath.Join(cacheDir, "catalog.db")
}

func cacheBaseDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "cadence")
	}
	return defaultCacheDir
}
