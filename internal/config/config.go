package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"cadence/internal/match"
	"cadence/internal/musicbrainz"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	CacheDir string `toml:"cache_dir"`
}

// MusicBrainz contains configuration for the MusicBrainz web service.
type MusicBrainz struct {
	BaseURL           string  `toml:"base_url"`
	UserAgent         string  `toml:"user_agent"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	MaxCandidates     int     `toml:"max_candidates"`
}

// Match contains the engine's weight table, tolerances, and thresholds.
type Match struct {
	Weights             map[string]float64 `toml:"weights"`
	DurationGrace       float64            `toml:"duration_grace"`
	DurationMax         float64            `toml:"duration_max"`
	MissingTrackPenalty float64            `toml:"missing_track_penalty"`
	ExtraTrackPenalty   float64            `toml:"extra_track_penalty"`
	UnknownPenalty      float64            `toml:"unknown_penalty"`
	EditionMarkers      []string           `toml:"edition_markers"`
	AcceptThreshold     float64            `toml:"accept_threshold"`
	RejectThreshold     float64            `toml:"reject_threshold"`
	AmbiguityMargin     float64            `toml:"ambiguity_margin"`
	TrackTolerance      int                `toml:"track_tolerance"`
}

// Cache contains configuration for the catalog response cache.
type Cache struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
	TTLDays int    `toml:"ttl_days"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for cadence.
type Config struct {
	Paths       Paths       `toml:"paths"`
	MusicBrainz MusicBrainz `toml:"musicbrainz"`
	Match       Match       `toml:"match"`
	Cache       Cache       `toml:"cache"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/cadence/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a file actually existed at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("cadence.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// MatchConfig maps the [match] section onto the engine configuration.
func (c *Config) MatchConfig() match.Config {
	mc := match.DefaultConfig()
	for field, weight := range c.Match.Weights {
		mc.Weights[field] = weight
	}
	mc.DurationGrace = c.Match.DurationGrace
	mc.DurationMax = c.Match.DurationMax
	mc.MissingTrackPenalty = c.Match.MissingTrackPenalty
	mc.ExtraTrackPenalty = c.Match.ExtraTrackPenalty
	mc.UnknownPenalty = c.Match.UnknownPenalty
	if len(c.Match.EditionMarkers) > 0 {
		mc.EditionMarkers = c.Match.EditionMarkers
	}
	mc.Policy = match.Policy{
		AcceptThreshold: c.Match.AcceptThreshold,
		RejectThreshold: c.Match.RejectThreshold,
		AmbiguityMargin: c.Match.AmbiguityMargin,
		TrackTolerance:  c.Match.TrackTolerance,
	}
	return mc
}

// MusicBrainzConfig maps the [musicbrainz] section onto the client
// configuration. The logger is attached by the caller.
func (c *Config) MusicBrainzConfig() musicbrainz.Config {
	return musicbrainz.Config{
		BaseURL:           c.MusicBrainz.BaseURL,
		UserAgent:         c.MusicBrainz.UserAgent,
		RequestsPerSecond: c.MusicBrainz.RequestsPerSecond,
	}
}

// EnsureDirectories creates the cache directory when caching is enabled.
func (c *Config) EnsureDirectories() error {
	if !c.Cache.Enabled {
		return nil
	}
	dir := filepath.Dir(c.Cache.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
