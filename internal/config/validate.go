package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable. The [match] section is
// validated by the engine itself so the weight table and thresholds have a
// single source of truth.
func (c *Config) Validate() error {
	if err := c.validateMusicBrainz(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.MatchConfig().Validate()
}

func (c *Config) validateMusicBrainz() error {
	parsed, err := url.Parse(c.MusicBrainz.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("musicbrainz.base_url %q is not a valid URL", c.MusicBrainz.BaseURL)
	}
	if c.MusicBrainz.RequestsPerSecond <= 0 {
		return errors.New("musicbrainz.requests_per_second must be positive")
	}
	if c.MusicBrainz.MaxCandidates <= 0 {
		return errors.New("musicbrainz.max_candidates must be positive")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.Enabled && c.Cache.Path == "" {
		return errors.New("cache.path must be set when cache.enabled is true")
	}
	if c.Cache.TTLDays < -1 {
		return errors.New("cache.ttl_days must be -1 (no expiry) or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn, or error", c.Logging.Level)
	}
	return nil
}
