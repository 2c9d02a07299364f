package main

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"cadence/internal/catalogcache"
	"cadence/internal/config"
	"cadence/internal/logging"
	"cadence/internal/match"
	"cadence/internal/musicbrainz"
)

// commandContext carries lazily initialized state shared by all commands:
// the loaded configuration, the logger built from it, and the catalog
// source factory. sourceFactory is swappable so command tests can run
// against a fake catalog.
type commandContext struct {
	configPath string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	sourceFactory func(cfg *config.Config, logger *slog.Logger) (musicbrainz.Source, func() error, error)
}

func newCommandContext() *commandContext {
	ctx := &commandContext{}
	ctx.sourceFactory = ctx.newSource
	return ctx
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// newMatcher builds the match engine from the loaded configuration.
func (c *commandContext) newMatcher() (*match.Matcher, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return match.NewMatcher(cfg.MatchConfig(), logger)
}

// newFinder builds the candidate finder over the configured source. The
// returned cleanup releases the cache store when one was opened and must be
// called once the command is done.
func (c *commandContext) newFinder() (*musicbrainz.Finder, func() error, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	src, cleanup, err := c.sourceFactory(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	finder := musicbrainz.NewFinder(src, musicbrainz.FinderOptions{
		MaxCandidates: cfg.MusicBrainz.MaxCandidates,
		Logger:        logger,
	})
	return finder, cleanup, nil
}

// newSource is the production source factory: a MusicBrainz client, wrapped
// in the sqlite read-through cache when caching is enabled.
func (c *commandContext) newSource(cfg *config.Config, logger *slog.Logger) (musicbrainz.Source, func() error, error) {
	mbCfg := cfg.MusicBrainzConfig()
	mbCfg.Logger = logger
	client, err := musicbrainz.New(mbCfg)
	if err != nil {
		return nil, nil, err
	}

	if !cfg.Cache.Enabled {
		return client, func() error { return nil }, nil
	}

	store, err := catalogcache.Open(cfg.Cache.Path, catalogcache.Options{
		TTL:    time.Duration(cfg.Cache.TTLDays) * 24 * time.Hour,
		Logger: logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open catalog cache: %w", err)
	}
	return catalogcache.NewSource(client, store), store.Close, nil
}

// openStore opens the cache store directly for cache maintenance commands.
func (c *commandContext) openStore() (*catalogcache.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Cache.Enabled {
		return nil, fmt.Errorf("catalog cache is disabled in the configuration")
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return catalogcache.Open(cfg.Cache.Path, catalogcache.Options{
		TTL:    time.Duration(cfg.Cache.TTLDays) * 24 * time.Hour,
		Logger: logger,
	})
}
