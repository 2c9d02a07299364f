package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cadence/internal/config"
	"cadence/internal/match"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_CACHE_HOME", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantCache := filepath.Join(tempHome, ".cache", "cadence")
	if cfg.Paths.CacheDir != wantCache {
		t.Fatalf("unexpected cache dir: got %q want %q", cfg.Paths.CacheDir, wantCache)
	}
	if cfg.Cache.Path != filepath.Join(wantCache, "catalog.db") {
		t.Fatalf("unexpected cache path: %q", cfg.Cache.Path)
	}
	if !cfg.Cache.Enabled {
		t.Fatal("expected cache enabled by default")
	}
	if cfg.MusicBrainz.RequestsPerSecond != 1.0 {
		t.Fatalf("unexpected rate limit: %v", cfg.MusicBrainz.RequestsPerSecond)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.Match.AcceptThreshold != 0.15 || cfg.Match.RejectThreshold != 0.60 {
		t.Fatalf("unexpected thresholds: %+v", cfg.Match)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[musicbrainz]
base_url = "https://mirror.example.net/ws/2"
requests_per_second = 50.0

[match]
accept_threshold = 0.1
reject_threshold = 0.5

[match.weights]
artist = 10.0
country = 0.0

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.MusicBrainz.BaseURL != "https://mirror.example.net/ws/2" {
		t.Fatalf("unexpected base url: %q", cfg.MusicBrainz.BaseURL)
	}
	if cfg.MusicBrainz.RequestsPerSecond != 50.0 {
		t.Fatalf("unexpected rate: %v", cfg.MusicBrainz.RequestsPerSecond)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging not normalized: %+v", cfg.Logging)
	}

	mc := cfg.MatchConfig()
	if mc.Weights[match.FieldArtist] != 10.0 {
		t.Fatalf("artist weight override lost: %v", mc.Weights[match.FieldArtist])
	}
	if mc.Weights[match.FieldCountry] != 0.0 {
		t.Fatalf("country weight override lost: %v", mc.Weights[match.FieldCountry])
	}
	// Untouched weights keep engine defaults.
	if mc.Weights[match.FieldAlbum] != 3.0 {
		t.Fatalf("album weight changed unexpectedly: %v", mc.Weights[match.FieldAlbum])
	}
	if mc.Policy.AcceptThreshold != 0.1 || mc.Policy.RejectThreshold != 0.5 {
		t.Fatalf("thresholds not mapped: %+v", mc.Policy)
	}
	if err := mc.Validate(); err != nil {
		t.Fatalf("mapped config invalid: %v", err)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name:    "bad log format",
			content: "[logging]\nformat = \"xml\"\n",
			wantMsg: "logging.format",
		},
		{
			name:    "reject below accept",
			content: "[match]\naccept_threshold = 0.5\nreject_threshold = 0.2\n",
			wantMsg: "reject_threshold",
		},
		{
			name:    "negative weight",
			content: "[match.weights]\nartist = -1.0\n",
			wantMsg: "weights.artist",
		},
		{
			name:    "bad base url",
			content: "[musicbrainz]\nbase_url = \"not a url\"\n",
			wantMsg: "musicbrainz.base_url",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("error %q does not mention %q", err, tc.wantMsg)
			}
		})
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[match]") {
		t.Fatal("sample config missing [match] section")
	}
}

func TestExpandPath(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	got, err := config.ExpandPath("~/cache/db")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(tempHome, "cache", "db") {
		t.Fatalf("unexpected expansion: %q", got)
	}
}
