package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cadence/internal/config"
	"cadence/internal/meta"
	"cadence/internal/musicbrainz"
	"cadence/internal/services"
)

// fakeCatalog is an in-memory musicbrainz.Source for command tests.
type fakeCatalog struct {
	stubs      []musicbrainz.ReleaseStub
	releases   map[string]meta.Release
	recordings map[string]meta.Track
	tracks     []meta.Track
}

func (f *fakeCatalog) SearchReleases(ctx context.Context, query musicbrainz.ReleaseQuery) ([]musicbrainz.ReleaseStub, error) {
	return f.stubs, nil
}

func (f *fakeCatalog) LookupRelease(ctx context.Context, id string) (meta.Release, error) {
	rel, ok := f.releases[id]
	if !ok {
		return meta.Release{}, services.Wrap(services.ErrNotFound, "catalog", "release lookup", id, nil)
	}
	return rel, nil
}

func (f *fakeCatalog) SearchRecordings(ctx context.Context, query musicbrainz.RecordingQuery) ([]meta.Track, error) {
	return f.tracks, nil
}

func (f *fakeCatalog) LookupRecording(ctx context.Context, id string) (meta.Track, error) {
	track, ok := f.recordings[id]
	if !ok {
		return meta.Track{}, services.Wrap(services.ErrNotFound, "catalog", "recording lookup", id, nil)
	}
	return track, nil
}

// writeTestConfig writes a minimal config that keeps command output quiet and
// avoids touching the real cache directory.
func writeTestConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	content := "[cache]\nenabled = false\n\n[logging]\nlevel = \"error\"\nformat = \"console\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// runCLI executes the root command with args against an optional fake
// catalog, returning captured stdout.
func runCLI(t *testing.T, args []string, configPath string, catalog *fakeCatalog) (string, error) {
	t.Helper()

	cmdCtx := newCommandContext()
	if catalog != nil {
		cmdCtx.sourceFactory = func(cfg *config.Config, logger *slog.Logger) (musicbrainz.Source, func() error, error) {
			return catalog, func() error { return nil }, nil
		}
	}

	root := newRootCommandWith(cmdCtx)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	full := args
	if configPath != "" {
		full = append([]string{"--config", configPath}, args...)
	}
	root.SetArgs(full)

	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("output missing %q:\n%s", want, output)
	}
}
