package main

import (
	"encoding/json"
	"testing"

	"cadence/internal/meta"
)

func dogsCatalog() *fakeCatalog {
	return &fakeCatalog{
		tracks: []meta.Track{
			{ID: "t-dogs", Title: "Dogs", Artist: "Pink Floyd", Duration: 1030},
			{ID: "t-dogs-live", Title: "Dogs (Live)", Artist: "Pink Floyd", Duration: 1102},
		},
		recordings: map[string]meta.Track{
			"t-dogs": {ID: "t-dogs", Title: "Dogs", Artist: "Pink Floyd", Duration: 1030},
		},
	}
}

func TestMatchTrackCommand(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestConfig(t, dir)

	out, err := runCLI(t, []string{
		"match-track", "--artist", "Pink Floyd", "--title", "Dogs", "--duration", "1030",
	}, configPath, dogsCatalog())
	if err != nil {
		t.Fatalf("match-track: %v", err)
	}

	requireContains(t, out, "Matching Pink Floyd - Dogs")
	requireContains(t, out, "Decision: strong (apply)")
	requireContains(t, out, "Winner: Pink Floyd - Dogs [t-dogs]")
}

func TestMatchTrackCommandJSON(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestConfig(t, dir)

	out, err := runCLI(t, []string{
		"match-track", "--artist", "Pink Floyd", "--title", "Dogs", "--duration", "1030", "--json",
	}, configPath, dogsCatalog())
	if err != nil {
		t.Fatalf("match-track --json: %v", err)
	}

	var payload trackResultJSON
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if payload.Winner == nil || payload.Winner.RecordingID != "t-dogs" {
		t.Fatalf("unexpected winner %+v", payload.Winner)
	}
	if len(payload.Candidates) != 2 {
		t.Fatalf("expected both candidates ranked, got %d", len(payload.Candidates))
	}
}

func TestMatchTrackCommandRequiresMetadata(t *testing.T) {
	dir := t.TempDir()
	configPath := writeTestConfig(t, dir)

	if _, err := runCLI(t, []string{"match-track"}, configPath, dogsCatalog()); err == nil {
		t.Fatal("expected error without any metadata")
	}
}
