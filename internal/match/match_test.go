package match

import (
	"errors"
	"testing"

	"cadence/internal/meta"
	"cadence/internal/services"
)

func animalsSet() meta.TrackSet {
	return meta.TrackSet{Tracks: []meta.LocalTrack{
		{ID: "f1", Title: "Pigs on the Wing 1", Artist: "Pink Floyd", Album: "Animals", Index: 1, Duration: 85, Year: 1977},
		{ID: "f2", Title: "Dogs", Artist: "Pink Floyd", Album: "Animals", Index: 2, Duration: 1024, Year: 1977},
		{ID: "f3", Title: "Sheep", Artist: "Pink Floyd", Album: "Animals", Index: 3, Duration: 625, Year: 1977},
	}}
}

func animalsRelease(id string) meta.Release {
	return meta.Release{
		ID:     id,
		Title:  "Animals",
		Artist: "Pink Floyd",
		Year:   1977,
		Tracks: []meta.Track{
			{ID: id + "-t1", Title: "Pigs on the Wing 1", Index: 1, Duration: 85},
			{ID: id + "-t2", Title: "Dogs", Index: 2, Duration: 1024},
			{ID: id + "-t3", Title: "Sheep", Index: 3, Duration: 625},
		},
	}
}

func unrelatedRelease() meta.Release {
	return meta.Release{
		ID:     "rel-other",
		Title:  "Rumours",
		Artist: "Fleetwood Mac",
		Year:   1977,
		Tracks: []meta.Track{
			{ID: "o1", Title: "Second Hand News", Index: 1, Duration: 163},
			{ID: "o2", Title: "Dreams", Index: 2, Duration: 257},
			{ID: "o3", Title: "Never Going Back Again", Index: 3, Duration: 134},
		},
	}
}

func newTestMatcher(t *testing.T) *Matcher {
	t.Helper()
	m, err := NewMatcher(DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	return m
}

func TestNewMatcherRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights = nil
	_, err := NewMatcher(cfg, nil)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Errorf("err = %v, want ErrConfiguration", err)
	}
}

func TestMatchReleaseStrong(t *testing.T) {
	m := newTestMatcher(t)

	result, err := m.MatchRelease(animalsSet(), []meta.Release{unrelatedRelease(), animalsRelease("rel-1")})
	if err != nil {
		t.Fatalf("MatchRelease: %v", err)
	}
	if result.State != StateStrong || result.Action != ActionApply {
		t.Fatalf("state = %v action = %v, want strong/apply", result.State, result.Action)
	}
	if result.Winner == nil || result.Winner.Release.ID != "rel-1" {
		t.Fatalf("winner = %+v, want rel-1", result.Winner)
	}
	if result.Winner.Total() != 0 {
		t.Errorf("winner total = %v, want 0", result.Winner.Total())
	}
	if len(result.Candidates) != 2 {
		t.Errorf("candidates = %d, want 2", len(result.Candidates))
	}
	if result.AttemptID == "" {
		t.Error("attempt id not assigned")
	}
}

func TestMatchReleaseAmbiguousOnTie(t *testing.T) {
	m := newTestMatcher(t)

	result, err := m.MatchRelease(animalsSet(), []meta.Release{animalsRelease("rel-1"), animalsRelease("rel-2")})
	if err != nil {
		t.Fatalf("MatchRelease: %v", err)
	}
	if result.State != StateAmbiguous || result.Action != ActionReview {
		t.Fatalf("state = %v action = %v, want ambiguous/review", result.State, result.Action)
	}
	if result.Winner != nil {
		t.Errorf("winner = %+v, want nil for ambiguous result", result.Winner)
	}
	// Ties rank by release ID so the order is reproducible.
	if result.Candidates[0].Release.ID != "rel-1" {
		t.Errorf("best candidate = %s, want rel-1", result.Candidates[0].Release.ID)
	}
}

func TestMatchReleaseRejected(t *testing.T) {
	m := newTestMatcher(t)

	result, err := m.MatchRelease(animalsSet(), []meta.Release{unrelatedRelease()})
	if err != nil {
		t.Fatalf("MatchRelease: %v", err)
	}
	if result.State != StateRejected || result.Action != ActionNoMatch {
		t.Fatalf("state = %v action = %v, want rejected/no_match", result.State, result.Action)
	}
	if len(result.Candidates) != 1 {
		t.Errorf("candidates = %d, rejected results keep the ranked list", len(result.Candidates))
	}
}

func TestMatchReleaseNoCandidates(t *testing.T) {
	m := newTestMatcher(t)

	result, err := m.MatchRelease(animalsSet(), nil)
	if err != nil {
		t.Fatalf("MatchRelease: %v", err)
	}
	if result.State != StateNoCandidates || result.Action != ActionNoMatch {
		t.Fatalf("state = %v action = %v, want no_candidates/no_match", result.State, result.Action)
	}
}

func TestMatchReleaseFiltersCandidates(t *testing.T) {
	m := newTestMatcher(t)

	dup := animalsRelease("rel-1")
	empty := meta.Release{ID: "rel-empty", Title: "Animals", Artist: "Pink Floyd"}
	result, err := m.MatchRelease(animalsSet(), []meta.Release{animalsRelease("rel-1"), dup, empty})
	if err != nil {
		t.Fatalf("MatchRelease: %v", err)
	}
	if len(result.Candidates) != 1 {
		t.Fatalf("candidates = %d, want duplicates and trackless releases dropped", len(result.Candidates))
	}
	if result.State != StateStrong {
		t.Errorf("state = %v, want strong with the duplicate removed", result.State)
	}
}

func TestMatchReleaseValidatesInput(t *testing.T) {
	m := newTestMatcher(t)

	_, err := m.MatchRelease(meta.TrackSet{}, []meta.Release{animalsRelease("rel-1")})
	if !errors.Is(err, services.ErrInput) {
		t.Errorf("empty set err = %v, want ErrInput", err)
	}

	bad := animalsRelease("rel-1")
	bad.Tracks[0].Duration = -3
	_, err = m.MatchRelease(animalsSet(), []meta.Release{bad})
	if !errors.Is(err, services.ErrInput) {
		t.Errorf("bad candidate err = %v, want ErrInput", err)
	}
}

func TestMatchTrack(t *testing.T) {
	m := newTestMatcher(t)

	local := meta.LocalTrack{Title: "Dogs", Artist: "Pink Floyd", Index: 2, Duration: 1024}
	candidates := []meta.Track{
		{ID: "t-dogs", Title: "Dogs", Artist: "Pink Floyd", Index: 2, Duration: 1024},
		{ID: "t-sheep", Title: "Sheep", Artist: "Pink Floyd", Index: 3, Duration: 625},
	}

	result, err := m.MatchTrack(local, candidates)
	if err != nil {
		t.Fatalf("MatchTrack: %v", err)
	}
	if result.State != StateStrong {
		t.Fatalf("state = %v, want strong", result.State)
	}
	if result.Winner == nil || result.Winner.Track.ID != "t-dogs" {
		t.Fatalf("winner = %+v, want t-dogs", result.Winner)
	}
}

func TestMatchTrackRequiresMetadata(t *testing.T) {
	m := newTestMatcher(t)

	_, err := m.MatchTrack(meta.LocalTrack{ID: "f1"}, []meta.Track{{ID: "t1", Title: "Dogs"}})
	if !errors.Is(err, services.ErrInput) {
		t.Errorf("err = %v, want ErrInput", err)
	}
}

func TestMatchReleaseOrderIndependent(t *testing.T) {
	m := newTestMatcher(t)

	set := animalsSet()
	candidates := []meta.Release{animalsRelease("rel-1"), unrelatedRelease(), animalsRelease("rel-2")}
	reversed := []meta.Release{animalsRelease("rel-2"), unrelatedRelease(), animalsRelease("rel-1")}

	a, err := m.MatchRelease(set, candidates)
	if err != nil {
		t.Fatalf("MatchRelease: %v", err)
	}
	b, err := m.MatchRelease(set, reversed)
	if err != nil {
		t.Fatalf("MatchRelease: %v", err)
	}
	if len(a.Candidates) != len(b.Candidates) {
		t.Fatalf("candidate counts differ: %d vs %d", len(a.Candidates), len(b.Candidates))
	}
	for i := range a.Candidates {
		if a.Candidates[i].Release.ID != b.Candidates[i].Release.ID {
			t.Errorf("rank %d differs across input orders: %s vs %s",
				i, a.Candidates[i].Release.ID, b.Candidates[i].Release.ID)
		}
	}
	if a.State != b.State {
		t.Errorf("state differs across input orders: %v vs %v", a.State, b.State)
	}
}
