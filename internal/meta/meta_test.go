package meta

import (
	"errors"
	"testing"

	"cadence/internal/services"
)

func TestIsVariousArtists(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Various Artists", true},
		{"various", true},
		{"VA", true},
		{"", true},
		{"unknown", true},
		{"Radiohead", false},
	}
	for _, tt := range tests {
		if got := IsVariousArtists(tt.name); got != tt.want {
			t.Errorf("IsVariousArtists(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestComputeLikeliesConsensus(t *testing.T) {
	set := TrackSet{Tracks: []LocalTrack{
		{ID: "a", Artist: "Low", Album: "Double Negative", Year: 2018},
		{ID: "b", Artist: "Low", Album: "Double Negative", Year: 2018},
		{ID: "c", Artist: "Low", Album: "Double Negative", Year: 2018},
	}}
	l := ComputeLikelies(set)
	if l.Artist != "Low" || l.Album != "Double Negative" || l.Year != 2018 {
		t.Errorf("unexpected likelies: %+v", l)
	}
	if !l.ArtistConsensus {
		t.Error("expected artist consensus")
	}
	if l.VALikely {
		t.Error("unanimous artist should not look like VA")
	}
}

func TestComputeLikeliesPlurality(t *testing.T) {
	set := TrackSet{Tracks: []LocalTrack{
		{ID: "a", Album: "OK Computer"},
		{ID: "b", Album: "OK Computer"},
		{ID: "c", Album: "OK Computer OKNOTOK"},
	}}
	l := ComputeLikelies(set)
	if l.Album != "OK Computer" {
		t.Errorf("Album = %q, want plurality winner", l.Album)
	}
}

func TestComputeLikeliesAlbumArtistWins(t *testing.T) {
	set := TrackSet{Tracks: []LocalTrack{
		{ID: "a", Artist: "David Byrne", AlbumArtist: "Talking Heads"},
		{ID: "b", Artist: "Talking Heads", AlbumArtist: "Talking Heads"},
	}}
	l := ComputeLikelies(set)
	if l.Artist != "Talking Heads" {
		t.Errorf("Artist = %q, want album artist consensus to win", l.Artist)
	}
	if !l.VALikely {
		t.Error("disagreeing track artists should flag VA-likely")
	}
}

func TestComputeLikeliesCompilationHint(t *testing.T) {
	set := TrackSet{
		Compilation: true,
		Tracks:      []LocalTrack{{ID: "a", Artist: "Someone"}},
	}
	if l := ComputeLikelies(set); !l.VALikely {
		t.Error("compilation hint should flag VA-likely")
	}
}

func TestComputeLikeliesEmpty(t *testing.T) {
	l := ComputeLikelies(TrackSet{})
	if l.Artist != "" || l.VALikely {
		t.Errorf("unexpected likelies for empty set: %+v", l)
	}
}

func TestValidateTrackSet(t *testing.T) {
	valid := TrackSet{Tracks: []LocalTrack{{ID: "a", Duration: 240}}}

	tests := []struct {
		name    string
		set     TrackSet
		wantErr bool
	}{
		{"valid", valid, false},
		{"empty", TrackSet{}, true},
		{"duplicate ids", TrackSet{Tracks: []LocalTrack{{ID: "a"}, {ID: "a"}}}, true},
		{"missing id", TrackSet{Tracks: []LocalTrack{{}}}, true},
		{"negative duration", TrackSet{Tracks: []LocalTrack{{ID: "a", Duration: -1}}}, true},
		{"negative index", TrackSet{Tracks: []LocalTrack{{ID: "a", Index: -2}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTrackSet(tt.set)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateTrackSet() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, services.ErrInput) {
				t.Errorf("expected input error marker, got %v", err)
			}
		})
	}
}

func TestValidateRelease(t *testing.T) {
	valid := Release{ID: "rel", Tracks: []Track{{ID: "t1", Index: 1}}}

	tests := []struct {
		name    string
		rel     Release
		wantErr bool
	}{
		{"valid", valid, false},
		{"missing release id", Release{}, true},
		{"duplicate track ids", Release{ID: "rel", Tracks: []Track{{ID: "x"}, {ID: "x"}}}, true},
		{"negative duration", Release{ID: "rel", Tracks: []Track{{ID: "x", Duration: -4}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRelease(tt.rel)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateRelease() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMediumNumbers(t *testing.T) {
	r := Release{Tracks: []Track{
		{ID: "a", Medium: 2},
		{ID: "b", Medium: 1},
		{ID: "c", Medium: 2},
	}}
	got := r.MediumNumbers()
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("MediumNumbers() = %v, want [1 2]", got)
	}
}
