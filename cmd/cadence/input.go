package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"cadence/internal/meta"
)

// trackSetFile is the on-disk JSON form of a track set, as produced by a
// tagger or ripper frontend. Every track field is optional; absent fields
// stay at their zero value. Tracks without an id get a positional one so
// results can still point back at a specific input track.
type trackSetFile struct {
	AlbumArtist    string          `json:"album_artist,omitempty"`
	Compilation    bool            `json:"compilation,omitempty"`
	ExpectedTracks int             `json:"expected_tracks,omitempty"`
	Tracks         []trackFileItem `json:"tracks"`
}

type trackFileItem struct {
	ID          string  `json:"id,omitempty"`
	Title       string  `json:"title,omitempty"`
	Artist      string  `json:"artist,omitempty"`
	Album       string  `json:"album,omitempty"`
	AlbumArtist string  `json:"album_artist,omitempty"`
	Index       int     `json:"index,omitempty"`
	Disc        int     `json:"disc,omitempty"`
	DiscTotal   int     `json:"disc_total,omitempty"`
	Duration    float64 `json:"duration,omitempty"`
	ReleaseID   string  `json:"release_id,omitempty"`
	RecordingID string  `json:"recording_id,omitempty"`
	Year        int     `json:"year,omitempty"`
	Label       string  `json:"label,omitempty"`
	CatalogNum  string  `json:"catalog_num,omitempty"`
	Country     string  `json:"country,omitempty"`
	Disambig    string  `json:"disambig,omitempty"`
	Compilation bool    `json:"compilation,omitempty"`
}

// loadTrackSet reads a track set description from path, or from stdin when
// path is "-".
func loadTrackSet(path string) (meta.TrackSet, error) {
	var reader io.Reader
	if path == "-" {
		reader = os.Stdin
	} else {
		file, err := os.Open(path)
		if err != nil {
			return meta.TrackSet{}, fmt.Errorf("open track set: %w", err)
		}
		defer file.Close()
		reader = file
	}
	return decodeTrackSet(reader)
}

func decodeTrackSet(r io.Reader) (meta.TrackSet, error) {
	var file trackSetFile
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&file); err != nil {
		return meta.TrackSet{}, fmt.Errorf("parse track set: %w", err)
	}

	set := meta.TrackSet{
		AlbumArtist:    file.AlbumArtist,
		Compilation:    file.Compilation,
		ExpectedTracks: file.ExpectedTracks,
		Tracks:         make([]meta.LocalTrack, 0, len(file.Tracks)),
	}
	for i, item := range file.Tracks {
		id := item.ID
		if id == "" {
			id = fmt.Sprintf("track-%d", i+1)
		}
		set.Tracks = append(set.Tracks, meta.LocalTrack{
			ID:          id,
			Title:       item.Title,
			Artist:      item.Artist,
			Album:       item.Album,
			AlbumArtist: item.AlbumArtist,
			Index:       item.Index,
			Disc:        item.Disc,
			DiscTotal:   item.DiscTotal,
			Duration:    item.Duration,
			ReleaseID:   item.ReleaseID,
			RecordingID: item.RecordingID,
			Year:        item.Year,
			Label:       item.Label,
			CatalogNum:  item.CatalogNum,
			Country:     item.Country,
			Disambig:    item.Disambig,
			Compilation: item.Compilation,
		})
	}
	return set, nil
}
