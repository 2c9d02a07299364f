package meta

import "strings"

// VAAliases are artist values that signal a "various artists" release, both
// at the set level (to flag a likely compilation) and at the track level (to
// drop the artist penalty when per-track artists legitimately differ).
var VAAliases = []string{"", "various artists", "various", "va", "unknown"}

// IsVariousArtists reports whether name is one of the various-artists
// aliases after trimming and lowercasing.
func IsVariousArtists(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, alias := range VAAliases {
		if name == alias {
			return true
		}
	}
	return false
}

// LocalTrack is the metadata observed from one local audio file. Fields are
// optional: the zero value means the field was absent from the source tags.
type LocalTrack struct {
	// ID is an opaque identifier tying the track back to its source file.
	ID string

	Title       string
	Artist      string
	Album       string
	AlbumArtist string

	// Index is the declared track number within its disc, 1-based.
	Index int
	// Disc is the declared disc number, 1-based.
	Disc int
	// DiscTotal is the declared number of discs in the release.
	DiscTotal int
	// Duration is the track length in seconds.
	Duration float64

	// ReleaseID and RecordingID carry catalog identifiers already present in
	// the source tags, when any.
	ReleaseID   string
	RecordingID string

	Year        int
	Label       string
	CatalogNum  string
	Country     string
	Disambig    string
	Compilation bool
}

// HasIndex reports whether the track declares a track number.
func (t LocalTrack) HasIndex() bool { return t.Index > 0 }

// HasDuration reports whether the track declares a length.
func (t LocalTrack) HasDuration() bool { return t.Duration > 0 }

// TrackSet is one matching unit: an ordered sequence of local tracks plus
// set-level hints.
type TrackSet struct {
	Tracks []LocalTrack

	// AlbumArtist is the declared set-level album artist, if any.
	AlbumArtist string
	// Compilation indicates the set is believed to be a various-artists
	// release.
	Compilation bool
	// ExpectedTracks is the total expected track count when known (for
	// example from a disc total tag), 0 otherwise.
	ExpectedTracks int
}

// Track is one track of a candidate release as supplied by the catalog.
type Track struct {
	// ID is the stable catalog identifier for this track.
	ID string

	Title  string
	Artist string

	// Index is the position across the whole release, 1-based.
	Index int
	// MediumIndex is the position within the track's medium, 1-based.
	MediumIndex int
	// Medium is the disc number the track belongs to, 1-based.
	Medium int
	// Duration is the track length in seconds, 0 when the catalog omits it.
	Duration float64
}

// HasIndex reports whether the catalog supplied a position for the track.
func (t Track) HasIndex() bool { return t.Index > 0 }

// HasDuration reports whether the catalog supplied a length for the track.
func (t Track) HasDuration() bool { return t.Duration > 0 }

// Release is a candidate release description returned by a catalog lookup.
// Tracks preserve catalog ordering; disc boundaries are expressed through
// each track's Medium and MediumIndex.
type Release struct {
	// ID is the stable catalog identifier for the release.
	ID string

	Title  string
	Artist string
	// VariousArtists marks catalog-declared VA releases.
	VariousArtists bool

	// Year is the release year, 0 when unknown. OriginalYear is the year of
	// the earliest release of the same material, when the catalog knows it.
	Year         int
	OriginalYear int

	// Mediums is the number of discs in the release.
	Mediums int

	Country    string
	Label      string
	CatalogNum string
	Disambig   string

	Tracks []Track
}

// MediumNumbers returns the sorted distinct medium numbers present in the
// release's track list.
func (r Release) MediumNumbers() []int {
	seen := make(map[int]bool)
	var out []int
	for _, t := range r.Tracks {
		if t.Medium > 0 && !seen[t.Medium] {
			seen[t.Medium] = true
			out = append(out, t.Medium)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
