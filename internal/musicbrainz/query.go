package musicbrainz

import (
	"fmt"
	"strings"
)

// ReleaseQuery describes a release search. Empty fields are omitted from the
// generated query.
type ReleaseQuery struct {
	Artist  string
	Release string
	// Tracks, when positive, constrains the total track count.
	Tracks int
	// VariousArtists searches the reserved various-artists credit instead
	// of a named artist.
	VariousArtists bool
}

func (q ReleaseQuery) lucene() string {
	var terms []string
	if q.VariousArtists {
		terms = append(terms, "arid:"+vaArtistMBID)
	} else if artist := strings.TrimSpace(q.Artist); artist != "" {
		terms = append(terms, "artist:"+quoteLucene(artist))
	}
	if release := strings.TrimSpace(q.Release); release != "" {
		terms = append(terms, "release:"+quoteLucene(release))
	}
	if q.Tracks > 0 {
		terms = append(terms, fmt.Sprintf("tracks:%d", q.Tracks))
	}
	return strings.Join(terms, " AND ")
}

// CacheKey is a stable identifier for the query, suitable for keying cached
// search results.
func (q ReleaseQuery) CacheKey() string {
	return q.lucene()
}

// RecordingQuery describes a recording search for singleton tracks.
type RecordingQuery struct {
	Artist string
	Title  string
}

func (q RecordingQuery) lucene() string {
	var terms []string
	if title := strings.TrimSpace(q.Title); title != "" {
		terms = append(terms, "recording:"+quoteLucene(title))
	}
	if artist := strings.TrimSpace(q.Artist); artist != "" {
		terms = append(terms, "artist:"+quoteLucene(artist))
	}
	return strings.Join(terms, " AND ")
}

// CacheKey is a stable identifier for the query, suitable for keying cached
// search results.
func (q RecordingQuery) CacheKey() string {
	return q.lucene()
}

// quoteLucene wraps a value as a quoted Lucene phrase, escaping the quote
// and backslash characters that would terminate or alter it.
func quoteLucene(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `"`, `\"`)
	return `"` + value + `"`
}
