package musicbrainz

import (
	"strconv"
	"strings"

	"cadence/internal/meta"
)

// vaArtistMBID is the special MusicBrainz artist reserved for
// various-artists compilations.
const vaArtistMBID = "89ad4ac3-39f7-470e-963a-56509c546377"

type releaseSearchResponse struct {
	Count    int           `json:"count"`
	Releases []wireRelease `json:"releases"`
}

type recordingSearchResponse struct {
	Count      int             `json:"count"`
	Recordings []wireRecording `json:"recordings"`
}

type wireRelease struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Score          int              `json:"score"`
	Date           string           `json:"date"`
	Country        string           `json:"country"`
	Disambiguation string           `json:"disambiguation"`
	ArtistCredit   []wireCredit     `json:"artist-credit"`
	LabelInfo      []wireLabelInfo  `json:"label-info"`
	ReleaseGroup   wireReleaseGroup `json:"release-group"`
	Media          []wireMedium     `json:"media"`
}

type wireCredit struct {
	Name       string     `json:"name"`
	JoinPhrase string     `json:"joinphrase"`
	Artist     wireArtist `json:"artist"`
}

type wireArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type wireLabelInfo struct {
	CatalogNumber string `json:"catalog-number"`
	Label         struct {
		Name string `json:"name"`
	} `json:"label"`
}

type wireReleaseGroup struct {
	ID               string `json:"id"`
	FirstReleaseDate string `json:"first-release-date"`
}

type wireMedium struct {
	Position   int         `json:"position"`
	Format     string      `json:"format"`
	TrackCount int         `json:"track-count"`
	Tracks     []wireTrack `json:"tracks"`
}

type wireTrack struct {
	ID        string        `json:"id"`
	Position  int           `json:"position"`
	Title     string        `json:"title"`
	LengthMS  int           `json:"length"`
	Recording wireRecording `json:"recording"`
}

type wireRecording struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	LengthMS     int          `json:"length"`
	ArtistCredit []wireCredit `json:"artist-credit"`
}

// ReleaseStub is a search result: release header fields plus the service's
// relevance score, without a tracklist.
type ReleaseStub struct {
	ID         string
	Title      string
	Artist     string
	Year       int
	Country    string
	Label      string
	CatalogNum string
	Disambig   string
	TrackCount int
	Mediums    int
	Score      int
}

func (r wireRelease) stub() ReleaseStub {
	stub := ReleaseStub{
		ID:       r.ID,
		Title:    r.Title,
		Artist:   joinCredit(r.ArtistCredit),
		Year:     yearOf(r.Date),
		Country:  r.Country,
		Disambig: r.Disambiguation,
		Mediums:  len(r.Media),
		Score:    r.Score,
	}
	if len(r.LabelInfo) > 0 {
		stub.Label = r.LabelInfo[0].Label.Name
		stub.CatalogNum = r.LabelInfo[0].CatalogNumber
	}
	for _, m := range r.Media {
		stub.TrackCount += m.TrackCount
	}
	return stub
}

// toRelease converts a full lookup payload. Track indexes are numbered
// across the whole release in medium order; the per-medium position is kept
// alongside so both numbering schemes survive.
func (r wireRelease) toRelease() meta.Release {
	rel := meta.Release{
		ID:             r.ID,
		Title:          r.Title,
		Artist:         joinCredit(r.ArtistCredit),
		VariousArtists: isVACredit(r.ArtistCredit),
		Year:           yearOf(r.Date),
		OriginalYear:   yearOf(r.ReleaseGroup.FirstReleaseDate),
		Country:        r.Country,
		Disambig:       r.Disambiguation,
		Mediums:        len(r.Media),
	}
	if len(r.LabelInfo) > 0 {
		rel.Label = r.LabelInfo[0].Label.Name
		rel.CatalogNum = r.LabelInfo[0].CatalogNumber
	}
	index := 0
	for _, medium := range r.Media {
		for _, t := range medium.Tracks {
			index++
			track := meta.Track{
				ID:          t.Recording.ID,
				Title:       t.Title,
				Artist:      joinCredit(t.Recording.ArtistCredit),
				Index:       index,
				MediumIndex: t.Position,
				Medium:      medium.Position,
				Duration:    secondsOf(t.LengthMS),
			}
			if track.ID == "" {
				track.ID = t.ID
			}
			if track.Title == "" {
				track.Title = t.Recording.Title
			}
			if track.Duration == 0 {
				track.Duration = secondsOf(t.Recording.LengthMS)
			}
			rel.Tracks = append(rel.Tracks, track)
		}
	}
	return rel
}

func (r wireRecording) toTrack() meta.Track {
	return meta.Track{
		ID:       r.ID,
		Title:    r.Title,
		Artist:   joinCredit(r.ArtistCredit),
		Duration: secondsOf(r.LengthMS),
	}
}

func joinCredit(credits []wireCredit) string {
	var b strings.Builder
	for _, c := range credits {
		name := c.Name
		if name == "" {
			name = c.Artist.Name
		}
		b.WriteString(name)
		b.WriteString(c.JoinPhrase)
	}
	return strings.TrimSpace(b.String())
}

func isVACredit(credits []wireCredit) bool {
	for _, c := range credits {
		if c.Artist.ID == vaArtistMBID {
			return true
		}
	}
	return false
}

func yearOf(date string) int {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil || year <= 0 {
		return 0
	}
	return year
}

func secondsOf(ms int) float64 {
	if ms <= 0 {
		return 0
	}
	return float64(ms) / 1000.0
}
