package match

import (
	"sort"

	"cadence/internal/meta"
)

// CandidateMatch is one scored release candidate: the release, the track
// alignment against it, and the aggregate distance.
type CandidateMatch struct {
	Release    meta.Release
	Assignment Assignment
	Dist       *Distance
}

// Total returns the aggregate distance for the candidate.
func (m CandidateMatch) Total() float64 {
	return m.Dist.Total()
}

// TrackMatch is one scored candidate for a singleton track lookup.
type TrackMatch struct {
	Track meta.Track
	Dist  *Distance
}

// Total returns the aggregate distance for the candidate.
func (m TrackMatch) Total() float64 {
	return m.Dist.Total()
}

// rankReleases orders candidates best-first. Ties on total distance break
// by fewer unmatched tracks, then by release ID, so the order is stable
// across runs and input permutations.
func rankReleases(matches []CandidateMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		ti, tj := matches[i].Total(), matches[j].Total()
		if ti != tj {
			return ti < tj
		}
		ui, uj := matches[i].Assignment.UnmatchedCount(), matches[j].Assignment.UnmatchedCount()
		if ui != uj {
			return ui < uj
		}
		return matches[i].Release.ID < matches[j].Release.ID
	})
}

// rankTracks orders singleton candidates best-first, breaking ties by
// track ID.
func rankTracks(matches []TrackMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		ti, tj := matches[i].Dist.Total(), matches[j].Dist.Total()
		if ti != tj {
			return ti < tj
		}
		return matches[i].Track.ID < matches[j].Track.ID
	})
}
