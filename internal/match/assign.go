package match

import (
	"math"
	"sort"

	"cadence/internal/meta"
)

// Pair maps one local track to one candidate track, by index into the track
// set and the release track list, with the scored pair distance.
type Pair struct {
	Local     int
	Candidate int
	Dist      *Distance
}

// Assignment is the result of aligning a track set against one candidate
// release: the matched pairs plus the indices left unmatched on either side.
// The mapping is injective in both directions by construction.
type Assignment struct {
	Pairs []Pair
	// UnmatchedLocal holds local track indices with no counterpart, ordered
	// by (disc, index, title) for stable presentation.
	UnmatchedLocal []int
	// UnmatchedCandidate holds candidate track indices with no counterpart,
	// ordered by (index, title).
	UnmatchedCandidate []int
}

// UnmatchedCount returns the number of tracks left unmatched on both sides.
func (a Assignment) UnmatchedCount() int {
	return len(a.UnmatchedLocal) + len(a.UnmatchedCandidate)
}

// matchedCost is the alignment cost used to compare alternative assignments:
// the matched pair distances plus the fixed penalties for unmatched tracks.
func (a Assignment) matchedCost(cfg *Config) float64 {
	var cost float64
	for _, p := range a.Pairs {
		cost += p.Dist.Total()
	}
	cost += float64(len(a.UnmatchedLocal)) * cfg.MissingTrackPenalty
	cost += float64(len(a.UnmatchedCandidate)) * cfg.ExtraTrackPenalty
	return cost
}

// Aligner solves the minimum-cost assignment between local and candidate
// tracks. When both sides expose multiple mediums it first tries a
// per-medium assignment and keeps whichever of the per-medium and flat
// results costs less.
type Aligner struct {
	calc *Calculator
	cfg  *Config
}

// NewAligner builds an aligner over the calculator's configuration.
func NewAligner(calc *Calculator) *Aligner {
	return &Aligner{calc: calc, cfg: &calc.cfg}
}

// Align computes the optimal assignment. inclArtist is forwarded to the
// per-pair track distance (set for various-artists releases).
func (a *Aligner) Align(set meta.TrackSet, release meta.Release, inclArtist bool) Assignment {
	n := len(set.Tracks)
	m := len(release.Tracks)
	if n == 0 || m == 0 {
		return a.allUnmatched(set, release)
	}

	// Score every pair once; both solve strategies share the matrix.
	dists := make([][]*Distance, n)
	costs := make([][]float64, n)
	for i := range set.Tracks {
		dists[i] = make([]*Distance, m)
		costs[i] = make([]float64, m)
		for j := range release.Tracks {
			d := a.calc.TrackDistance(set.Tracks[i], release.Tracks[j], inclArtist)
			dists[i][j] = d
			costs[i][j] = d.Total() + a.tieBreak(set.Tracks[i], i, release.Tracks[j])
		}
	}

	flat := a.solve(allIndices(n), allIndices(m), costs, dists, set, release)
	if byMedium, ok := a.alignByMedium(set, release, costs, dists); ok {
		if byMedium.matchedCost(a.cfg) < flat.matchedCost(a.cfg) {
			return byMedium
		}
	}
	return flat
}

// tieBreak adds a sub-field-resolution cost favoring pairs whose declared
// positions are close, so tied-cost assignments resolve the same way
// regardless of input ordering.
func (a *Aligner) tieBreak(local meta.LocalTrack, localPos int, candidate meta.Track) float64 {
	li := local.Index
	if li == 0 {
		li = localPos + 1
	}
	ci := candidate.Index
	if ci == 0 {
		ci = candidate.MediumIndex
	}
	gap := li - ci
	if gap < 0 {
		gap = -gap
	}
	return a.cfg.IndexTieBreak * float64(gap)
}

// alignByMedium matches tracks only within the same disc. It applies when
// both sides declare at least two mediums and the disc numbers correspond;
// otherwise it reports false and the flat result stands.
func (a *Aligner) alignByMedium(set meta.TrackSet, release meta.Release, costs [][]float64, dists [][]*Distance) (Assignment, bool) {
	localByDisc := make(map[int][]int)
	for i, t := range set.Tracks {
		localByDisc[t.Disc] = append(localByDisc[t.Disc], i)
	}
	if len(localByDisc) < 2 || len(localByDisc[0]) > 0 {
		return Assignment{}, false
	}
	mediums := release.MediumNumbers()
	if len(mediums) < 2 {
		return Assignment{}, false
	}
	candByMedium := make(map[int][]int)
	for j, t := range release.Tracks {
		candByMedium[t.Medium] = append(candByMedium[t.Medium], j)
	}
	if len(localByDisc) != len(candByMedium) {
		return Assignment{}, false
	}
	for disc := range localByDisc {
		if len(candByMedium[disc]) == 0 {
			return Assignment{}, false
		}
	}

	discs := make([]int, 0, len(localByDisc))
	for disc := range localByDisc {
		discs = append(discs, disc)
	}
	sort.Ints(discs)

	var combined Assignment
	for _, disc := range discs {
		part := a.solve(localByDisc[disc], candByMedium[disc], costs, dists, set, release)
		combined.Pairs = append(combined.Pairs, part.Pairs...)
		combined.UnmatchedLocal = append(combined.UnmatchedLocal, part.UnmatchedLocal...)
		combined.UnmatchedCandidate = append(combined.UnmatchedCandidate, part.UnmatchedCandidate...)
	}
	a.orderUnmatched(&combined, set, release)
	return combined, true
}

// padCost fills the square matrix slots that represent "leave this track
// unmatched". It exceeds any real pair cost so padding is only chosen when
// the track counts force it.
const padCost = 2.0

// solve runs the assignment for a subset of rows and columns.
func (a *Aligner) solve(localIdx, candIdx []int, costs [][]float64, dists [][]*Distance, set meta.TrackSet, release meta.Release) Assignment {
	n := len(localIdx)
	m := len(candIdx)
	size := max(n, m)

	square := make([][]float64, size)
	for i := range square {
		square[i] = make([]float64, size)
		for j := range square[i] {
			square[i][j] = padCost
		}
	}
	for i, li := range localIdx {
		for j, cj := range candIdx {
			square[i][j] = costs[li][cj]
		}
	}

	rowToCol := hungarian(square)

	var asn Assignment
	matchedLocal := make(map[int]bool, n)
	matchedCand := make(map[int]bool, m)
	for i, j := range rowToCol {
		if i >= n || j < 0 || j >= m {
			continue
		}
		li, cj := localIdx[i], candIdx[j]
		asn.Pairs = append(asn.Pairs, Pair{Local: li, Candidate: cj, Dist: dists[li][cj]})
		matchedLocal[li] = true
		matchedCand[cj] = true
	}
	for _, li := range localIdx {
		if !matchedLocal[li] {
			asn.UnmatchedLocal = append(asn.UnmatchedLocal, li)
		}
	}
	for _, cj := range candIdx {
		if !matchedCand[cj] {
			asn.UnmatchedCandidate = append(asn.UnmatchedCandidate, cj)
		}
	}
	sort.Slice(asn.Pairs, func(x, y int) bool { return asn.Pairs[x].Local < asn.Pairs[y].Local })
	a.orderUnmatched(&asn, set, release)
	return asn
}

func (a *Aligner) orderUnmatched(asn *Assignment, set meta.TrackSet, release meta.Release) {
	sort.Slice(asn.UnmatchedLocal, func(x, y int) bool {
		tx, ty := set.Tracks[asn.UnmatchedLocal[x]], set.Tracks[asn.UnmatchedLocal[y]]
		if tx.Disc != ty.Disc {
			return tx.Disc < ty.Disc
		}
		if tx.Index != ty.Index {
			return tx.Index < ty.Index
		}
		return tx.Title < ty.Title
	})
	sort.Slice(asn.UnmatchedCandidate, func(x, y int) bool {
		tx, ty := release.Tracks[asn.UnmatchedCandidate[x]], release.Tracks[asn.UnmatchedCandidate[y]]
		if tx.Index != ty.Index {
			return tx.Index < ty.Index
		}
		return tx.Title < ty.Title
	})
}

func (a *Aligner) allUnmatched(set meta.TrackSet, release meta.Release) Assignment {
	var asn Assignment
	asn.UnmatchedLocal = allIndices(len(set.Tracks))
	asn.UnmatchedCandidate = allIndices(len(release.Tracks))
	a.orderUnmatched(&asn, set, release)
	return asn
}

func allIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// hungarian solves the assignment problem for a square cost matrix
// (minimization) in O(n^3). Returns rowToCol[i] = column assigned to row i,
// or -1 when unassigned.
func hungarian(cost [][]float64) []int {
	n := len(cost)
	if n == 0 {
		return nil
	}

	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1)
	way := make([]int, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, n+1)
		used := make([]bool, n+1)
		for j := 0; j <= n; j++ {
			minv[j] = math.Inf(1)
		}
		for {
			used[j0] = true
			i0 := p[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		for {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
			if j0 == 0 {
				break
			}
		}
	}

	rowToCol := make([]int, n)
	for i := range rowToCol {
		rowToCol[i] = -1
	}
	for j := 1; j <= n; j++ {
		if p[j] > 0 {
			rowToCol[p[j]-1] = j - 1
		}
	}
	return rowToCol
}
