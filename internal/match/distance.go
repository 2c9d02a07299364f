package match

import (
	"strings"
	"time"

	"cadence/internal/meta"
	"cadence/internal/textutil"
)

// FieldDistance is one named component of an aggregate distance, retained
// for explainability: 0 means identical, 1 maximally dissimilar.
type FieldDistance struct {
	Field   string
	Penalty float64
}

// Distance accumulates named field penalties and aggregates them as a
// weighted mean: sum(weight*penalty) / sum(weight) over the fields actually
// scored. Fields absent on both sides are simply never added, so they do not
// drag the aggregate toward zero.
type Distance struct {
	cfg        *Config
	components []FieldDistance
}

func newDistance(cfg *Config) *Distance {
	return &Distance{cfg: cfg}
}

// Add records one component penalty, clamped to [0,1]. Components whose
// configured weight is 0 are still recorded for explainability but do not
// affect the aggregate.
func (d *Distance) Add(field string, penalty float64) {
	d.components = append(d.components, FieldDistance{Field: field, Penalty: clamp01(penalty)})
}

// addBool records a 0-or-1 component.
func (d *Distance) addBool(field string, mismatch bool) {
	if mismatch {
		d.Add(field, 1)
	} else {
		d.Add(field, 0)
	}
}

// Total returns the weighted aggregate in [0,1]. An empty distance is 0.
func (d *Distance) Total() float64 {
	var num, den float64
	for _, c := range d.components {
		w := d.cfg.weight(c.Field)
		num += w * c.Penalty
		den += w
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// Components returns the recorded components in insertion order.
func (d *Distance) Components() []FieldDistance {
	out := make([]FieldDistance, len(d.components))
	copy(out, d.components)
	return out
}

// PenaltyFor sums the recorded penalties for one field name.
func (d *Distance) PenaltyFor(field string) float64 {
	var sum float64
	for _, c := range d.components {
		if c.Field == field {
			sum += c.Penalty
		}
	}
	return sum
}

// Calculator scores track pairs and release headers using the configured
// comparator registry and weight table. Pure computation; safe for
// concurrent use.
type Calculator struct {
	cfg      Config
	registry *Registry
	str      StringComparator
	dur      DurationComparator
	set      SetComparator
	eq       EqualityComparator
}

// NewCalculator builds a calculator and its comparator registry from the
// configuration. The configuration must already be validated.
func NewCalculator(cfg Config) *Calculator {
	c := &Calculator{
		cfg: cfg,
		str: NewStringComparator(cfg.EditionMarkers, cfg.UnknownPenalty),
		dur: NewDurationComparator(cfg.DurationGrace, cfg.DurationMax, cfg.UnknownPenalty),
		set: NewSetComparator(cfg.UnknownPenalty),
		eq:  NewEqualityComparator(cfg.UnknownPenalty),
	}
	reg := NewRegistry()
	for _, f := range []string{FieldAlbum, FieldArtist, FieldCountry, FieldLabel, FieldCatalogNum, FieldDisambig, FieldTrackTitle, FieldTrackArtist} {
		reg.Register(f, c.str)
	}
	reg.Register(FieldTrackLength, c.dur)
	reg.Register(FieldReleaseID, c.eq)
	reg.Register(FieldTrackID, c.eq)
	c.registry = reg
	return c
}

// Registry exposes the comparator registry, letting callers rebind a field's
// comparator before matching begins.
func (c *Calculator) Registry() *Registry { return c.registry }

func (c *Calculator) compare(field string, local, candidate Field) float64 {
	if cmp, ok := c.registry.Lookup(field); ok {
		return cmp.Distance(local, candidate)
	}
	return c.str.Distance(local, candidate)
}

// TrackDistance scores one (local track, candidate track) pair. inclArtist
// includes the per-track artist component; it is set for various-artists
// releases where per-track artists are meaningful, and dropped otherwise
// since differing track artists on a VA release are legitimate.
func (c *Calculator) TrackDistance(local meta.LocalTrack, candidate meta.Track, inclArtist bool) *Distance {
	dist := newDistance(&c.cfg)

	if local.HasDuration() || candidate.HasDuration() {
		dist.Add(FieldTrackLength, c.compare(FieldTrackLength,
			NumberField(local.Duration), NumberField(candidate.Duration)))
	}

	dist.Add(FieldTrackTitle, c.compare(FieldTrackTitle,
		StringField(local.Title), StringField(candidate.Title)))

	if inclArtist && candidate.Artist != "" && !meta.IsVariousArtists(local.Artist) {
		// Artist credits are multi-valued; score the better of the string
		// and set views so "A & B" vs "B, A" is not punished.
		strDist := c.compare(FieldTrackArtist, StringField(local.Artist), StringField(candidate.Artist))
		setDist := c.set.Distance(SetField(splitCredits(local.Artist)), SetField(splitCredits(candidate.Artist)))
		dist.Add(FieldTrackArtist, min(strDist, setDist))
	}

	if local.HasIndex() && candidate.HasIndex() {
		dist.addBool(FieldTrackIndex, trackIndexChanged(local, candidate))
	}

	if local.RecordingID != "" {
		dist.addBool(FieldTrackID, local.RecordingID != candidate.ID)
	}

	if local.Disc > 0 && candidate.Medium > 0 {
		dist.addBool(FieldMedium, local.Disc != candidate.Medium)
	}

	return dist
}

// trackIndexChanged tolerates both per-disc and per-release numbering: the
// local track number only counts as changed when it matches neither the
// candidate's release position nor its medium position.
func trackIndexChanged(local meta.LocalTrack, candidate meta.Track) bool {
	return local.Index != candidate.Index && local.Index != candidate.MediumIndex
}

// ReleaseDistance scores the release header fields and folds in the track
// alignment: each matched pair contributes its track distance, and each
// unmatched track on either side contributes its fixed penalty.
func (c *Calculator) ReleaseDistance(set meta.TrackSet, likelies meta.Likelies, release meta.Release, asn Assignment) *Distance {
	dist := newDistance(&c.cfg)

	if !release.VariousArtists {
		dist.Add(FieldArtist, c.compare(FieldArtist,
			StringField(likelies.Artist), StringField(release.Artist)))
	}

	dist.Add(FieldAlbum, c.compare(FieldAlbum,
		StringField(likelies.Album), StringField(release.Title)))

	if likelies.DiscTotal > 0 && release.Mediums > 0 {
		diff := likelies.DiscTotal - release.Mediums
		if diff < 0 {
			diff = -diff
		}
		dist.Add(FieldMediums, float64(diff)/float64(max(likelies.DiscTotal, release.Mediums)))
	}

	if n, m := len(set.Tracks), len(release.Tracks); n != m {
		diff := n - m
		if diff < 0 {
			diff = -diff
		}
		dist.Add(FieldTrackCount, float64(diff)/float64(max(n, m)))
	} else {
		dist.Add(FieldTrackCount, 0)
	}

	c.addYear(dist, likelies, release)

	if likelies.Country != "" && release.Country != "" {
		dist.Add(FieldCountry, c.compare(FieldCountry,
			StringField(likelies.Country), StringField(release.Country)))
	}
	if likelies.Label != "" && release.Label != "" {
		dist.Add(FieldLabel, c.compare(FieldLabel,
			StringField(likelies.Label), StringField(release.Label)))
	}
	if likelies.CatalogNum != "" && release.CatalogNum != "" {
		dist.Add(FieldCatalogNum, c.compare(FieldCatalogNum,
			StringField(likelies.CatalogNum), StringField(release.CatalogNum)))
	}
	if likelies.Disambig != "" && release.Disambig != "" {
		dist.Add(FieldDisambig, c.compare(FieldDisambig,
			StringField(likelies.Disambig), StringField(release.Disambig)))
	}
	if likelies.ReleaseID != "" {
		dist.Add(FieldReleaseID, c.compare(FieldReleaseID,
			StringField(likelies.ReleaseID), StringField(release.ID)))
	}

	for _, pair := range asn.Pairs {
		dist.Add(FieldTracks, pair.Dist.Total())
	}
	for range asn.UnmatchedLocal {
		dist.Add(FieldMissingTracks, c.cfg.MissingTrackPenalty)
	}
	for range asn.UnmatchedCandidate {
		dist.Add(FieldExtraTracks, c.cfg.ExtraTrackPenalty)
	}

	return dist
}

// addYear scores date plausibility. Matching either the release year or the
// original year is free; otherwise the penalty scales with how far the local
// year sits from the release year relative to the original year's era, and
// a mismatch with no original year to anchor against costs the full 1.
func (c *Calculator) addYear(dist *Distance, likelies meta.Likelies, release meta.Release) {
	if likelies.Year == 0 || release.Year == 0 {
		return
	}
	if likelies.Year == release.Year || (release.OriginalYear > 0 && likelies.Year == release.OriginalYear) {
		dist.Add(FieldYear, 0)
		return
	}
	if release.OriginalYear > 0 {
		diff := likelies.Year - release.Year
		if diff < 0 {
			diff = -diff
		}
		span := time.Now().Year() - release.OriginalYear
		if span < 1 {
			span = 1
		}
		dist.Add(FieldYear, float64(diff)/float64(span))
		return
	}
	dist.Add(FieldYear, 1)
}

// splitCredits breaks a joined artist credit into individual names.
func splitCredits(credit string) []string {
	s := strings.ToLower(credit)
	for _, sep := range []string{";", " & ", " and ", " feat. ", " feat ", " ft. ", " x "} {
		s = strings.ReplaceAll(s, sep, ",")
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if n := textutil.Normalize(part); n != "" {
			out = append(out, n)
		}
	}
	return out
}
