package match

import (
	"math"
	"strings"

	"cadence/internal/textutil"
)

// Field is one optional field value handed to a comparator. Known reports
// whether the source declared the field at all; comparators treat absence as
// a first-class case, never an error.
type Field struct {
	Text   string
	Number float64
	Set    []string
	Known  bool
}

// StringField wraps a text value; empty means absent.
func StringField(s string) Field {
	s = strings.TrimSpace(s)
	return Field{Text: s, Known: s != ""}
}

// NumberField wraps a numeric value; zero or negative means absent.
func NumberField(v float64) Field {
	return Field{Number: v, Known: v > 0}
}

// SetField wraps a multi-valued field; an empty set means absent.
func SetField(values []string) Field {
	return Field{Set: values, Known: len(values) > 0}
}

// FieldComparator computes the normalized dissimilarity of two field values.
// Implementations must be total, return exactly 0 for values identical after
// normalization, and stay within [0,1].
type FieldComparator interface {
	Distance(local, candidate Field) float64
}

// StringComparator compares text fields using normalized edit distance.
// Alternate-title markers (remaster and edition suffixes) are stripped
// before comparison, so "Abbey Road (2019 Remaster)" matches "Abbey Road"
// exactly.
type StringComparator struct {
	stripper       *textutil.MarkerStripper
	unknownPenalty float64
}

// NewStringComparator builds a string comparator with the given edition
// markers and the penalty applied when exactly one side is absent.
func NewStringComparator(markers []string, unknownPenalty float64) StringComparator {
	return StringComparator{
		stripper:       textutil.NewMarkerStripper(markers),
		unknownPenalty: clamp01(unknownPenalty),
	}
}

func (c StringComparator) Distance(local, candidate Field) float64 {
	if !local.Known && !candidate.Known {
		return 0
	}
	if !local.Known || !candidate.Known {
		return c.unknownPenalty
	}
	a := textutil.Normalize(c.stripper.Strip(local.Text))
	b := textutil.Normalize(c.stripper.Strip(candidate.Text))
	return textutil.Distance(a, b)
}

// DurationComparator compares lengths in seconds. Differences within the
// grace window score 0; beyond it the penalty grows linearly and saturates
// at 1 once the difference reaches grace+max.
type DurationComparator struct {
	grace          float64
	max            float64
	unknownPenalty float64
}

// NewDurationComparator builds a duration comparator. grace and max are in
// seconds; non-positive max falls back to 1 to keep the comparator total.
func NewDurationComparator(grace, max, unknownPenalty float64) DurationComparator {
	if max <= 0 {
		max = 1
	}
	if grace < 0 {
		grace = 0
	}
	return DurationComparator{grace: grace, max: max, unknownPenalty: clamp01(unknownPenalty)}
}

func (c DurationComparator) Distance(local, candidate Field) float64 {
	if !local.Known && !candidate.Known {
		return 0
	}
	if !local.Known || !candidate.Known {
		return c.unknownPenalty
	}
	diff := math.Abs(local.Number-candidate.Number) - c.grace
	if diff <= 0 {
		return 0
	}
	return clamp01(diff / c.max)
}

// SetComparator compares multi-valued fields (for example artist credits) by
// overlap: the size of the symmetric difference over the union of the
// normalized value sets.
type SetComparator struct {
	unknownPenalty float64
}

func NewSetComparator(unknownPenalty float64) SetComparator {
	return SetComparator{unknownPenalty: clamp01(unknownPenalty)}
}

func (c SetComparator) Distance(local, candidate Field) float64 {
	if !local.Known && !candidate.Known {
		return 0
	}
	if !local.Known || !candidate.Known {
		return c.unknownPenalty
	}
	a := normalizeSet(local.Set)
	b := normalizeSet(candidate.Set)
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	union := make(map[string]bool, len(a)+len(b))
	for v := range a {
		union[v] = true
	}
	for v := range b {
		union[v] = true
	}
	shared := 0
	for v := range a {
		if b[v] {
			shared++
		}
	}
	return float64(len(union)-shared) / float64(len(union))
}

func normalizeSet(values []string) map[string]bool {
	out := make(map[string]bool, len(values))
	for _, v := range values {
		if n := textutil.Normalize(v); n != "" {
			out[n] = true
		}
	}
	return out
}

// EqualityComparator scores 0 on exact equality and 1 otherwise; used for
// catalog identifiers where near-misses carry no meaning.
type EqualityComparator struct {
	unknownPenalty float64
}

func NewEqualityComparator(unknownPenalty float64) EqualityComparator {
	return EqualityComparator{unknownPenalty: clamp01(unknownPenalty)}
}

func (c EqualityComparator) Distance(local, candidate Field) float64 {
	if !local.Known && !candidate.Known {
		return 0
	}
	if !local.Known || !candidate.Known {
		return c.unknownPenalty
	}
	if strings.TrimSpace(local.Text) == strings.TrimSpace(candidate.Text) {
		return 0
	}
	return 1
}

// Registry maps field names to the comparator each one uses. It is populated
// once at construction; lookups at match time never mutate it.
type Registry struct {
	comparators map[string]FieldComparator
}

// NewRegistry returns an empty comparator registry.
func NewRegistry() *Registry {
	return &Registry{comparators: make(map[string]FieldComparator)}
}

// Register binds a comparator to a field name, replacing any prior binding.
func (r *Registry) Register(field string, cmp FieldComparator) {
	r.comparators[field] = cmp
}

// Lookup returns the comparator registered for the field.
func (r *Registry) Lookup(field string) (FieldComparator, bool) {
	cmp, ok := r.comparators[field]
	return cmp, ok
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
