package textutil

import "github.com/agnivade/levenshtein"

// Distance returns the normalized edit-distance dissimilarity between two
// already-normalized strings: 0 for identical, 1 for entirely different.
// The raw Levenshtein distance is scaled by the longer string's length.
func Distance(a, b string) float64 {
	if a == b {
		return 0
	}
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 0
	}
	d := levenshtein.ComputeDistance(a, b)
	if d >= longest {
		return 1
	}
	return float64(d) / float64(longest)
}
