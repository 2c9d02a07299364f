package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// diacriticStripper decomposes runes and drops combining marks, so that
// "Björk" and "Bjork" canonicalize identically.
var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var (
	symbolReplacer = strings.NewReplacer("&", " and ", "+", " and ")

	featPattern       = regexp.MustCompile(`\s+(?:feat\.?|ft\.?|featuring)\s+.*$`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// DefaultEditionMarkers are the bracketed suffix markers stripped before
// title comparison. A trailing "(Deluxe Edition)" or "[2009 Remaster]" does
// not make a title a different title. The list is configuration; callers may
// supply their own to MarkerStripper.
var DefaultEditionMarkers = []string{
	"anniversary",
	"bonus",
	"deluxe",
	"edition",
	"expanded",
	"mono",
	"reissue",
	"remaster",
	"remastered",
	"stereo",
	"version",
}

// Normalize canonicalizes a metadata string for comparison: lowercase,
// diacritics folded, symbols expanded, featured-artist suffixes dropped,
// punctuation removed, leading article removed, whitespace collapsed.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	if folded, _, err := transform.String(diacriticStripper, s); err == nil {
		s = folded
	}
	s = symbolReplacer.Replace(s)
	s = featPattern.ReplaceAllString(s, "")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		default:
			// Punctuation separates words rather than vanishing, so
			// "AC/DC" becomes "ac dc" not "acdc".
			b.WriteByte(' ')
		}
	}
	s = whitespacePattern.ReplaceAllString(strings.TrimSpace(b.String()), " ")
	s = strings.TrimPrefix(s, "the ")
	return s
}

// MarkerStripper removes trailing bracketed segments whose content mentions
// one of the configured markers.
type MarkerStripper struct {
	pattern *regexp.Regexp
}

// NewMarkerStripper compiles a stripper for the provided markers. Markers are
// matched case-insensitively inside a trailing (...) or [...] group. A nil or
// empty marker list yields a stripper that leaves input untouched.
func NewMarkerStripper(markers []string) *MarkerStripper {
	if len(markers) == 0 {
		return &MarkerStripper{}
	}
	escaped := make([]string, 0, len(markers))
	for _, m := range markers {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		escaped = append(escaped, regexp.QuoteMeta(m))
	}
	if len(escaped) == 0 {
		return &MarkerStripper{}
	}
	expr := `(?i)\s*[(\[][^)\]]*(?:` + strings.Join(escaped, "|") + `)[^)\]]*[)\]]\s*$`
	return &MarkerStripper{pattern: regexp.MustCompile(expr)}
}

// Strip removes trailing edition-marker groups. Repeats until no marker
// group remains so "Title (Deluxe) [2011 Remaster]" reduces to "Title".
func (m *MarkerStripper) Strip(s string) string {
	if m == nil || m.pattern == nil {
		return s
	}
	for {
		stripped := m.pattern.ReplaceAllString(s, "")
		if stripped == s {
			return strings.TrimSpace(s)
		}
		s = stripped
	}
}
