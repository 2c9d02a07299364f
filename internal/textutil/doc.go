// Package textutil provides text normalization and similarity primitives for
// metadata comparison.
//
// The primary use cases are:
//   - Canonicalizing titles and artist names before comparison (case folding,
//     diacritic removal, punctuation stripping, leading-article removal)
//   - Stripping alternate-title markers such as remaster or edition suffixes
//   - Computing a normalized edit-distance dissimilarity in [0,1]
//
// Normalization is deliberately aggressive: two strings that differ only in
// casing, accents, punctuation, or a trailing "(2011 Remaster)" style marker
// normalize to the same canonical form.
package textutil
