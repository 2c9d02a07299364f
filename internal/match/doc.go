// Package match implements the release matching and ranking engine.
//
// Given a locally observed track set and candidate releases already fetched
// from a catalog, the engine aligns local tracks to candidate tracks with a
// minimum-cost assignment, scores every compared metadata field into a
// weighted aggregate distance in [0,1], ranks the candidates, and classifies
// the outcome against configured thresholds into auto-apply, needs-review,
// or no-match.
//
// The engine is pure: it performs no I/O, keeps no state between attempts,
// and never mutates its inputs, so concurrent callers may run independent
// attempts without locking.
package match
