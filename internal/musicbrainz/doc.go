// Package musicbrainz wraps the MusicBrainz web service: release and
// recording search, full release lookups, and candidate retrieval for the
// matching engine. All requests flow through a shared rate limiter honoring
// the service's one-request-per-second policy.
package musicbrainz
