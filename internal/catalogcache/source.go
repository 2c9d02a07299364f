package catalogcache

import (
	"context"

	"cadence/internal/logging"
	"cadence/internal/meta"
	"cadence/internal/musicbrainz"
)

// Cache kinds. Searches are keyed by their generated query string so
// differently phrased queries never collide.
const (
	kindRelease         = "release"
	kindRecording       = "recording"
	kindReleaseSearch   = "release_search"
	kindRecordingSearch = "recording_search"
)

// CachedSource is a musicbrainz.Source that reads through the store before
// deferring to the upstream source. Cache failures degrade to the network
// rather than failing the lookup.
type CachedSource struct {
	upstream musicbrainz.Source
	store    *Store
}

var _ musicbrainz.Source = (*CachedSource)(nil)

// NewSource wraps the upstream source with the cache store.
func NewSource(upstream musicbrainz.Source, store *Store) *CachedSource {
	return &CachedSource{upstream: upstream, store: store}
}

// SearchReleases serves search results from the cache when fresh.
func (c *CachedSource) SearchReleases(ctx context.Context, query musicbrainz.ReleaseQuery) ([]musicbrainz.ReleaseStub, error) {
	key := query.CacheKey()
	var cached []musicbrainz.ReleaseStub
	if c.hit(ctx, kindReleaseSearch, key, &cached) {
		return cached, nil
	}
	stubs, err := c.upstream.SearchReleases(ctx, query)
	if err != nil {
		return nil, err
	}
	c.fill(ctx, kindReleaseSearch, key, stubs)
	return stubs, nil
}

// LookupRelease serves full releases from the cache when fresh.
func (c *CachedSource) LookupRelease(ctx context.Context, id string) (meta.Release, error) {
	var cached meta.Release
	if c.hit(ctx, kindRelease, id, &cached) && cached.ID != "" {
		return cached, nil
	}
	release, err := c.upstream.LookupRelease(ctx, id)
	if err != nil {
		return meta.Release{}, err
	}
	c.fill(ctx, kindRelease, id, release)
	return release, nil
}

// SearchRecordings serves recording searches from the cache when fresh.
func (c *CachedSource) SearchRecordings(ctx context.Context, query musicbrainz.RecordingQuery) ([]meta.Track, error) {
	key := query.CacheKey()
	var cached []meta.Track
	if c.hit(ctx, kindRecordingSearch, key, &cached) {
		return cached, nil
	}
	tracks, err := c.upstream.SearchRecordings(ctx, query)
	if err != nil {
		return nil, err
	}
	c.fill(ctx, kindRecordingSearch, key, tracks)
	return tracks, nil
}

// LookupRecording serves recordings from the cache when fresh.
func (c *CachedSource) LookupRecording(ctx context.Context, id string) (meta.Track, error) {
	var cached meta.Track
	if c.hit(ctx, kindRecording, id, &cached) && cached.ID != "" {
		return cached, nil
	}
	track, err := c.upstream.LookupRecording(ctx, id)
	if err != nil {
		return meta.Track{}, err
	}
	c.fill(ctx, kindRecording, id, track)
	return track, nil
}

func (c *CachedSource) hit(ctx context.Context, kind, key string, out any) bool {
	ok, err := c.store.get(ctx, kind, key, out)
	if err != nil {
		c.store.logger.Warn("cache read failed",
			logging.String("kind", kind),
			logging.String("key", key),
			logging.Error(err))
		return false
	}
	return ok
}

func (c *CachedSource) fill(ctx context.Context, kind, key string, value any) {
	if err := c.store.put(ctx, kind, key, value); err != nil {
		c.store.logger.Warn("cache write failed",
			logging.String("kind", kind),
			logging.String("key", key),
			logging.Error(err))
	}
}
