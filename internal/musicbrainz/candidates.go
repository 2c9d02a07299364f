package musicbrainz

import (
	"context"
	"log/slog"
	"sync"

	"cadence/internal/logging"
	"cadence/internal/meta"
	"cadence/internal/services"
)

// Source abstracts the catalog the finder pulls candidates from. *Client
// implements it; the catalog cache wraps one Source in another.
type Source interface {
	SearchReleases(ctx context.Context, query ReleaseQuery) ([]ReleaseStub, error)
	LookupRelease(ctx context.Context, id string) (meta.Release, error)
	SearchRecordings(ctx context.Context, query RecordingQuery) ([]meta.Track, error)
	LookupRecording(ctx context.Context, id string) (meta.Track, error)
}

const (
	defaultMaxCandidates = 5
	lookupWorkers        = 4
)

// Finder turns a track set into fully populated candidate releases: an
// ID-tagged lookup when the set already names its release, plus a search by
// likely artist and album with the top stubs resolved to full tracklists.
type Finder struct {
	src           Source
	maxCandidates int
	logger        *slog.Logger
}

// FinderOptions tunes candidate retrieval.
type FinderOptions struct {
	// MaxCandidates bounds how many search results are resolved to full
	// releases. Zero means the default.
	MaxCandidates int
	Logger        *slog.Logger
}

// NewFinder builds a finder over the source.
func NewFinder(src Source, opts FinderOptions) *Finder {
	maxCandidates := opts.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = defaultMaxCandidates
	}
	return &Finder{
		src:           src,
		maxCandidates: maxCandidates,
		logger:        logging.NewComponentLogger(opts.Logger, "finder"),
	}
}

// CandidateReleases retrieves candidate releases for a track set. The
// ID-tagged release, when present and still in the catalog, always leads the
// result; search failures with a usable ID lookup degrade to that single
// candidate rather than failing the whole retrieval.
func (f *Finder) CandidateReleases(ctx context.Context, set meta.TrackSet, likelies meta.Likelies) ([]meta.Release, error) {
	var candidates []meta.Release

	if likelies.ReleaseID != "" {
		rel, err := f.src.LookupRelease(ctx, likelies.ReleaseID)
		switch {
		case err == nil:
			candidates = append(candidates, rel)
		case services.IsNotFound(err):
			f.logger.Debug("tagged release not in catalog",
				logging.String("release_id", likelies.ReleaseID))
		default:
			return nil, err
		}
	}

	// A declared total beats the observed count: a partial rip should still
	// search for the full release.
	trackCount := set.ExpectedTracks
	if trackCount <= 0 {
		trackCount = len(set.Tracks)
	}
	query := ReleaseQuery{
		Artist:         likelies.Artist,
		Release:        likelies.Album,
		Tracks:         trackCount,
		VariousArtists: likelies.VALikely,
	}
	stubs, err := f.src.SearchReleases(ctx, query)
	if err != nil {
		if len(candidates) > 0 {
			f.logger.Warn("search failed, keeping tagged release", logging.Error(err))
			return candidates, nil
		}
		return nil, err
	}
	if len(stubs) > f.maxCandidates {
		stubs = stubs[:f.maxCandidates]
	}

	resolved, err := f.resolveStubs(ctx, stubs)
	if err != nil {
		if len(candidates) > 0 {
			f.logger.Warn("lookup failed, keeping tagged release", logging.Error(err))
			return candidates, nil
		}
		return nil, err
	}
	return append(candidates, resolved...), nil
}

// resolveStubs fetches full releases for the stubs, preserving stub order.
// Stubs that vanished between search and lookup are dropped.
func (f *Finder) resolveStubs(ctx context.Context, stubs []ReleaseStub) ([]meta.Release, error) {
	if len(stubs) == 0 {
		return nil, nil
	}

	type slot struct {
		release meta.Release
		ok      bool
		err     error
	}
	slots := make([]slot, len(stubs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	workers := min(lookupWorkers, len(stubs))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rel, err := f.src.LookupRelease(ctx, stubs[i].ID)
				switch {
				case err == nil:
					slots[i] = slot{release: rel, ok: true}
				case services.IsNotFound(err):
					slots[i] = slot{}
				default:
					slots[i] = slot{err: err}
				}
			}
		}()
	}
	for i := range stubs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	releases := make([]meta.Release, 0, len(stubs))
	for _, s := range slots {
		if s.err != nil {
			return nil, s.err
		}
		if s.ok {
			releases = append(releases, s.release)
		}
	}
	return releases, nil
}

// CandidateTracks retrieves candidate recordings for one local track: the
// ID-tagged recording when present, plus a title and artist search.
func (f *Finder) CandidateTracks(ctx context.Context, local meta.LocalTrack) ([]meta.Track, error) {
	var candidates []meta.Track

	if local.RecordingID != "" {
		track, err := f.src.LookupRecording(ctx, local.RecordingID)
		switch {
		case err == nil:
			candidates = append(candidates, track)
		case services.IsNotFound(err):
			f.logger.Debug("tagged recording not in catalog",
				logging.String("recording_id", local.RecordingID))
		default:
			return nil, err
		}
	}

	tracks, err := f.src.SearchRecordings(ctx, RecordingQuery{Artist: local.Artist, Title: local.Title})
	if err != nil {
		if len(candidates) > 0 {
			return candidates, nil
		}
		return nil, err
	}
	if len(tracks) > f.maxCandidates {
		tracks = tracks[:f.maxCandidates]
	}
	return append(candidates, tracks...), nil
}
