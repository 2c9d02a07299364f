package match

import (
	"log/slog"

	"github.com/google/uuid"

	"cadence/internal/logging"
	"cadence/internal/meta"
	"cadence/internal/services"
)

// Result is the outcome of matching a track set against candidate releases:
// the full ranked candidate list, the decision state, and the winner when one
// could be applied automatically.
type Result struct {
	AttemptID  string
	State      State
	Action     Action
	Candidates []CandidateMatch
	// Winner points into Candidates when State is StateStrong, nil otherwise.
	Winner *CandidateMatch
}

// TrackResult is the singleton-track analogue of Result.
type TrackResult struct {
	AttemptID  string
	State      State
	Action     Action
	Candidates []TrackMatch
	Winner     *TrackMatch
}

// Matcher scores and ranks candidate releases against local track sets. It is
// safe for concurrent use; all state is read-only after construction.
type Matcher struct {
	cfg     Config
	calc    *Calculator
	aligner *Aligner
	logger  *slog.Logger
}

// NewMatcher validates the configuration and builds a matcher. A nil logger
// disables logging.
func NewMatcher(cfg Config, logger *slog.Logger) (*Matcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	calc := NewCalculator(cfg)
	return &Matcher{
		cfg:     cfg,
		calc:    calc,
		aligner: NewAligner(calc),
		logger:  logging.NewComponentLogger(logger, "match"),
	}, nil
}

// Config returns the matcher's effective configuration.
func (m *Matcher) Config() Config { return m.cfg }

// MatchRelease aligns and scores every candidate release against the track
// set, ranks them, and applies the decision policy. Candidates sharing a
// release ID are deduplicated (first occurrence wins) and candidates without
// tracks are skipped.
func (m *Matcher) MatchRelease(set meta.TrackSet, candidates []meta.Release) (Result, error) {
	if err := meta.ValidateTrackSet(set); err != nil {
		return Result{}, err
	}
	for _, r := range candidates {
		if err := meta.ValidateRelease(r); err != nil {
			return Result{}, err
		}
	}

	attempt := uuid.NewString()
	logger := m.logger.With(logging.String(logging.FieldAttempt, attempt))

	likelies := meta.ComputeLikelies(set)
	logger.Debug("computed current metadata",
		logging.String("artist", likelies.Artist),
		logging.String("album", likelies.Album),
		logging.Bool("va_likely", likelies.VALikely),
		logging.Int("tracks", len(set.Tracks)))

	matches := make([]CandidateMatch, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, release := range candidates {
		if release.ID != "" && seen[release.ID] {
			logger.Debug("skipping duplicate candidate", logging.String("release_id", release.ID))
			continue
		}
		if release.ID != "" {
			seen[release.ID] = true
		}
		if len(release.Tracks) == 0 {
			logger.Debug("skipping candidate without tracks", logging.String("release_id", release.ID))
			continue
		}

		asn := m.aligner.Align(set, release, likelies.VALikely || release.VariousArtists)
		dist := m.calc.ReleaseDistance(set, likelies, release, asn)
		logger.Debug("scored candidate",
			logging.String("release_id", release.ID),
			logging.String("title", release.Title),
			logging.Float64("distance", dist.Total()),
			logging.Int("unmatched", asn.UnmatchedCount()))
		matches = append(matches, CandidateMatch{Release: release, Assignment: asn, Dist: dist})
	}

	rankReleases(matches)
	state := m.cfg.Policy.Decide(matches)

	result := Result{
		AttemptID:  attempt,
		State:      state,
		Action:     state.Action(),
		Candidates: matches,
	}
	if state == StateStrong {
		result.Winner = &result.Candidates[0]
	}
	logger.Info("match decided",
		logging.String("state", string(state)),
		logging.String("action", string(result.Action)),
		logging.Int("candidates", len(matches)))
	return result, nil
}

// MatchTrack scores candidate tracks against one local track, ranks them, and
// applies the thresholds. Candidates sharing a track ID are deduplicated.
func (m *Matcher) MatchTrack(local meta.LocalTrack, candidates []meta.Track) (TrackResult, error) {
	if local.Title == "" && local.Artist == "" && !local.HasDuration() {
		return TrackResult{}, services.InputField("match", "track", local.ID, "no usable metadata")
	}

	attempt := uuid.NewString()
	logger := m.logger.With(logging.String(logging.FieldAttempt, attempt))

	matches := make([]TrackMatch, 0, len(candidates))
	seen := make(map[string]bool, len(candidates))
	for _, candidate := range candidates {
		if candidate.ID != "" && seen[candidate.ID] {
			continue
		}
		if candidate.ID != "" {
			seen[candidate.ID] = true
		}
		dist := m.calc.TrackDistance(local, candidate, true)
		matches = append(matches, TrackMatch{Track: candidate, Dist: dist})
	}

	rankTracks(matches)
	state := m.cfg.Policy.DecideTrack(matches)

	result := TrackResult{
		AttemptID:  attempt,
		State:      state,
		Action:     state.Action(),
		Candidates: matches,
	}
	if state == StateStrong {
		result.Winner = &result.Candidates[0]
	}
	logger.Info("track match decided",
		logging.String("state", string(state)),
		logging.String("action", string(result.Action)),
		logging.Int("candidates", len(matches)))
	return result, nil
}
