package match

import "cadence/internal/services"

// State classifies how well the best candidate fits.
type State string

const (
	// StateStrong means the best candidate is good enough to apply
	// without review.
	StateStrong State = "strong"
	// StateAmbiguous means at least one plausible candidate exists but
	// none can be auto-applied.
	StateAmbiguous State = "ambiguous"
	// StateRejected means even the best candidate exceeds the rejection
	// threshold.
	StateRejected State = "rejected"
	// StateNoCandidates means nothing survived candidate filtering.
	StateNoCandidates State = "no_candidates"
)

// Action is the operational consequence of a match state.
type Action string

const (
	ActionApply   Action = "apply"
	ActionReview  Action = "review"
	ActionNoMatch Action = "no_match"
)

// Action maps a state to what the caller should do with the result.
func (s State) Action() Action {
	switch s {
	case StateStrong:
		return ActionApply
	case StateAmbiguous:
		return ActionReview
	default:
		return ActionNoMatch
	}
}

// Policy holds the decision thresholds applied to a ranked candidate list.
// All distances are normalized to [0,1], lower is better.
type Policy struct {
	// AcceptThreshold is the highest distance a candidate may score and
	// still be applied automatically.
	AcceptThreshold float64 `toml:"accept_threshold" json:"accept_threshold"`
	// RejectThreshold is the distance at or above which a candidate is
	// discarded outright.
	RejectThreshold float64 `toml:"reject_threshold" json:"reject_threshold"`
	// AmbiguityMargin is the minimum gap between the best and runner-up
	// totals required for an automatic decision.
	AmbiguityMargin float64 `toml:"ambiguity_margin" json:"ambiguity_margin"`
	// TrackTolerance is the number of unmatched tracks a strong match
	// may carry.
	TrackTolerance int `toml:"track_tolerance" json:"track_tolerance"`
}

// DefaultPolicy returns the stock thresholds.
func DefaultPolicy() Policy {
	return Policy{
		AcceptThreshold: 0.15,
		RejectThreshold: 0.60,
		AmbiguityMargin: 0.05,
		TrackTolerance:  0,
	}
}

// Validate rejects threshold combinations that cannot classify anything.
func (p Policy) Validate() error {
	if p.AcceptThreshold < 0 || p.AcceptThreshold > 1 {
		return services.ConfigField("match.accept_threshold", p.AcceptThreshold, "must be between 0 and 1")
	}
	if p.RejectThreshold < 0 || p.RejectThreshold > 1 {
		return services.ConfigField("match.reject_threshold", p.RejectThreshold, "must be between 0 and 1")
	}
	if p.RejectThreshold < p.AcceptThreshold {
		return services.ConfigField("match.reject_threshold", p.RejectThreshold, "must not be below accept_threshold")
	}
	if p.AmbiguityMargin < 0 || p.AmbiguityMargin > 1 {
		return services.ConfigField("match.ambiguity_margin", p.AmbiguityMargin, "must be between 0 and 1")
	}
	if p.TrackTolerance < 0 {
		return services.ConfigField("match.track_tolerance", p.TrackTolerance, "must not be negative")
	}
	return nil
}

// Decide classifies a ranked (best-first) candidate list. The ambiguity
// margin only applies when more than one candidate survives.
func (p Policy) Decide(matches []CandidateMatch) State {
	if len(matches) == 0 {
		return StateNoCandidates
	}
	best := matches[0]
	total := best.Total()
	if total >= p.RejectThreshold {
		return StateRejected
	}
	if total > p.AcceptThreshold {
		return StateAmbiguous
	}
	if best.Assignment.UnmatchedCount() > p.TrackTolerance {
		return StateAmbiguous
	}
	if len(matches) > 1 && matches[1].Total()-total < p.AmbiguityMargin {
		return StateAmbiguous
	}
	return StateStrong
}

// DecideTrack classifies a ranked singleton candidate list. Track matches
// carry no assignment, so only the thresholds and margin apply.
func (p Policy) DecideTrack(matches []TrackMatch) State {
	if len(matches) == 0 {
		return StateNoCandidates
	}
	total := matches[0].Dist.Total()
	if total >= p.RejectThreshold {
		return StateRejected
	}
	if total > p.AcceptThreshold {
		return StateAmbiguous
	}
	if len(matches) > 1 && matches[1].Dist.Total()-total < p.AmbiguityMargin {
		return StateAmbiguous
	}
	return StateStrong
}
