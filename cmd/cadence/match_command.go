package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cadence/internal/match"
	"cadence/internal/meta"
)

func newMatchCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		jsonOutput  bool
		showDetails bool
	)

	cmd := &cobra.Command{
		Use:   "match <tracks.json>",
		Short: "Match a local track set against catalog releases",
		Long: "Reads a track set description (JSON, \"-\" for stdin), retrieves candidate\n" +
			"releases from MusicBrainz, and ranks them by metadata distance.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := loadTrackSet(args[0])
			if err != nil {
				return err
			}

			matcher, err := cmdCtx.newMatcher()
			if err != nil {
				return err
			}
			finder, cleanup, err := cmdCtx.newFinder()
			if err != nil {
				return err
			}
			defer cleanup()

			likelies := meta.ComputeLikelies(set)
			candidates, err := finder.CandidateReleases(cmd.Context(), set, likelies)
			if err != nil {
				return err
			}

			result, err := matcher.MatchRelease(set, candidates)
			if err != nil {
				return err
			}

			if jsonOutput {
				if err := writeJSON(cmd.OutOrStdout(), matchPayload(result)); err != nil {
					return err
				}
			} else {
				renderMatchResult(cmd, likelies, result, showDetails)
			}
			return decisionErr(result.Action)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit the ranked result as JSON")
	cmd.Flags().BoolVar(&showDetails, "details", false, "show the per-field breakdown of the best candidate")
	return cmd
}

func renderMatchResult(cmd *cobra.Command, likelies meta.Likelies, result match.Result, showDetails bool) {
	out := cmd.OutOrStdout()

	subject := likelies.Album
	if likelies.Artist != "" {
		subject = likelies.Artist + " - " + subject
	}
	fmt.Fprintf(out, "Matching %s\n\n", subject)

	if len(result.Candidates) == 0 {
		fmt.Fprintln(out, "No candidate releases found.")
		fmt.Fprintf(out, "\nDecision: %s (%s)\n", result.State, result.Action)
		return
	}

	headers := []string{"#", "Release", "Artist", "Year", "Similarity", "Unmatched", "ID"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft}
	rows := make([][]string, 0, len(result.Candidates))
	for i, cand := range result.Candidates {
		year := ""
		if cand.Release.Year > 0 {
			year = strconv.Itoa(cand.Release.Year)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			cand.Release.Title,
			cand.Release.Artist,
			year,
			formatSimilarity(cand.Total()),
			strconv.Itoa(cand.Assignment.UnmatchedCount()),
			cand.Release.ID,
		})
	}
	highlight := -1
	if result.Winner != nil {
		highlight = 0
	}
	fmt.Fprintln(out, renderTable(headers, rows, aligns, highlight))

	fmt.Fprintf(out, "\nDecision: %s (%s)\n", result.State, result.Action)
	if result.Winner != nil {
		fmt.Fprintf(out, "Winner: %s - %s [%s]\n",
			result.Winner.Release.Artist, result.Winner.Release.Title, result.Winner.Release.ID)
	}

	if showDetails {
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderBreakdown(result.Candidates[0]))
	}
}

// renderBreakdown tabulates the per-field penalties of one candidate.
func renderBreakdown(cand match.CandidateMatch) string {
	headers := []string{"Field", "Penalty"}
	aligns := []columnAlignment{alignLeft, alignRight}
	var rows [][]string
	for _, comp := range cand.Dist.Components() {
		rows = append(rows, []string{comp.Field, fmt.Sprintf("%.3f", comp.Penalty)})
	}
	return renderTable(headers, rows, aligns, -1)
}

// decisionErr maps the no-match outcome to a nonzero exit so scripts can
// branch on the decision without parsing output.
func decisionErr(action match.Action) error {
	if action == match.ActionNoMatch {
		return fmt.Errorf("no acceptable match")
	}
	return nil
}

func formatSimilarity(distance float64) string {
	return fmt.Sprintf("%.1f%%", (1-distance)*100)
}

// matchCandidateJSON is the JSON projection of one ranked candidate.
type matchCandidateJSON struct {
	Rank       int     `json:"rank"`
	ReleaseID  string  `json:"release_id"`
	Title      string  `json:"title"`
	Artist     string  `json:"artist"`
	Year       int     `json:"year,omitempty"`
	Distance   float64 `json:"distance"`
	Similarity float64 `json:"similarity"`
	Unmatched  int     `json:"unmatched"`
}

type matchResultJSON struct {
	AttemptID  string               `json:"attempt_id"`
	State      string               `json:"state"`
	Action     string               `json:"action"`
	Winner     *matchCandidateJSON  `json:"winner,omitempty"`
	Candidates []matchCandidateJSON `json:"candidates"`
}

func matchPayload(result match.Result) matchResultJSON {
	payload := matchResultJSON{
		AttemptID:  result.AttemptID,
		State:      string(result.State),
		Action:     string(result.Action),
		Candidates: make([]matchCandidateJSON, 0, len(result.Candidates)),
	}
	for i, cand := range result.Candidates {
		payload.Candidates = append(payload.Candidates, matchCandidateJSON{
			Rank:       i + 1,
			ReleaseID:  cand.Release.ID,
			Title:      cand.Release.Title,
			Artist:     cand.Release.Artist,
			Year:       cand.Release.Year,
			Distance:   cand.Total(),
			Similarity: 1 - cand.Total(),
			Unmatched:  cand.Assignment.UnmatchedCount(),
		})
	}
	if result.Winner != nil {
		winner := payload.Candidates[0]
		payload.Winner = &winner
	}
	return payload
}
