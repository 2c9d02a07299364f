package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"cadence/internal/match"
	"cadence/internal/meta"
)

func newMatchTrackCommand(cmdCtx *commandContext) *cobra.Command {
	var (
		artist      string
		title       string
		duration    float64
		recordingID string
		jsonOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "match-track",
		Short: "Match a single track against catalog recordings",
		RunE: func(cmd *cobra.Command, args []string) error {
			local := meta.LocalTrack{
				Artist:      artist,
				Title:       title,
				Duration:    duration,
				RecordingID: recordingID,
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

			candidates, err := finder.CandidateTracks(cmd.Context(), local)
			if err != nil {
				return err
			}

			result, err := matcher.MatchTrack(local, candidates)
			if err != nil {
				return err
			}

			if jsonOutput {
				if err := writeJSON(cmd.OutOrStdout(), trackPayload(result)); err != nil {
					return err
				}
			} else {
				renderTrackResult(cmd, local, result)
			}
			return decisionErr(result.Action)
		},
	}

	cmd.Flags().StringVar(&artist, "artist", "", "track artist")
	cmd.Flags().StringVar(&title, "title", "", "track title")
	cmd.Flags().Float64Var(&duration, "duration", 0, "track length in seconds")
	cmd.Flags().StringVar(&recordingID, "recording-id", "", "tagged MusicBrainz recording ID")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit the ranked result as JSON")
	return cmd
}

func renderTrackResult(cmd *cobra.Command, local meta.LocalTrack, result match.TrackResult) {
	out := cmd.OutOrStdout()

	subject := local.Title
	if local.Artist != "" {
		subject = local.Artist + " - " + subject
	}
	fmt.Fprintf(out, "Matching %s\n\n", subject)

	if len(result.Candidates) == 0 {
		fmt.Fprintln(out, "No candidate recordings found.")
		fmt.Fprintf(out, "\nDecision: %s (%s)\n", result.State, result.Action)
		return
	}

	headers := []string{"#", "Title", "Artist", "Length", "Similarity", "ID"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft}
	rows := make([][]string, 0, len(result.Candidates))
	for i, cand := range result.Candidates {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			cand.Track.Title,
			cand.Track.Artist,
			formatLength(cand.Track.Duration),
			formatSimilarity(cand.Total()),
			cand.Track.ID,
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
			result.Winner.Track.Artist, result.Winner.Track.Title, result.Winner.Track.ID)
	}
}

func formatLength(seconds float64) string {
	if seconds <= 0 {
		return ""
	}
	d := time.Duration(seconds * float64(time.Second)).Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

type trackCandidateJSON struct {
	Rank        int     `json:"rank"`
	RecordingID string  `json:"recording_id"`
	Title       string  `json:"title"`
	Artist      string  `json:"artist"`
	Duration    float64 `json:"duration,omitempty"`
	Distance    float64 `json:"distance"`
	Similarity  float64 `json:"similarity"`
}

type trackResultJSON struct {
	AttemptID  string               `json:"attempt_id"`
	State      string               `json:"state"`
	Action     string               `json:"action"`
	Winner     *trackCandidateJSON  `json:"winner,omitempty"`
	Candidates []trackCandidateJSON `json:"candidates"`
}

func trackPayload(result match.TrackResult) trackResultJSON {
	payload := trackResultJSON{
		AttemptID:  result.AttemptID,
		State:      string(result.State),
		Action:     string(result.Action),
		Candidates: make([]trackCandidateJSON, 0, len(result.Candidates)),
	}
	for i, cand := range result.Candidates {
		payload.Candidates = append(payload.Candidates, trackCandidateJSON{
			Rank:        i + 1,
			RecordingID: cand.Track.ID,
			Title:       cand.Track.Title,
			Artist:      cand.Track.Artist,
			Duration:    cand.Track.Duration,
			Distance:    cand.Total(),
			Similarity:  1 - cand.Total(),
		})
	}
	if result.Winner != nil {
		winner := payload.Candidates[0]
		payload.Winner = &winner
	}
	return payload
}
