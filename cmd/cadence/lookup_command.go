package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cadence/internal/meta"
)

func newLookupCommand(cmdCtx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "lookup <release-id>",
		Short: "Fetch one release from the catalog by MusicBrainz ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := cmdCtx.ensureLogger()
			if err != nil {
				return err
			}
			src, cleanup, err := cmdCtx.sourceFactory(cfg, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			release, err := src.LookupRelease(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), releasePayload(release))
			}
			renderRelease(cmd, release)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit the release as JSON")
	return cmd
}

func renderRelease(cmd *cobra.Command, release meta.Release) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%s - %s [%s]\n", release.Artist, release.Title, release.ID)
	if release.Year > 0 {
		if release.OriginalYear > 0 && release.OriginalYear != release.Year {
			fmt.Fprintf(out, "Year: %d (originally %d)\n", release.Year, release.OriginalYear)
		} else {
			fmt.Fprintf(out, "Year: %d\n", release.Year)
		}
	}
	if release.Label != "" || release.CatalogNum != "" {
		fmt.Fprintf(out, "Label: %s %s\n", release.Label, release.CatalogNum)
	}
	if release.Country != "" {
		fmt.Fprintf(out, "Country: %s\n", release.Country)
	}
	if release.Disambig != "" {
		fmt.Fprintf(out, "Disambiguation: %s\n", release.Disambig)
	}
	fmt.Fprintln(out)

	headers := []string{"#", "Disc", "Title", "Artist", "Length"}
	aligns := []columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignRight}
	rows := make([][]string, 0, len(release.Tracks))
	for _, t := range release.Tracks {
		rows = append(rows, []string{
			strconv.Itoa(t.Index),
			strconv.Itoa(t.Medium),
			t.Title,
			t.Artist,
			formatLength(t.Duration),
		})
	}
	fmt.Fprintln(out, renderTable(headers, rows, aligns, -1))
}

type releaseTrackJSON struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Artist      string  `json:"artist,omitempty"`
	Index       int     `json:"index"`
	Medium      int     `json:"medium"`
	MediumIndex int     `json:"medium_index"`
	Duration    float64 `json:"duration,omitempty"`
}

type releaseJSON struct {
	ID             string             `json:"id"`
	Title          string             `json:"title"`
	Artist         string             `json:"artist"`
	VariousArtists bool               `json:"various_artists,omitempty"`
	Year           int                `json:"year,omitempty"`
	OriginalYear   int                `json:"original_year,omitempty"`
	Mediums        int                `json:"mediums,omitempty"`
	Country        string             `json:"country,omitempty"`
	Label          string             `json:"label,omitempty"`
	CatalogNum     string             `json:"catalog_num,omitempty"`
	Disambig       string             `json:"disambig,omitempty"`
	Tracks         []releaseTrackJSON `json:"tracks"`
}

func releasePayload(release meta.Release) releaseJSON {
	payload := releaseJSON{
		ID:             release.ID,
		Title:          release.Title,
		Artist:         release.Artist,
		VariousArtists: release.VariousArtists,
		Year:           release.Year,
		OriginalYear:   release.OriginalYear,
		Mediums:        release.Mediums,
		Country:        release.Country,
		Label:          release.Label,
		CatalogNum:     release.CatalogNum,
		Disambig:       release.Disambig,
		Tracks:         make([]releaseTrackJSON, 0, len(release.Tracks)),
	}
	for _, t := range release.Tracks {
		payload.Tracks = append(payload.Tracks, releaseTrackJSON{
			ID:          t.ID,
			Title:       t.Title,
			Artist:      t.Artist,
			Index:       t.Index,
			Medium:      t.Medium,
			MediumIndex: t.MediumIndex,
			Duration:    t.Duration,
		})
	}
	return payload
}
