package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	return newRootCommandWith(newCommandContext())
}

func newRootCommandWith(cmdCtx *commandContext) *cobra.Command {
	root := &cobra.Command{
		Use:           "cadence",
		Short:         "Match local album rips against the MusicBrainz catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := cmdCtx.ensureConfig()
			return err
		},
	}

	root.PersistentFlags().StringVarP(&cmdCtx.configPath, "config", "c", "", "path to config file")

	root.AddCommand(newMatchCommand(cmdCtx))
	root.AddCommand(newMatchTrackCommand(cmdCtx))
	root.AddCommand(newLookupCommand(cmdCtx))
	root.AddCommand(newCacheCommand(cmdCtx))
	root.AddCommand(newConfigCommand(cmdCtx))

	return root
}

// shouldSkipConfig reports whether cmd or one of its ancestors opted out of
// config loading (commands like "config init" that must run without one).
func shouldSkipConfig(cmd *cobra.Command) bool {
	for current := cmd; current != nil; current = current.Parent() {
		if current.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
