package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbridge/pytype/internal/resolve"
)

// watchCmd is the persistent-session front-end described in §6: rerun
// analysis as files change instead of exiting after one pass. The
// filesystem-watching collaborator is a resolve.Watcher (see
// internal/resolve/watch.go); this command always uses resolve.NoWatcher, so
// it fails with an explanatory error rather than silently doing nothing.
var watchCmd = &cobra.Command{
	Use: "watch <path>",
	Short: "Re-run checks as files change (requires a wired Watcher)",
	Long: `watch is the entry point for re-running analysis on file changes instead
of exiting after one pass. This repository ships the Watcher
boundary only - no concrete filesystem watcher - so this command reports
the missing collaborator rather than pretending to watch anything.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var w resolve.Watcher = resolve.NoWatcher{}
		stop, err := w.Watch(args[0], func(string) {})
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		defer stop()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
