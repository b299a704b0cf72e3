package cmd

import (
	"github.com/spf13/cobra"
	"github.com/sw33tLie/gridsync/internal/utils"
	"github.com/sw33tLie/gridsync/pkg/library"
)

// watchCmd implements: gridsync watch
// The library is listed once, then again every time a manifest changes.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "List the library again whenever the Xbox app updates a manifest",
	RunE: func(cmd *cobra.Command, _ []string) error {
		outputFlags, _ := cmd.Flags().GetString("output")
		delimiter, _ := cmd.Flags().GetString("delimiter")
		debounce, _ := cmd.Flags().GetDuration("debounce")

		s, err := newSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		list := func() {
			records, err := s.scan(ctx, 1)
			if err != nil {
				utils.Log.Errorf("Scan failed: %v", err)
				return
			}
			if err := printRecords(records, outputFlags, delimiter); err != nil {
				utils.Log.Error(err)
			}
		}

		list()
		utils.Log.Infof("Watching %s for manifest changes...", s.root)
		return library.Watch(ctx, s.root, library.WatchOptions{Debounce: debounce, Log: utils.Log}, list)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringP("output", "o", "npif", "Output flags (see list)")
	watchCmd.Flags().StringP("delimiter", "d", " ", "Delimiter character to use for output")
	watchCmd.Flags().Duration("debounce", library.DefaultDebounce, "Quiet period before rescanning after a change")
}
