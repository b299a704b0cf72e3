package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/gridsync/internal/utils"
	"github.com/sw33tLie/gridsync/pkg/artwork"
	"github.com/sw33tLie/gridsync/pkg/fixer"
	"github.com/sw33tLie/gridsync/pkg/library"
)

// fixCmd implements: gridsync fix
// Every named game that was never modified gets the best scored square grid,
// or the best icon when the game has no square grid.
var fixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Replace the artwork of every unmodified game with the best SteamGridDB match",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return fmt.Errorf("unknown command: '%s'. See 'gridsync fix --help'", args[0])
		}
		concurrency, _ := cmd.Flags().GetInt("concurrency")

		s, err := newSession(cmd, true)
		if err != nil {
			return err
		}
		defer s.Close()

		return withLibraryLock(func() error {
			records, err := s.scan(cmd.Context(), concurrency)
			if err != nil {
				return err
			}

			cfg := fixer.Config{
				Catalog: s.catalog,
				Sync:    artwork.NewSynchronizer(s.http),
				Root:    s.root,
				Log:     utils.Log,
				OnRecordDone: func(rec *library.GameRecord, outcome fixer.Outcome, err error) {
					if outcome == fixer.Succeeded {
						fmt.Printf("Artwork for %s updated successfully\n", rec.Label())
					}
				},
			}
			res, runErr := fixer.Run(cmd.Context(), cfg, records)
			if res != nil {
				fmt.Println(res.Summary())
			}
			return runErr
		})
	},
}

func init() {
	rootCmd.AddCommand(fixCmd)
	fixCmd.Flags().IntP("concurrency", "", 1, "Number of games named at once")
}
