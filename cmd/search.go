package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/gridsync/internal/utils"
)

// searchCmd implements: gridsync search <term>
var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search SteamGridDB games by name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession(cmd, true)
		if err != nil {
			return err
		}
		defer s.Close()

		games, err := s.catalog.SearchGames(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		if len(games) == 0 {
			utils.Log.Info("No games found")
			return nil
		}
		for _, g := range games {
			verified := ""
			if g.Verified {
				verified = " (verified)"
			}
			fmt.Printf("%d %s%s\n", g.ID, g.Name, verified)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
