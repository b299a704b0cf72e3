package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/gridsync/internal/utils"
	"github.com/sw33tLie/gridsync/pkg/artwork"
	"github.com/sw33tLie/gridsync/pkg/library"
	"github.com/sw33tLie/gridsync/pkg/steamgriddb"
)

// artworkCmd implements: gridsync artwork
//
//	--dir string    Store directory of the game (steam, gog, epic, ubi, ea)
//	--id string     Manifest id of the game, e.g. steam:440
//	--game-id int   SteamGridDB game id, as printed by search
var artworkCmd = &cobra.Command{
	Use:   "artwork",
	Short: "List square grids and icons available for a game",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		id, _ := cmd.Flags().GetString("id")
		gameID, _ := cmd.Flags().GetInt("game-id")

		if gameID <= 0 && (dir == "" || id == "") {
			return fmt.Errorf("either --game-id or both --dir and --id are required")
		}

		s, err := newSession(cmd, true)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		var grids, icons []steamgriddb.ArtworkCandidate
		if gameID > 0 {
			if grids, err = s.catalog.GetSquareGridsByGameID(ctx, gameID); err != nil {
				return err
			}
			if icons, err = s.catalog.GetSquareIconsByGameID(ctx, gameID); err != nil {
				return err
			}
		} else {
			rec := library.NewGameRecord(dir, id)
			key := rec.Platform.CatalogKey()
			if key == "" {
				return fmt.Errorf("unsupported store directory: %s", dir)
			}
			if grids, err = s.catalog.GetSquareGridsByPlatformID(ctx, key, rec.ExternalLookupID); err != nil {
				return err
			}
			if icons, err = s.catalog.GetSquareIconsByPlatformID(ctx, key, rec.ExternalLookupID); err != nil {
				return err
			}
		}

		utils.Log.Infof("Found %s and %s", utils.Plural(len(grids), "grid", "grids"), utils.Plural(len(icons), "icon", "icons"))
		printCandidates(artwork.Merge(grids, icons))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(artworkCmd)
	artworkCmd.Flags().String("dir", "", "Store directory of the game (steam, gog, epic, ubi, ea)")
	artworkCmd.Flags().String("id", "", "Manifest id of the game, e.g. steam:440")
	artworkCmd.Flags().Int("game-id", 0, "SteamGridDB game id, as printed by search")
}
