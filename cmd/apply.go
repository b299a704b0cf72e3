package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/sw33tLie/gridsync/pkg/artwork"
	"github.com/sw33tLie/gridsync/pkg/library"
)

// applyCmd implements: gridsync apply --dir D --id COMPOSITE --url URL
var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Replace a game's artwork with an image, keeping a backup of the original",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		id, _ := cmd.Flags().GetString("id")
		imageURL, _ := cmd.Flags().GetString("url")
		if dir == "" || id == "" || imageURL == "" {
			return fmt.Errorf("--dir, --id and --url are required")
		}

		s, err := newSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		rec := library.NewGameRecord(dir, id)
		folder := filepath.Join(s.root, dir)
		sync := artwork.NewSynchronizer(s.http)

		return withLibraryLock(func() error {
			if err := sync.ApplyArtwork(cmd.Context(), rec, folder, imageURL); err != nil {
				return fmt.Errorf("failed to update artwork for %s: %w", rec.Label(), err)
			}
			fmt.Printf("Artwork %s updated successfully\n", rec.ImageFileName)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().String("dir", "", "Store directory of the game (steam, gog, epic, ubi, ea)")
	applyCmd.Flags().String("id", "", "Manifest id of the game, e.g. steam:440")
	applyCmd.Flags().String("url", "", "Image URL, e.g. from the artwork command")
}
