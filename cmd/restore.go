package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/sw33tLie/gridsync/internal/utils"
	"github.com/sw33tLie/gridsync/pkg/artwork"
	"github.com/sw33tLie/gridsync/pkg/library"
)

// restoreCmd implements: gridsync restore --dir D --id COMPOSITE
var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Put back the original artwork of a game",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		id, _ := cmd.Flags().GetString("id")
		if dir == "" || id == "" {
			return fmt.Errorf("--dir and --id are required")
		}

		rec := library.NewGameRecord(dir, id)
		folder := filepath.Join(libraryRoot(cmd), dir)
		sync := &artwork.Synchronizer{Fs: afero.NewOsFs(), Log: utils.Log}

		return withLibraryLock(func() error {
			err := sync.RestoreBackup(rec, folder)
			if errors.Is(err, artwork.ErrBackupNotFound) {
				utils.Log.Warnf("Backup not found for %s", rec.Label())
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Printf("Original artwork %s restored\n", rec.ImageFileName)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)
	restoreCmd.Flags().String("dir", "", "Store directory of the game (steam, gog, epic, ubi, ea)")
	restoreCmd.Flags().String("id", "", "Manifest id of the game, e.g. steam:440")
}
