package cmd

import (
	"fmt"
	"os"

	"github.com/sw33tLie/gridsync/internal/utils"
	"github.com/sw33tLie/gridsync/pkg/library"
	"github.com/sw33tLie/gridsync/pkg/steamgriddb"
)

func printRecords(records []*library.GameRecord, outputFlags, delimiter string) error {
	if len(records) == 0 {
		utils.Log.Info("No games found in the third-party library")
		return nil
	}
	return library.PrintRecords(os.Stdout, records, outputFlags, delimiter)
}

func printCandidates(candidates []steamgriddb.ArtworkCandidate) {
	for _, c := range candidates {
		size := "?"
		if w, h, ok := steamgriddb.Dimensions(c); ok {
			size = fmt.Sprintf("%dx%d", w, h)
		}
		fmt.Printf("%-4s %-8d score=%-4d %-10s %-9s by %s  %s\n", c.Kind, c.ID, c.Score, c.Style, size, c.AuthorName, c.URL)
	}
}
