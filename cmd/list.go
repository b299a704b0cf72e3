package cmd

import (
	"github.com/spf13/cobra"
)

// listCmd implements: gridsync list
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the games of the third-party library",
	RunE: func(cmd *cobra.Command, _ []string) error {
		outputFlags, _ := cmd.Flags().GetString("output")
		delimiter, _ := cmd.Flags().GetString("delimiter")
		concurrency, _ := cmd.Flags().GetInt("concurrency")

		s, err := newSession(cmd, false)
		if err != nil {
			return err
		}
		defer s.Close()

		records, err := s.scan(cmd.Context(), concurrency)
		if err != nil {
			return err
		}
		return printRecords(records, outputFlags, delimiter)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringP("output", "o", "npif", "Output flags. Supported: n (name), p (platform), i (id), f (image file), b (backup), m (catalog match), d (added date), r (directory)")
	listCmd.Flags().StringP("delimiter", "d", " ", "Delimiter character to use for output")
	listCmd.Flags().IntP("concurrency", "", 1, "Number of games named at once")
}
