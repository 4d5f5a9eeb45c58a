package cli

import (
	"github.com/spf13/cobra"

	"github.com/soupgym/soupgym/internal/store"
)

var resultsLimit int

func init() {
	resultsCmd.Flags().IntVar(&resultsLimit, "limit", 50, "maximum rows to list")
	rootCmd.AddCommand(resultsCmd)
}

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "List recorded grading results, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(db *store.DB) error {
			rows, err := db.ListResults(resultsLimit)
			if err != nil {
				return err
			}
			return printJSON(rows)
		})
	},
}
