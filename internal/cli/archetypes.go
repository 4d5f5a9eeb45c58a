package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(archetypesCmd)
}

var archetypesCmd = &cobra.Command{
	Use:   "archetypes",
	Short: "List registered task archetypes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := newRegistry()
		if err != nil {
			return err
		}
		return printJSON(map[string]any{
			"archetypes":    registry.IDs(),
			"limit_reasons": registry.LimitReasons(),
		})
	},
}
