package cli

import (
	"github.com/spf13/cobra"
)

var generateFull bool

func init() {
	generateCmd.Flags().BoolVar(&generateFull, "full", false,
		"print the full instance including ground truth (grader-side debugging only)")
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate ARCHETYPE SEED",
	Short: "Generate a task instance and print it as JSON",
	Long: `Generate the task instance for (ARCHETYPE, SEED). By default the
agent-facing view is printed: artifact, query, schema and the allowed
limitation reasons, never the ground truth. --full prints the whole
instance for grader-side debugging.`,
	Args: cobra.ExactArgs(2),
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	seed, err := parseSeed(args[1])
	if err != nil {
		return err
	}
	registry, err := newRegistry()
	if err != nil {
		return err
	}
	task, err := registry.Generate(args[0], seed)
	if err != nil {
		return err
	}
	if generateFull {
		return printJSON(task)
	}
	return printJSON(task.View(registry.LimitReasons()))
}
