package cli

import (
	"github.com/spf13/cobra"

	"github.com/soupgym/soupgym/internal/sandbox"
)

func init() {
	rootCmd.AddCommand(execCmd)
}

var execCmd = &cobra.Command{
	Use:   "exec ARCHETYPE SEED FILE",
	Short: "Run a Python submission against a task in the sandbox",
	Long: `Run the Python code in FILE ("-" for stdin) against the execution
context of (ARCHETYPE, SEED). The code sees ARTIFACT, QUERY and
task_metadata(); network access is disabled unless configured
otherwise. The result is printed as JSON; crashes and timeouts are
ordinary results, not command failures.`,
	Args: cobra.ExactArgs(3),
	RunE: runExec,
}

func runExec(cmd *cobra.Command, args []string) error {
	seed, err := parseSeed(args[1])
	if err != nil {
		return err
	}
	code, err := readFileOrStdin(args[2])
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
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
	executor, err := sandbox.New(cfg.Sandbox)
	if err != nil {
		return err
	}
	res, err := executor.Run(cmd.Context(), string(code), task.View(registry.LimitReasons()))
	if err != nil {
		return err
	}
	return printJSON(res)
}
