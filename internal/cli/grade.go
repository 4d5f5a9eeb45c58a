package cli

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/soupgym/soupgym/internal/domain"
	"github.com/soupgym/soupgym/internal/verify"
)

var (
	gradeAnswerPath string
	gradeTracePath  string
	gradeRecord     bool
)

func init() {
	gradeCmd.Flags().StringVar(&gradeAnswerPath, "answer", "-", "final answer JSON file (\"-\" for stdin)")
	gradeCmd.Flags().StringVar(&gradeTracePath, "trace", "", "tool trace JSON file (array of {kind, code})")
	gradeCmd.Flags().BoolVar(&gradeRecord, "record", false, "persist the breakdown to the result store")
	rootCmd.AddCommand(gradeCmd)
}

var gradeCmd = &cobra.Command{
	Use:   "grade ARCHETYPE SEED",
	Short: "Grade a final answer against a task",
	Long: `Regenerate the instance for (ARCHETYPE, SEED) and grade the final
answer with the anti-hacking decision procedure. The trace file, when
given, supplies the episode's tool calls for efficiency weighting and
process credit.`,
	Args: cobra.ExactArgs(2),
	RunE: runGrade,
}

func runGrade(cmd *cobra.Command, args []string) error {
	seed, err := parseSeed(args[1])
	if err != nil {
		return err
	}
	rawAnswer, err := readFileOrStdin(gradeAnswerPath)
	if err != nil {
		return fmt.Errorf("read answer: %w", err)
	}

	var trace []domain.ToolCall
	if gradeTracePath != "" {
		rawTrace, err := readFileOrStdin(gradeTracePath)
		if err != nil {
			return fmt.Errorf("read trace: %w", err)
		}
		if err := json.Unmarshal(rawTrace, &trace); err != nil {
			return fmt.Errorf("parse trace: %w", err)
		}
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

	engine := verify.NewEngine(cfg.Reward)
	bd, err := engine.Score(task, rawAnswer, trace)
	if err != nil {
		return err
	}

	if gradeRecord {
		db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.RecordResult(uuid.NewString(), task, &bd); err != nil {
			return err
		}
	}
	return printJSON(bd)
}
