// Package cli implements the soupgym command-line interface using
// Cobra. Each subcommand maps to one grading capability (generate,
// exec, grade, manifest, serve, ...).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "soupgym",
	Short: "soupgym: deterministic grading for HTML-extraction agents",
	Long: `soupgym generates HTML-extraction tasks from seeds, runs submitted
Python against them in a sandbox, and grades final answers with a
rule-based, anti-hacking reward engine.

Identical (archetype, seed) pairs always yield identical tasks, so a
frozen manifest of pairs is a reproducible benchmark.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
