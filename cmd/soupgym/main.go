// Package main is the single-binary entrypoint for soupgym, the
// deterministic grading core for HTML-extraction RL tasks.
package main

import "github.com/soupgym/soupgym/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
