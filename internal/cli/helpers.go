package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/soupgym/soupgym/internal/config"
	"github.com/soupgym/soupgym/internal/gen"
	"github.com/soupgym/soupgym/internal/gen/archetype"
	"github.com/soupgym/soupgym/internal/store"
)

// newRegistry builds the archetype table shared by every command.
func newRegistry() (*gen.Registry, error) {
	return archetype.DefaultRegistry()
}

// loadConfig reads and validates the configuration.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// openStore opens the SQLite store from config.
func openStore(cfg config.Config) (*store.DB, error) {
	db, err := store.Open(cfg.Storage.Dir)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return db, nil
}

// parseSeed parses a decimal seed argument.
func parseSeed(arg string) (uint64, error) {
	seed, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("seed must be a non-negative integer, got %q", arg)
	}
	return seed, nil
}

// printJSON pretty-prints a value to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readFileOrStdin reads a path, treating "-" as stdin.
func readFileOrStdin(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
