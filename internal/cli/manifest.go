package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soupgym/soupgym/internal/store"
)

func init() {
	manifestCmd.AddCommand(manifestCreateCmd)
	manifestCmd.AddCommand(manifestAddCmd)
	manifestCmd.AddCommand(manifestFreezeCmd)
	manifestCmd.AddCommand(manifestVerifyCmd)
	manifestCmd.AddCommand(manifestShowCmd)
	rootCmd.AddCommand(manifestCmd)
}

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Manage frozen benchmark manifests",
	Long: `A manifest is a versioned list of (archetype, seed) pairs. Freezing
seals it under a content hash; frozen manifests are immutable so
cross-run and cross-model comparisons stay honest.`,
}

var manifestCreateCmd = &cobra.Command{
	Use:   "create VERSION",
	Short: "Create a new, unfrozen manifest version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(db *store.DB) error {
			return db.CreateVersion(args[0])
		})
	},
}

var manifestAddCmd = &cobra.Command{
	Use:   "add VERSION ARCHETYPE SEED",
	Short: "Append an entry to an unfrozen manifest",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, err := parseSeed(args[2])
		if err != nil {
			return err
		}
		// Reject pairs the generator cannot honor before they reach a
		// benchmark anyone depends on.
		registry, err := newRegistry()
		if err != nil {
			return err
		}
		if _, err := registry.Generate(args[1], seed); err != nil {
			return err
		}
		return withStore(func(db *store.DB) error {
			return db.Append(args[0], store.ManifestEntry{ArchetypeID: args[1], Seed: seed})
		})
	},
}

var manifestFreezeCmd = &cobra.Command{
	Use:   "freeze VERSION",
	Short: "Seal a manifest version under its content hash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(db *store.DB) error {
			hash, err := db.Freeze(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("frozen %s (%s)\n", args[0], hash)
			return nil
		})
	},
}

var manifestVerifyCmd = &cobra.Command{
	Use:   "verify VERSION",
	Short: "Recompute and compare a frozen manifest's content hash",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(db *store.DB) error {
			if err := db.Verify(args[0]); err != nil {
				return err
			}
			fmt.Printf("ok: %s\n", args[0])
			return nil
		})
	},
}

var manifestShowCmd = &cobra.Command{
	Use:   "show [VERSION]",
	Short: "List manifest versions, or one version's entries",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(db *store.DB) error {
			if len(args) == 0 {
				versions, err := db.Versions()
				if err != nil {
					return err
				}
				return printJSON(versions)
			}
			entries, err := db.Entries(args[0])
			if err != nil {
				return err
			}
			return printJSON(entries)
		})
	},
}

// withStore opens the store from config and runs fn against it.
func withStore(fn func(*store.DB) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}
