// Package config loads soupgym configuration from TOML. Reward-shaping
// constants are product-tuning knobs and live here, never hardcoded in
// the verifier.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/soupgym/soupgym/internal/domain"
)

// Config holds all soupgym configuration.
type Config struct {
	API     APIConfig     `toml:"api"`
	Sandbox SandboxConfig `toml:"sandbox"`
	Reward  RewardConfig  `toml:"reward"`
	Storage StorageConfig `toml:"storage"`
}

// APIConfig controls the HTTP grading API.
type APIConfig struct {
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	Metrics bool   `toml:"metrics"`
}

// SandboxConfig controls submitted-code execution.
type SandboxConfig struct {
	// Backend selects "local" (dev) or "isolated" (hardened grading).
	Backend string `toml:"backend"`
	Python  string `toml:"python"`
	// IsolationArgv prefixes the interpreter argv for the isolated
	// backend, e.g. ["unshare", "--net", "--map-root-user"].
	IsolationArgv    []string `toml:"isolation_argv"`
	TimeoutSeconds   int      `toml:"timeout_seconds"`
	KillGraceSeconds int      `toml:"kill_grace_seconds"`
	OutputCapBytes   int      `toml:"output_cap_bytes"`
	AllowNetwork     bool     `toml:"allow_network"`
}

// StorageConfig controls the SQLite manifest/result store.
type StorageConfig struct {
	Dir string `toml:"dir"`
}

// RewardConfig carries the tunable constants of the reward engine. The
// decision-procedure semantics (1.0 / 0.5 / 0.0 branches) are fixed;
// everything here only shapes the curve around them.
type RewardConfig struct {
	// ToolWeights prices one call of each tool kind.
	ToolWeights map[string]float64 `toml:"tool_weights"`
	// EfficiencySlope is the multiplier lost per weighted call above
	// the archetype's optimal budget.
	EfficiencySlope float64 `toml:"efficiency_slope"`
	// EfficiencyFloor bounds the multiplier from below.
	EfficiencyFloor float64 `toml:"efficiency_floor"`
	// CutoffMargin: weighted calls above budget beyond which a positive
	// reward collapses to zero. Limit answers are exempt.
	CutoffMargin float64 `toml:"cutoff_margin"`
	// CreditTiers are the per-tier process-credit values, in gate
	// order: imported library, parsed live input, queried the parse.
	CreditTiers []float64 `toml:"credit_tiers"`
	// CreditCap bounds total process credit; must stay strictly below
	// AbstentionReward.
	CreditCap        float64 `toml:"credit_cap"`
	AbstentionReward float64 `toml:"abstention_reward"`
	SafetyPenalty    float64 `toml:"safety_penalty"`
}

// DefaultConfig returns the shipped defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Host:    "127.0.0.1",
			Port:    8750,
			Metrics: true,
		},
		Sandbox: SandboxConfig{
			Backend:          "local",
			Python:           "python3",
			TimeoutSeconds:   10,
			KillGraceSeconds: 3,
			OutputCapBytes:   64 * 1024,
			AllowNetwork:     false,
		},
		Reward: RewardConfig{
			ToolWeights: map[string]float64{
				string(domain.ToolExec):    1.0,
				string(domain.ToolInspect): 0.25,
			},
			EfficiencySlope:  0.15,
			EfficiencyFloor:  0.2,
			CutoffMargin:     8,
			CreditTiers:      []float64{0.05, 0.1, 0.15},
			CreditCap:        0.3,
			AbstentionReward: 0.5,
			SafetyPenalty:    -0.5,
		},
		Storage: StorageConfig{
			Dir: filepath.Join(soupgymHome(), "data"),
		},
	}
}

// Load reads config from $SOUPGYM_HOME/config.toml, falling back to
// defaults when the file does not exist.
func Load() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(soupgymHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, cfg.Validate()
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Save writes the config to $SOUPGYM_HOME/config.toml.
func Save(cfg Config) error {
	path := filepath.Join(soupgymHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// Validate enforces the cross-constant invariants the anti-hacking
// design depends on. A config that breaks them is rejected outright;
// a quietly clamped value would change grading semantics behind the
// operator's back.
func (c *Config) Validate() error {
	r := &c.Reward
	if r.AbstentionReward <= 0 || r.AbstentionReward >= 1 {
		return fmt.Errorf("reward.abstention_reward %v out of (0,1)", r.AbstentionReward)
	}
	if r.SafetyPenalty >= 0 {
		return fmt.Errorf("reward.safety_penalty %v must be negative", r.SafetyPenalty)
	}
	if r.EfficiencyFloor <= 0 || r.EfficiencyFloor > 1 {
		return fmt.Errorf("reward.efficiency_floor %v out of (0,1]", r.EfficiencyFloor)
	}
	if r.EfficiencySlope < 0 {
		return fmt.Errorf("reward.efficiency_slope %v must not be negative", r.EfficiencySlope)
	}
	if r.CutoffMargin <= 0 {
		return fmt.Errorf("reward.cutoff_margin %v must be positive", r.CutoffMargin)
	}
	var tierSum float64
	for i, v := range r.CreditTiers {
		if v < 0 {
			return fmt.Errorf("reward.credit_tiers[%d] %v must not be negative", i, v)
		}
		tierSum += v
	}
	if r.CreditCap < 0 {
		return fmt.Errorf("reward.credit_cap %v must not be negative", r.CreditCap)
	}
	// "Correctly abstaining" must always outscore "tried something
	// library-shaped and failed".
	cap := r.CreditCap
	if tierSum < cap {
		cap = tierSum
	}
	if cap >= r.AbstentionReward {
		return fmt.Errorf("process credit cap %v must stay strictly below abstention reward %v", cap, r.AbstentionReward)
	}
	for kind, w := range r.ToolWeights {
		if w < 0 {
			return fmt.Errorf("reward.tool_weights[%s] %v must not be negative", kind, w)
		}
	}
	if c.Sandbox.TimeoutSeconds <= 0 {
		return fmt.Errorf("sandbox.timeout_seconds must be positive")
	}
	if c.Sandbox.OutputCapBytes <= 0 {
		return fmt.Errorf("sandbox.output_cap_bytes must be positive")
	}
	return nil
}

// soupgymHome returns the soupgym data directory.
func soupgymHome() string {
	if env := os.Getenv("SOUPGYM_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".soupgym")
}

// Home is exported for use by other packages.
func Home() string {
	return soupgymHome()
}
