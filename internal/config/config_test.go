package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"abstention too high", func(c *Config) { c.Reward.AbstentionReward = 1.0 }},
		{"abstention zero", func(c *Config) { c.Reward.AbstentionReward = 0 }},
		{"positive safety penalty", func(c *Config) { c.Reward.SafetyPenalty = 0.5 }},
		{"zero efficiency floor", func(c *Config) { c.Reward.EfficiencyFloor = 0 }},
		{"negative slope", func(c *Config) { c.Reward.EfficiencySlope = -0.1 }},
		{"zero cutoff margin", func(c *Config) { c.Reward.CutoffMargin = 0 }},
		{"negative tier", func(c *Config) { c.Reward.CreditTiers = []float64{-0.05} }},
		{"credit cap reaches abstention", func(c *Config) {
			c.Reward.CreditTiers = []float64{0.2, 0.2, 0.2}
			c.Reward.CreditCap = 0.5
		}},
		{"negative tool weight", func(c *Config) { c.Reward.ToolWeights["exec"] = -1 }},
		{"zero sandbox timeout", func(c *Config) { c.Sandbox.TimeoutSeconds = 0 }},
		{"zero output cap", func(c *Config) { c.Sandbox.OutputCapBytes = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should reject this config")
			}
		})
	}
}

// The cap bites only on the effective credit: huge tiers behind a small
// cap are fine.
func TestValidate_CapClampsTiers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Reward.CreditTiers = []float64{1, 1, 1}
	cfg.Reward.CreditCap = 0.3
	if err := cfg.Validate(); err != nil {
		t.Errorf("capped oversized tiers should validate: %v", err)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("SOUPGYM_HOME", t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.API.Port != DefaultConfig().API.Port {
		t.Errorf("Port = %d, want default %d", cfg.API.Port, DefaultConfig().API.Port)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Setenv("SOUPGYM_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.API.Port = 9999
	cfg.Sandbox.TimeoutSeconds = 30
	cfg.Reward.AbstentionReward = 0.4
	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.API.Port != 9999 {
		t.Errorf("Port = %d, want 9999", loaded.API.Port)
	}
	if loaded.Sandbox.TimeoutSeconds != 30 {
		t.Errorf("TimeoutSeconds = %d, want 30", loaded.Sandbox.TimeoutSeconds)
	}
	if loaded.Reward.AbstentionReward != 0.4 {
		t.Errorf("AbstentionReward = %v, want 0.4", loaded.Reward.AbstentionReward)
	}
}

func TestLoad_RejectsInvalidFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SOUPGYM_HOME", home)

	bad := "[reward]\nsafety_penalty = 1.0\n"
	if err := os.WriteFile(filepath.Join(home, "config.toml"), []byte(bad), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Error("Load() should reject a config breaking the reward invariants")
	}
}
