package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Wallet.MaxAttempts != 3 {
		t.Errorf("max attempts = %d", cfg.Wallet.MaxAttempts)
	}
	if cfg.Wallet.InitTimeout != 5*time.Second {
		t.Errorf("init timeout = %s", cfg.Wallet.InitTimeout)
	}
	if cfg.Wallet.AccountDebounce != 500*time.Millisecond || cfg.Wallet.ChainDebounce != time.Second {
		t.Errorf("debounce = %s / %s", cfg.Wallet.AccountDebounce, cfg.Wallet.ChainDebounce)
	}
	if cfg.Rewards.LogCapacity != 50 {
		t.Errorf("log capacity = %d", cfg.Rewards.LogCapacity)
	}
	if !cfg.Rewards.PerContributionDecimal().Equal(decimal.NewFromInt(10)) {
		t.Errorf("per contribution = %s", cfg.Rewards.PerContributionDecimal())
	}
	if len(cfg.Moderation.BlockedKeywords) == 0 {
		t.Error("expected default blocked keywords")
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rewards.yaml")
	body := []byte(`
wallet:
  bridge_url: ws://localhost:8546
  max_attempts: 5
rewards:
  per_contribution: 2.5
storage:
  driver: memory
`)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("REWARDS_WALLET_CHAIN_ID", "137")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Wallet.BridgeURL != "ws://localhost:8546" || cfg.Wallet.MaxAttempts != 5 {
		t.Errorf("wallet = %+v", cfg.Wallet)
	}
	if cfg.Wallet.ChainID != 137 {
		t.Errorf("chain id from env = %d", cfg.Wallet.ChainID)
	}
	if !cfg.Rewards.PerContributionDecimal().Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("per contribution = %s", cfg.Rewards.PerContributionDecimal())
	}
	if cfg.Storage.Driver != "memory" {
		t.Errorf("storage driver = %s", cfg.Storage.Driver)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Wallet: WalletConfig{
				MaxAttempts: 3,
				InitTimeout: time.Second,
				DemoAddress: "0x1111111111111111111111111111111111111111",
			},
			Rewards: RewardsConfig{PerContribution: 1, LogCapacity: 50},
			Storage: StorageConfig{Driver: "memory"},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero_attempts", func(c *Config) { c.Wallet.MaxAttempts = 0 }},
		{"no_timeout", func(c *Config) { c.Wallet.InitTimeout = 0 }},
		{"bad_demo_address", func(c *Config) { c.Wallet.DemoAddress = "demo" }},
		{"zero_reward", func(c *Config) { c.Rewards.PerContribution = 0 }},
		{"negative_baseline", func(c *Config) { c.Rewards.DemoBaseline = -1 }},
		{"zero_capacity", func(c *Config) { c.Rewards.LogCapacity = 0 }},
		{"sqlite_without_path", func(c *Config) { c.Storage = StorageConfig{Driver: "sqlite"} }},
		{"unknown_driver", func(c *Config) { c.Storage.Driver = "redis" }},
	}

	base := valid()
	if err := base.Validate(); err != nil {
		t.Fatalf("baseline config invalid: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
