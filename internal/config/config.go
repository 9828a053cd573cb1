// Package config exposes strongly typed application configuration structs loaded from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Run modes accepted by the engine.
const (
	ModeSimulate = "SIMULATE"
	ModeLive     = "LIVE"
)

// App captures process-wide runtime settings such as name, environment, metrics, and logging levels.
type App struct {
	Name        string `yaml:"name"`
	Env         string `yaml:"env"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
}

// Ledger describes connectivity to the XRPL node the engine talks to.
type Ledger struct {
	RPCURL    string `yaml:"rpc_url"`
	WSURL     string `yaml:"ws_url"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// Wallets points at the credential files on disk. The source file must hold
// full signing material; only the address is read from the vault file.
type Wallets struct {
	SourcePath string `yaml:"source_path"`
	VaultPath  string `yaml:"vault_path"`
}

// Risk encodes the sizing policy: reserve floor, tier, and the protocol fee leg.
type Risk struct {
	Tier         string `yaml:"tier"`
	ReserveDrops int64  `yaml:"reserve_drops"`
	FeeBps       int64  `yaml:"fee_bps"`
	MinFeeDrops  int64  `yaml:"min_fee_drops"`
}

// Audit configures the append-only settlement outbox.
type Audit struct {
	OutboxPath string `yaml:"outbox_path"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App    App     `yaml:"app"`
	Mode   string  `yaml:"mode"`
	Ledger Ledger  `yaml:"ledger"`
	Wallet Wallets `yaml:"wallet"`
	Risk   Risk    `yaml:"risk"`
	Audit  Audit   `yaml:"audit"`
}

// Default returns the configuration used when no file or flag overrides are given:
// simulation mode, moderate risk, the public s1 cluster.
func Default() *Config {
	return &Config{
		App: App{
			Name:        "sweepbot",
			Env:         "dev",
			MetricsAddr: ":9180",
			LogLevel:    "info",
		},
		Mode: ModeSimulate,
		Ledger: Ledger{
			RPCURL:    "https://s1.ripple.com:51234/",
			WSURL:     "wss://s1.ripple.com:443/",
			TimeoutMs: 10000,
		},
		Wallet: Wallets{
			SourcePath: "config/source_wallet.json",
			VaultPath:  "config/vault_wallet.json",
		},
		Risk: Risk{
			Tier:         "moderate",
			ReserveDrops: 10_000_000, // 10 XRP on-chain reserve kept untouched
			FeeBps:       5,
			MinFeeDrops:  10,
		},
		Audit: Audit{
			OutboxPath: "config/settlement_outbox.jsonl",
		},
	}
}

// Load reads a YAML file from disk and hydrates a Config struct on top of the defaults.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	config := Default()
	if err := yaml.NewDecoder(file).Decode(config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return config, nil
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Mode != ModeSimulate && c.Mode != ModeLive {
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if c.Ledger.RPCURL == "" {
		return fmt.Errorf("ledger rpc_url is required")
	}
	if c.Wallet.SourcePath == "" {
		return fmt.Errorf("wallet source_path is required")
	}
	if c.Risk.ReserveDrops < 0 {
		return fmt.Errorf("reserve_drops must not be negative")
	}
	if c.Risk.FeeBps < 0 || c.Risk.MinFeeDrops < 0 {
		return fmt.Errorf("fee settings must not be negative")
	}
	if c.Risk.FeeBps > 10_000 {
		return fmt.Errorf("fee_bps %d exceeds 10000 (100%%)", c.Risk.FeeBps)
	}
	if c.Audit.OutboxPath == "" {
		return fmt.Errorf("audit outbox_path is required")
	}
	return nil
}
