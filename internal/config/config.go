// Package config exposes strongly typed application configuration loaded from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"soltrader-go/internal/strategy"
)

// App captures process-wide runtime settings such as name, listen address, and logging level.
type App struct {
	Name     string `yaml:"name"`
	Env      string `yaml:"env"`
	HTTPAddr string `yaml:"http_addr"`
	LogLevel string `yaml:"log_level"`
	Tracing  bool   `yaml:"tracing"`
}

// Trading holds the knobs of the decision loop.
type Trading struct {
	Strategy       string  `yaml:"strategy"`
	TradeSizeSOL   float64 `yaml:"trade_size_sol"`
	SlippageBps    int     `yaml:"slippage_bps"`
	MaxDailyTrades int     `yaml:"max_daily_trades"`
	DryRun         bool    `yaml:"dry_run"`
}

// Auth guards the trade trigger endpoint.
type Auth struct {
	CronSecret string `yaml:"cron_secret"`
}

// Store locates the embedded key-value store and the audit trail.
type Store struct {
	Path      string `yaml:"path"`
	InMemory  bool   `yaml:"in_memory"`
	AuditPath string `yaml:"audit_path"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App     App     `yaml:"app"`
	Trading Trading `yaml:"trading"`
	Dex     Dex     `yaml:"dex"`
	Wallet  Wallet  `yaml:"wallet"`
	Auth    Auth    `yaml:"auth"`
	Store   Store   `yaml:"store"`
}

// Default returns the configuration used when neither file nor environment say otherwise.
func Default() *Config {
	return &Config{
		App: App{
			Name:     "soltrader",
			Env:      "dev",
			HTTPAddr: ":8080",
			LogLevel: "info",
		},
		Trading: Trading{
			Strategy:       strategy.ModeDCA,
			TradeSizeSOL:   0.01,
			SlippageBps:    50,
			MaxDailyTrades: 20,
			DryRun:         true,
		},
		Dex: Dex{
			Chain:       "solana",
			RpcURL:      DefaultRPCURL,
			Commitment:  "confirmed",
			JupiterBase: DefaultJupiterBase,
		},
		Store: Store{
			Path: "data/store",
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
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

var (
	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrTradeSize       = errors.New("trade_size_sol must be > 0")
	ErrSlippage        = errors.New("slippage_bps must be >= 0")
	ErrMaxDaily        = errors.New("max_daily_trades must be >= 0")
)

// Validate rejects settings the decision loop cannot run with.
func (c *Config) Validate() error {
	if !strategy.Known(c.Trading.Strategy) {
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, c.Trading.Strategy)
	}
	if c.Trading.TradeSizeSOL <= 0 {
		return ErrTradeSize
	}
	if c.Trading.SlippageBps < 0 {
		return ErrSlippage
	}
	if c.Trading.MaxDailyTrades < 0 {
		return ErrMaxDaily
	}
	if _, err := c.Dex.CommitmentLevel(); err != nil {
		return err
	}
	return nil
}

// StrategyMode returns the canonical strategy name.
func (c *Config) StrategyMode() string {
	return strategy.Normalize(c.Trading.Strategy)
}
