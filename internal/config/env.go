package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// FromEnv builds the process configuration: defaults, then the YAML file at
// path (skipped when it does not exist), then environment variables. A .env
// file in the working directory is loaded first without overriding variables
// that are already set.
func FromEnv(path string) (*Config, error) {
	_ = godotenv.Load() // best-effort

	cfg := Default()
	if path != "" {
		loaded, err := Load(path)
		switch {
		case err == nil:
			cfg = loaded
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, err
		}
	}
	if err := ApplyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables onto cfg.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("STRATEGY", &cfg.Trading.Strategy)
	str("RPC_URL", &cfg.Dex.RpcURL)
	str("JUPITER_BASE_URL", &cfg.Dex.JupiterBase)
	str("SOLANA_COMMITMENT", &cfg.Dex.Commitment)
	str("PRIVATE_KEY", &cfg.Wallet.PrivateKeyBase58)
	str("CRON_SECRET", &cfg.Auth.CronSecret)
	str("HTTP_ADDR", &cfg.App.HTTPAddr)
	str("STORE_PATH", &cfg.Store.Path)
	str("AUDIT_PATH", &cfg.Store.AuditPath)
	str("LOG_LEVEL", &cfg.App.LogLevel)

	if v, ok := lookup("TRADE_AMOUNT_SOL"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("TRADE_AMOUNT_SOL: %w", err)
		}
		cfg.Trading.TradeSizeSOL = f
	}
	if v, ok := lookup("SLIPPAGE_BPS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SLIPPAGE_BPS: %w", err)
		}
		cfg.Trading.SlippageBps = n
	}
	if v, ok := lookup("MAX_DAILY_TRADES"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MAX_DAILY_TRADES: %w", err)
		}
		cfg.Trading.MaxDailyTrades = n
	}
	// Anything other than the literal "false" keeps dry-run on.
	if v, ok := lookup("DRY_RUN"); ok {
		cfg.Trading.DryRun = v != "false"
	}
	if v, ok := lookup("TRACING_ENABLED"); ok {
		cfg.App.Tracing = strings.EqualFold(v, "true")
	}
	if v, ok := lookup("STORE_IN_MEMORY"); ok {
		cfg.Store.InMemory = strings.EqualFold(v, "true")
	}
	return nil
}
