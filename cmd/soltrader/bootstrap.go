package main

import (
	"context"
	"fmt"
	"os"
	"time"

	solana "github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"soltrader-go/internal/api"
	"soltrader-go/internal/config"
	dex "soltrader-go/internal/dex/solana"
	"soltrader-go/internal/engine"
	"soltrader-go/internal/execution"
	"soltrader-go/internal/ledger"
	"soltrader-go/internal/price"
	"soltrader-go/internal/risk"
	"soltrader-go/internal/status"
	"soltrader-go/internal/store"
	"soltrader-go/internal/strategy"
	"soltrader-go/internal/trace"
	"soltrader-go/internal/util"
)

// app holds the wired services for one process.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	db       *store.Badger
	recorder *ledger.JSONLRecorder
	fetcher  *price.Fetcher
	engine   *engine.Engine
	status   *status.Aggregator
	hub      *api.Hub
}

func bootstrap(cfg *config.Config) (*app, error) {
	log := util.NewLogger(cfg.App.LogLevel)

	if err := trace.Init(cfg.App.Tracing, os.Stderr, api.ServiceVersion); err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	badgerCfg := store.DefaultBadgerConfig(cfg.Store.Path)
	if cfg.Store.InMemory {
		badgerCfg = store.InMemoryBadgerConfig()
	}
	db, err := store.OpenBadger(badgerCfg, util.Component(log, "store"))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	var (
		owner    solana.PrivateKey
		swapper  execution.Swapper
		balances status.Balances
	)
	if cfg.Wallet.Configured() {
		key, err := dex.LoadPrivateKey(cfg.Wallet.PrivateKeyBase58)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("load private key: %w", err)
		}
		owner = key
		balances = dex.NewWalletReader(cfg.Dex.RpcURL, key.PublicKey(), cfg.Dex.Commitment)
	}
	jup := dex.NewJupiterClient(cfg.Dex.RpcURL, cfg.Dex.JupiterBase, owner, cfg.Dex.Commitment)
	if owner != nil {
		swapper = jup
	}

	fetcher := price.NewFetcher(jup)
	executor := execution.NewExecutor(util.Component(log, "execution"), swapper, execution.Params{
		SizeSOL:     cfg.Trading.TradeSizeSOL,
		SlippageBps: cfg.Trading.SlippageBps,
		DryRun:      cfg.Trading.DryRun,
	})
	hub := api.NewHub(util.Component(log, "stream"))

	opts := []engine.Option{engine.WithObserver(hub.Broadcast)}
	var recorder *ledger.JSONLRecorder
	if cfg.Store.AuditPath != "" {
		recorder, err = ledger.NewJSONLRecorder(cfg.Store.AuditPath)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("open audit trail: %w", err)
		}
		opts = append(opts, engine.WithRecorder(recorder))
	}

	eng := engine.New(util.Component(log, "engine"), engine.Deps{
		Store:    db,
		Prices:   fetcher,
		Strategy: strategy.Build(cfg.StrategyMode()),
		Executor: executor,
		Cap:      risk.DailyCap{Max: cfg.Trading.MaxDailyTrades},
	}, opts...)

	log.Info().
		Str("strategy", cfg.StrategyMode()).
		Str("mode", executor.Mode()).
		Float64("size_sol", cfg.Trading.TradeSizeSOL).
		Int("max_daily", cfg.Trading.MaxDailyTrades).
		Msg("bootstrap complete")

	return &app{
		cfg:      cfg,
		log:      log,
		db:       db,
		recorder: recorder,
		fetcher:  fetcher,
		engine:   eng,
		status:   status.NewAggregator(util.Component(log, "status"), db, balances, cfg.Trading),
		hub:      hub,
	}, nil
}

func (a *app) server() *api.Server {
	return api.NewServer(util.Component(a.log, "http"), api.Deps{
		Prices:     a.fetcher,
		Status:     a.status,
		Engine:     a.engine,
		History:    store.Prices{Store: a.db},
		Hub:        a.hub,
		CronSecret: a.cfg.Auth.CronSecret,
	})
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := trace.Shutdown(ctx); err != nil {
		a.log.Warn().Err(err).Msg("flush traces")
	}
	if a.recorder != nil {
		_ = a.recorder.Close()
	}
	if err := a.db.Close(); err != nil {
		a.log.Warn().Err(err).Msg("close store")
	}
}
