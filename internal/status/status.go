// Package status assembles the dashboard snapshot: wallet balances, recent
// trades, the active configuration, and daily counters.
package status

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"soltrader-go/internal/config"
	"soltrader-go/internal/ledger"
	"soltrader-go/internal/store"
)

// RecentTrades is how many ledger records the snapshot carries.
const RecentTrades = 50

// NotConfigured is the wallet address reported when no key is set.
const NotConfigured = "not configured"

// Balances reads the configured wallet.
type Balances interface {
	Address() string
	SOLBalance(ctx context.Context) (float64, error)
	USDCBalance(ctx context.Context) (float64, error)
}

// Wallet is the balance section of the snapshot.
type Wallet struct {
	Address string  `json:"address"`
	SOL     float64 `json:"sol"`
	USDC    float64 `json:"usdc"`
	Error   string  `json:"error,omitempty"`
}

// Settings echoes the trading configuration as display strings.
type Settings struct {
	Strategy  string `json:"strategy"`
	TradeSize string `json:"trade_size"`
	Slippage  string `json:"slippage"`
	MaxDaily  string `json:"max_daily"`
	DryRun    string `json:"dry_run"`
}

// Stats are the ledger counters.
type Stats struct {
	TotalTrades int `json:"totalTrades"`
	TodayTrades int `json:"todayTrades"`
	MaxDaily    int `json:"maxDaily"`
}

// Snapshot is the full status payload.
type Snapshot struct {
	Wallet Wallet               `json:"wallet"`
	Trades []ledger.TradeRecord `json:"trades"`
	Config Settings             `json:"config"`
	Stats  Stats                `json:"stats"`
}

// Aggregator builds snapshots. A nil wallet means no key is configured.
type Aggregator struct {
	log     zerolog.Logger
	trades  store.Trades
	wallet  Balances
	trading config.Trading
	now     func() time.Time
}

// NewAggregator wires an aggregator over the store.
func NewAggregator(log zerolog.Logger, st store.Store, wallet Balances, trading config.Trading) *Aggregator {
	return &Aggregator{
		log:     log,
		trades:  store.Trades{Store: st},
		wallet:  wallet,
		trading: trading,
		now:     time.Now,
	}
}

// Snapshot collects the current status. Wallet and ledger failures degrade the
// corresponding section instead of failing the call.
func (a *Aggregator) Snapshot(ctx context.Context) Snapshot {
	records := []ledger.TradeRecord{}
	book, err := a.trades.Load(ctx)
	if err != nil {
		a.log.Warn().Err(err).Msg("load trades")
	} else {
		records = book.Snapshot()
	}

	recent := make([]ledger.TradeRecord, 0, RecentTrades)
	for i := len(records) - 1; i >= 0 && len(recent) < RecentTrades; i-- {
		recent = append(recent, records[i])
	}

	return Snapshot{
		Wallet: a.balances(ctx),
		Trades: recent,
		Config: DescribeTrading(a.trading),
		Stats: Stats{
			TotalTrades: len(records),
			TodayTrades: ledger.CountOn(records, a.now()),
			MaxDaily:    a.trading.MaxDailyTrades,
		},
	}
}

func (a *Aggregator) balances(ctx context.Context) Wallet {
	if a.wallet == nil {
		return Wallet{Address: NotConfigured}
	}
	w := Wallet{Address: a.wallet.Address()}
	sol, err := a.wallet.SOLBalance(ctx)
	if err != nil {
		a.log.Warn().Err(err).Msg("wallet balance")
		w.Error = err.Error()
		return w
	}
	w.SOL = sol
	// A wallet without a USDC account simply holds none.
	if usdc, err := a.wallet.USDCBalance(ctx); err == nil {
		w.USDC = usdc
	}
	return w
}

// DescribeTrading renders the trading configuration for display.
func DescribeTrading(t config.Trading) Settings {
	dry := "NO"
	if t.DryRun {
		dry = "YES"
	}
	return Settings{
		Strategy:  t.Strategy,
		TradeSize: strconv.FormatFloat(t.TradeSizeSOL, 'f', -1, 64) + " SOL",
		Slippage:  strconv.Itoa(t.SlippageBps) + " bps",
		MaxDaily:  strconv.Itoa(t.MaxDailyTrades),
		DryRun:    dry,
	}
}
