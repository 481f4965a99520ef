package status

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"soltrader-go/internal/config"
	"soltrader-go/internal/ledger"
	sig "soltrader-go/internal/signal"
	"soltrader-go/internal/store"
)

type stubWallet struct {
	sol, usdc       float64
	solErr, usdcErr error
}

func (s stubWallet) Address() string { return "Wa11et" }

func (s stubWallet) SOLBalance(context.Context) (float64, error) { return s.sol, s.solErr }

func (s stubWallet) USDCBalance(context.Context) (float64, error) { return s.usdc, s.usdcErr }

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) ([]byte, error) { return nil, errors.New("disk on fire") }
func (brokenStore) Put(context.Context, string, []byte) error   { return errors.New("disk on fire") }
func (brokenStore) Close() error                                { return nil }

var today = time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)

func trading() config.Trading {
	return config.Trading{Strategy: "momentum", TradeSizeSOL: 0.25, SlippageBps: 50, MaxDailyTrades: 20, DryRun: true}
}

func openStore(t *testing.T) store.Store {
	t.Helper()
	db, err := store.OpenBadger(store.InMemoryBadgerConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSnapshotRecentTradesNewestFirst(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	book := ledger.New()
	for i := 0; i < 60; i++ {
		at := today.Add(-48 * time.Hour)
		if i >= 57 {
			at = today.Add(-time.Duration(60-i) * time.Minute)
		}
		book.Record(ledger.NewRecord(at, sig.Buy, 0.25, 100, ledger.TxDryRun, fmt.Sprintf("r%d", i)))
	}
	if err := (store.Trades{Store: st}).Save(ctx, book); err != nil {
		t.Fatalf("seed: %v", err)
	}

	agg := NewAggregator(zerolog.Nop(), st, nil, trading())
	agg.now = func() time.Time { return today }
	snap := agg.Snapshot(ctx)

	if len(snap.Trades) != RecentTrades {
		t.Fatalf("expected %d trades, got %d", RecentTrades, len(snap.Trades))
	}
	if snap.Trades[0].Reason != "r59" || snap.Trades[RecentTrades-1].Reason != "r10" {
		t.Fatalf("unexpected order %s .. %s", snap.Trades[0].Reason, snap.Trades[RecentTrades-1].Reason)
	}
	if snap.Stats != (Stats{TotalTrades: 60, TodayTrades: 3, MaxDaily: 20}) {
		t.Fatalf("unexpected stats %+v", snap.Stats)
	}
	if snap.Wallet.Address != NotConfigured {
		t.Fatalf("unexpected wallet %+v", snap.Wallet)
	}
}

func TestSnapshotWallet(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	agg := NewAggregator(zerolog.Nop(), st, stubWallet{sol: 1.5, usdcErr: errors.New("account not found")}, trading())
	w := agg.Snapshot(ctx).Wallet
	if w.Address != "Wa11et" || w.SOL != 1.5 || w.USDC != 0 || w.Error != "" {
		t.Fatalf("unexpected wallet %+v", w)
	}

	agg = NewAggregator(zerolog.Nop(), st, stubWallet{solErr: errors.New("rpc down")}, trading())
	w = agg.Snapshot(ctx).Wallet
	if w.Error != "rpc down" {
		t.Fatalf("expected wallet error, got %+v", w)
	}
}

func TestSnapshotDegradesOnStoreFailure(t *testing.T) {
	agg := NewAggregator(zerolog.Nop(), brokenStore{}, nil, trading())
	snap := agg.Snapshot(context.Background())
	if snap.Trades == nil || len(snap.Trades) != 0 || snap.Stats.TotalTrades != 0 {
		t.Fatalf("expected empty trades, got %+v", snap)
	}
}

func TestDescribeTrading(t *testing.T) {
	got := DescribeTrading(trading())
	want := Settings{Strategy: "momentum", TradeSize: "0.25 SOL", Slippage: "50 bps", MaxDaily: "20", DryRun: "YES"}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
	tr := trading()
	tr.DryRun = false
	if DescribeTrading(tr).DryRun != "NO" {
		t.Fatalf("expected NO")
	}
}
