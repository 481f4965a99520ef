package store

import (
	"context"

	"soltrader-go/internal/history"
	"soltrader-go/internal/ledger"
	"soltrader-go/internal/signal"
)

// Keys under which the bot state lives.
const (
	PricesKey = "sol-trader-prices"
	TradesKey = "sol-trader-trades"
)

// PriceHistoryCapacity bounds the persisted price history.
const PriceHistoryCapacity = 300

// Prices reads and writes the bounded price history.
type Prices struct {
	Store Store
}

// Load returns the persisted history, or an empty one if nothing was saved yet.
func (p Prices) Load(ctx context.Context) (*history.Bounded[signal.PriceSample], error) {
	buf := history.New[signal.PriceSample](PriceHistoryCapacity)
	if _, err := LoadJSON(ctx, p.Store, PricesKey, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Save writes the history back.
func (p Prices) Save(ctx context.Context, buf *history.Bounded[signal.PriceSample]) error {
	return SaveJSON(ctx, p.Store, PricesKey, buf)
}

// Append loads the history, appends sample, saves, and returns the updated history.
func (p Prices) Append(ctx context.Context, sample signal.PriceSample) (*history.Bounded[signal.PriceSample], error) {
	buf, err := p.Load(ctx)
	if err != nil {
		return nil, err
	}
	buf.Append(sample)
	if err := p.Save(ctx, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Trades reads and writes the bounded trade ledger.
type Trades struct {
	Store Store
}

// Load returns the persisted ledger, or an empty one.
func (t Trades) Load(ctx context.Context) (*ledger.Ledger, error) {
	var records []ledger.TradeRecord
	if _, err := LoadJSON(ctx, t.Store, TradesKey, &records); err != nil {
		return nil, err
	}
	return ledger.FromRecords(records), nil
}

// Save writes the ledger back, oldest record first.
func (t Trades) Save(ctx context.Context, l *ledger.Ledger) error {
	return SaveJSON(ctx, t.Store, TradesKey, l.Snapshot())
}
