// Package price turns Jupiter quotes into SOL/USDC prices.
package price

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	dex "soltrader-go/internal/dex/solana"
	"soltrader-go/internal/metrics"
)

const (
	// SpotTTL is how long a read-path price is reused.
	SpotTTL = 10 * time.Second
	// spotSlippageBps is used for the display quote of one SOL.
	spotSlippageBps = 1
)

// Quoter is the part of the Jupiter client the fetcher needs.
type Quoter interface {
	GetQuote(ctx context.Context, inputMint, outputMint string, amount uint64, slippageBps int) (*dex.Quote, error)
}

// Reading is the read-path price payload. Price is nil when the quote failed.
type Reading struct {
	Price *float64 `json:"price"`
	Time  int64    `json:"time"`
	Error string   `json:"error,omitempty"`
}

// Fetcher queries quotes for a fixed trade size.
type Fetcher struct {
	quoter Quoter
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	cached   Reading
	cachedAt time.Time
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) { f.now = now }
}

// WithTTL overrides SpotTTL. Zero disables caching.
func WithTTL(ttl time.Duration) Option {
	return func(f *Fetcher) { f.ttl = ttl }
}

// NewFetcher builds a fetcher over quoter.
func NewFetcher(quoter Quoter, opts ...Option) *Fetcher {
	f := &Fetcher{quoter: quoter, ttl: SpotTTL, now: time.Now}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Lamports converts a SOL size into lamports, rounding down.
func Lamports(sizeSOL float64) uint64 {
	return uint64(decimal.NewFromFloat(sizeSOL).Mul(decimal.NewFromInt(dex.LamportsPerSOL)).Floor().IntPart())
}

// ForSize quotes sizeSOL -> USDC and returns the USDC price of one SOL.
func (f *Fetcher) ForSize(ctx context.Context, sizeSOL float64, slippageBps int) (float64, error) {
	amount := Lamports(sizeSOL)
	if amount == 0 {
		return 0, errors.New("trade size rounds to zero lamports")
	}
	quote, err := f.quoter.GetQuote(ctx, dex.SOLMint, dex.USDCMint, amount, slippageBps)
	if err != nil {
		return 0, fmt.Errorf("quote: %w", err)
	}
	out, err := decimal.NewFromString(quote.OutAmount)
	if err != nil {
		return 0, fmt.Errorf("parse outAmount %q: %w", quote.OutAmount, err)
	}
	px := out.Div(decimal.NewFromInt(dex.USDCUnits)).Div(decimal.NewFromFloat(sizeSOL))
	return px.InexactFloat64(), nil
}

// Spot returns the price of one SOL for display. Failures are reported in the
// reading rather than returned.
func (f *Fetcher) Spot(ctx context.Context) Reading {
	now := f.now()

	f.mu.Lock()
	if f.ttl > 0 && f.cached.Price != nil && now.Sub(f.cachedAt) < f.ttl {
		r := f.cached
		f.mu.Unlock()
		return r
	}
	f.mu.Unlock()

	px, err := f.ForSize(ctx, 1, spotSlippageBps)
	if err != nil {
		metrics.QuoteFailuresTotal.WithLabelValues("spot").Inc()
		return Reading{Time: now.UnixMilli(), Error: err.Error()}
	}
	r := Reading{Price: &px, Time: now.UnixMilli()}

	f.mu.Lock()
	f.cached, f.cachedAt = r, now
	f.mu.Unlock()
	return r
}

// USDCUnits converts a USD notional into USDC base units, rounding down.
func USDCUnits(usd float64) uint64 {
	return uint64(decimal.NewFromFloat(usd).Mul(decimal.NewFromInt(dex.USDCUnits)).Floor().IntPart())
}
