// Package signal standardizes payloads shared between the price feed, strategies and the executor.
package signal

import (
	"strings"
	"time"
)

// PriceSample is one observed SOL/USDC price. Time is epoch milliseconds.
type PriceSample struct {
	Price float64 `json:"price"`
	Time  int64   `json:"time"`
}

// NewSample stamps a price with the given wall clock time.
func NewSample(price float64, ts time.Time) PriceSample {
	return PriceSample{Price: price, Time: ts.UnixMilli()}
}

// Prices flattens samples into their price series, oldest first.
func Prices(samples []PriceSample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Price
	}
	return out
}

// Action is the verdict a strategy reaches on a tick.
type Action string

const (
	Hold Action = "hold"
	Buy  Action = "buy"
	Sell Action = "sell"
)

// Upper renders the action the way the ledger stores it (BUY/SELL).
func (a Action) Upper() string { return strings.ToUpper(string(a)) }

// Trades reports whether the action should reach the executor.
func (a Action) Trades() bool { return a == Buy || a == Sell }

// Decision expresses a strategy verdict plus its human-readable rationale.
type Decision struct {
	Action Action
	Reason string
}

// HoldWith is shorthand for a hold decision.
func HoldWith(reason string) Decision {
	return Decision{Action: Hold, Reason: reason}
}
