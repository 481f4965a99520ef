// Package risk holds the guard-rails checked before a strategy is allowed to trade.
package risk

import (
	"fmt"
	"time"

	"soltrader-go/internal/ledger"
)

// DailyCap limits how many trades may be recorded per UTC day.
type DailyCap struct {
	Max int
}

// Check counts today's records and reports whether another trade is allowed.
func (c DailyCap) Check(records []ledger.TradeRecord, now time.Time) (count int, ok bool) {
	count = ledger.CountOn(records, now)
	return count, count < c.Max
}

// Reason is the hold reason reported when the cap is hit.
func (c DailyCap) Reason() string {
	return fmt.Sprintf("Daily limit reached (%d)", c.Max)
}
