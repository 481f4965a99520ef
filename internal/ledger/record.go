// Package ledger holds the bounded trade ledger and its audit recorder.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	sig "soltrader-go/internal/signal"
)

// Capacity is the number of trade records kept; older records are evicted first.
const Capacity = 500

// Sentinel transaction references stored when no signature exists.
const (
	TxDryRun = "DRY_RUN"
	TxNoKey  = "NO_KEY"
)

// TimeLayout is the ISO-8601 UTC layout records are stamped with. Its date
// prefix is what the daily cap matches against.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// TradeRecord is one executed (or simulated) decision. Immutable once appended.
type TradeRecord struct {
	Time   string `json:"time"`
	Action string `json:"action"`
	Amount string `json:"amount"`
	Price  string `json:"price"`
	Tx     string `json:"tx"`
	Reason string `json:"reason"`
}

// NewRecord renders a decision into the ledger's string format.
func NewRecord(now time.Time, action sig.Action, sizeSOL, price float64, tx, reason string) TradeRecord {
	return TradeRecord{
		Time:   now.UTC().Format(TimeLayout),
		Action: action.Upper(),
		Amount: FormatAmount(sizeSOL),
		Price:  FormatPrice(price),
		Tx:     tx,
		Reason: reason,
	}
}

// FormatAmount renders a SOL size like "0.01 SOL".
func FormatAmount(sizeSOL float64) string {
	return decimal.NewFromFloat(sizeSOL).String() + " SOL"
}

// FormatPrice renders a USD price with four decimals, like "$142.3100".
func FormatPrice(price float64) string {
	return "$" + decimal.NewFromFloat(price).StringFixed(4)
}

// Day returns the UTC date prefix (YYYY-MM-DD) of t.
func Day(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
