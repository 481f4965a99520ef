package ledger

import (
	"strings"
	"time"

	"soltrader-go/internal/history"
)

// Ledger is the bounded trade list of one tick or status read. Each caller
// loads its own copy from the store; a Ledger is not safe for concurrent use.
type Ledger struct {
	records *history.Bounded[TradeRecord]
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{records: history.New[TradeRecord](Capacity)}
}

// FromRecords seeds a ledger with persisted records, oldest first.
func FromRecords(records []TradeRecord) *Ledger {
	return &Ledger{records: history.From(Capacity, records)}
}

// Record appends a trade record.
func (l *Ledger) Record(rec TradeRecord) {
	l.records.Append(rec)
}

// Snapshot returns a copy of the records, oldest first.
func (l *Ledger) Snapshot() []TradeRecord {
	return l.records.Values()
}

// Recent returns up to n records, newest first.
func (l *Ledger) Recent(n int) []TradeRecord {
	return l.records.Tail(n)
}

// Len reports the number of stored records.
func (l *Ledger) Len() int {
	return l.records.Len()
}

// CountOn counts records stamped on the UTC day of t.
func (l *Ledger) CountOn(t time.Time) int {
	return CountOn(l.Snapshot(), t)
}

// CountOn counts records whose time string starts with the UTC date of t.
func CountOn(records []TradeRecord, t time.Time) int {
	day := Day(t)
	count := 0
	for _, rec := range records {
		if strings.HasPrefix(rec.Time, day) {
			count++
		}
	}
	return count
}
