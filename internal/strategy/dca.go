package strategy

import (
	"fmt"

	sig "soltrader-go/internal/signal"
)

// DefaultDCAEvery is the buy cadence in ticks (every 15 minutes on a 5 minute trigger).
const DefaultDCAEvery = 3

var _ Strategy = (*DCA)(nil)

// DCA buys on every n-th tick regardless of price. The tick count is the history length.
type DCA struct {
	every int
}

// NewDCA builds a DCA strategy firing every n ticks.
func NewDCA(every int) *DCA {
	if every <= 0 {
		every = DefaultDCAEvery
	}
	return &DCA{every: every}
}

// Name returns the identifier for logging.
func (d *DCA) Name() string { return ModeDCA }

// Evaluate fires a buy when the tick count is a multiple of the cadence.
func (d *DCA) Evaluate(history []sig.PriceSample) sig.Decision {
	ticks := len(history)
	if ticks == 0 {
		return sig.HoldWith(fmt.Sprintf("DCA: %d ticks until next buy", d.every))
	}
	if rem := ticks % d.every; rem != 0 {
		return sig.HoldWith(fmt.Sprintf("DCA: %d ticks until next buy", d.every-rem))
	}
	price := history[ticks-1].Price
	return sig.Decision{
		Action: sig.Buy,
		Reason: fmt.Sprintf("DCA buy #%d @ $%.2f", ticks/d.every, price),
	}
}
