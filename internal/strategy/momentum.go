package strategy

import (
	"fmt"

	sig "soltrader-go/internal/signal"
)

const (
	DefaultShortWindow = 5
	DefaultLongWindow  = 20
)

var _ Strategy = (*Momentum)(nil)

// Momentum trades simple moving average crossovers: a golden cross buys, a death cross sells.
type Momentum struct {
	short int
	long  int
}

// NewMomentum builds a crossover strategy over the given SMA windows.
func NewMomentum(short, long int) *Momentum {
	if short <= 0 {
		short = DefaultShortWindow
	}
	if long <= short {
		long = DefaultLongWindow
	}
	return &Momentum{short: short, long: long}
}

// Name returns the identifier for logging.
func (m *Momentum) Name() string { return ModeMomentum }

// Evaluate compares the SMAs with and without the newest sample to detect a cross.
func (m *Momentum) Evaluate(history []sig.PriceSample) sig.Decision {
	if len(history) < m.long {
		return sig.HoldWith(fmt.Sprintf("Collecting data (%d/%d)", len(history), m.long))
	}
	prices := sig.Prices(history)
	shortNow := tailMean(prices, m.short, m.short)
	longNow := tailMean(prices, m.long, m.long)

	prev := prices[:len(prices)-1]
	shortPrev := tailMean(prev, m.short, m.short)
	// During warm-up the previous long window holds fewer than m.long samples;
	// divide by what is available.
	longPrev := tailMean(prev, m.long, min(m.long, len(prev)))

	switch {
	case shortPrev <= longPrev && shortNow > longNow:
		return sig.Decision{
			Action: sig.Buy,
			Reason: fmt.Sprintf("Golden cross: SMA%d ($%.2f) > SMA%d ($%.2f)", m.short, shortNow, m.long, longNow),
		}
	case shortPrev >= longPrev && shortNow < longNow:
		return sig.Decision{
			Action: sig.Sell,
			Reason: fmt.Sprintf("Death cross: SMA%d < SMA%d", m.short, m.long),
		}
	default:
		return sig.HoldWith(fmt.Sprintf("Watching: SMA diff %.2f%%", (shortNow-longNow)/longNow*100))
	}
}

// tailMean sums the last window values (or fewer, if not available) and divides by divisor.
func tailMean(values []float64, window, divisor int) float64 {
	start := len(values) - window
	if start < 0 {
		start = 0
	}
	sum := 0.0
	for _, v := range values[start:] {
		sum += v
	}
	if divisor <= 0 {
		return 0
	}
	return sum / float64(divisor)
}
