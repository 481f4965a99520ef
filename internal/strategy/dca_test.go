package strategy

import (
	"fmt"
	"strings"
	"testing"

	"soltrader-go/internal/signal"
)

func series(prices ...float64) []signal.PriceSample {
	out := make([]signal.PriceSample, len(prices))
	for i, p := range prices {
		out[i] = signal.PriceSample{Price: p, Time: int64(i) * 300_000}
	}
	return out
}

func flat(n int, price float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = price
	}
	return out
}

func TestDCABuysEveryThirdTick(t *testing.T) {
	strat := NewDCA(3)
	for k := 1; k <= 4; k++ {
		dec := strat.Evaluate(series(flat(3*k, 150)...))
		if dec.Action != signal.Buy {
			t.Fatalf("len %d: expected buy, got %s", 3*k, dec.Action)
		}
		want := fmt.Sprintf("DCA buy #%d @ $150.00", k)
		if dec.Reason != want {
			t.Fatalf("len %d: expected %q, got %q", 3*k, want, dec.Reason)
		}
	}
}

func TestDCAHoldsWithCountdown(t *testing.T) {
	strat := NewDCA(3)
	cases := map[int]string{
		1: "DCA: 2 ticks until next buy",
		2: "DCA: 1 ticks until next buy",
		4: "DCA: 2 ticks until next buy",
		5: "DCA: 1 ticks until next buy",
	}
	for n, want := range cases {
		dec := strat.Evaluate(series(flat(n, 100)...))
		if dec.Action != signal.Hold {
			t.Fatalf("len %d: expected hold, got %s", n, dec.Action)
		}
		if dec.Reason != want {
			t.Fatalf("len %d: expected %q, got %q", n, want, dec.Reason)
		}
	}
}

func TestBuildFallsBackToDCA(t *testing.T) {
	if got := Build("").Name(); got != ModeDCA {
		t.Fatalf("expected dca, got %s", got)
	}
	if got := Build("unknown").Name(); got != ModeDCA {
		t.Fatalf("expected dca fallback, got %s", got)
	}
	if got := Build(" Momentum ").Name(); got != ModeMomentum {
		t.Fatalf("expected momentum, got %s", got)
	}
	if Known("grid") || !Known("dca") {
		t.Fatalf("unexpected Known result")
	}
	if !strings.EqualFold(Normalize("SMA"), ModeMomentum) {
		t.Fatalf("expected sma alias to map to momentum")
	}
}
