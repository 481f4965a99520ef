package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TicksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "soltrader_ticks_total", Help: "Decision ticks run"},
		[]string{"strategy"},
	)
	DecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "soltrader_decisions_total", Help: "Tick outcomes by action"},
		[]string{"action"},
	)
	TradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "soltrader_trades_total", Help: "Trades recorded to the ledger"},
		[]string{"action", "mode"},
	)
	SwapFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "soltrader_swap_failures_total", Help: "Live swaps that failed"},
	)
	QuoteFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "soltrader_quote_failures_total", Help: "Jupiter quote requests that failed"},
		[]string{"path"},
	)
	AuditFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "soltrader_audit_failures_total", Help: "Trade records the audit trail failed to write"},
	)
	LastPrice = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "soltrader_last_price_usd", Help: "Most recent SOL/USDC price seen by a tick"},
	)
)

func init() {
	prometheus.MustRegister(TicksTotal, DecisionsTotal, TradesTotal, SwapFailuresTotal, QuoteFailuresTotal, AuditFailuresTotal, LastPrice)
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
