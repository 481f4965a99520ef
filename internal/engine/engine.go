// Package engine runs the periodic decision tick: price, history, guard, strategy, execution, ledger.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"soltrader-go/internal/execution"
	"soltrader-go/internal/ledger"
	"soltrader-go/internal/metrics"
	"soltrader-go/internal/risk"
	sig "soltrader-go/internal/signal"
	"soltrader-go/internal/store"
	"soltrader-go/internal/strategy"
	"soltrader-go/internal/trace"
)

// PriceSource quotes the trade size and returns the per-SOL price.
type PriceSource interface {
	ForSize(ctx context.Context, sizeSOL float64, slippageBps int) (float64, error)
}

// TickResult is the auditable outcome of one tick.
type TickResult struct {
	Action      sig.Action `json:"action"`
	Reason      string     `json:"reason"`
	Price       *float64   `json:"price,omitempty"`
	Tx          *string    `json:"tx"`
	DryRun      bool       `json:"dryRun"`
	TodayTrades int        `json:"todayTrades"`
}

// Observer is notified after every completed tick.
type Observer func(TickResult)

// Deps are the collaborators a tick needs.
type Deps struct {
	Store    store.Store
	Prices   PriceSource
	Strategy strategy.Strategy
	Executor *execution.Executor
	Cap      risk.DailyCap
}

// Engine runs decision ticks. It holds no mutable state of its own: history
// and ledger live in the store, and overlapping ticks are not coordinated.
type Engine struct {
	log       zerolog.Logger
	history   store.Prices
	trades    store.Trades
	prices    PriceSource
	strategy  strategy.Strategy
	executor  *execution.Executor
	cap       risk.DailyCap
	recorder  ledger.Recorder
	observers []Observer
	now       func() time.Time
}

// Option configures Engine construction.
type Option func(*Engine)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRecorder mirrors every ledger append into r.
func WithRecorder(r ledger.Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithObserver registers a tick observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, o) }
}

// New builds an engine.
func New(log zerolog.Logger, deps Deps, opts ...Option) *Engine {
	e := &Engine{
		log:      log,
		history:  store.Prices{Store: deps.Store},
		trades:   store.Trades{Store: deps.Store},
		prices:   deps.Prices,
		strategy: deps.Strategy,
		executor: deps.Executor,
		cap:      deps.Cap,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Strategy returns the active strategy name.
func (e *Engine) Strategy() string { return e.strategy.Name() }

// Tick runs one decision cycle. Upstream quote or store failures abort the
// tick and are returned; swap failures do not.
func (e *Engine) Tick(ctx context.Context) (res TickResult, err error) {
	ctx, span := trace.StartSpan(ctx, "engine.tick", attribute.String("strategy", e.strategy.Name()))
	defer func() { trace.End(span, err) }()

	metrics.TicksTotal.WithLabelValues(e.strategy.Name()).Inc()
	now := e.now()
	params := e.executor.Params()

	book, err := e.trades.Load(ctx)
	if err != nil {
		return res, fmt.Errorf("load trades: %w", err)
	}
	today, ok := e.cap.Check(book.Snapshot(), now)
	if !ok {
		res = TickResult{Action: sig.Hold, Reason: e.cap.Reason(), DryRun: params.DryRun, TodayTrades: today}
		e.finish(res)
		return res, nil
	}

	px, err := e.prices.ForSize(ctx, params.SizeSOL, params.SlippageBps)
	if err != nil {
		metrics.QuoteFailuresTotal.WithLabelValues("tick").Inc()
		return res, fmt.Errorf("price: %w", err)
	}
	metrics.LastPrice.Set(px)

	hist, err := e.history.Append(ctx, sig.NewSample(px, now))
	if err != nil {
		return res, fmt.Errorf("save price history: %w", err)
	}

	decision := e.strategy.Evaluate(hist.Values())
	res = TickResult{
		Action: decision.Action,
		Reason: decision.Reason,
		Price:  &px,
		DryRun: params.DryRun,
	}

	if decision.Action.Trades() {
		out := e.executor.Execute(ctx, decision, px, now)
		res.Reason = out.Reason
		res.Tx = out.Signature

		book.Record(out.Record)
		if err := e.trades.Save(ctx, book); err != nil {
			return res, fmt.Errorf("save trades: %w", err)
		}
		if e.recorder != nil {
			if err := e.recorder.Record(out.Record); err != nil {
				metrics.AuditFailuresTotal.Inc()
				e.log.Warn().Err(err).Str("tx", out.Record.Tx).Msg("audit record")
			}
		}
		today++
	}
	res.TodayTrades = today

	e.finish(res)
	return res, nil
}

func (e *Engine) finish(res TickResult) {
	metrics.DecisionsTotal.WithLabelValues(string(res.Action)).Inc()
	evt := e.log.Info().
		Str("strategy", e.strategy.Name()).
		Str("action", string(res.Action)).
		Str("reason", res.Reason).
		Int("today", res.TodayTrades)
	if res.Price != nil {
		evt = evt.Float64("px", *res.Price)
	}
	evt.Msg("tick")
	for _, o := range e.observers {
		o(res)
	}
}
