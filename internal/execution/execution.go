// Package execution turns buy/sell decisions into swaps and ledger records.
package execution

import (
	"context"
	"time"

	solana "github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	dex "soltrader-go/internal/dex/solana"
	"soltrader-go/internal/ledger"
	"soltrader-go/internal/metrics"
	"soltrader-go/internal/price"
	sig "soltrader-go/internal/signal"
)

// Execution modes, also used as metric labels.
const (
	ModeDryRun = "dry_run"
	ModeNoKey  = "no_key"
	ModeLive   = "live"
)

// Swapper quotes and submits swaps. Satisfied by *dex.JupiterClient.
type Swapper interface {
	GetQuote(ctx context.Context, inputMint, outputMint string, amount uint64, slippageBps int) (*dex.Quote, error)
	Swap(ctx context.Context, quote *dex.Quote) (solana.Signature, error)
}

// Params fixes the size and mode of every trade.
type Params struct {
	SizeSOL     float64
	SlippageBps int
	DryRun      bool
}

// Result is the outcome of one execution.
type Result struct {
	Record    ledger.TradeRecord
	Signature *string
	Reason    string
}

// Executor submits swaps (or simulates them) and renders the ledger record.
type Executor struct {
	log     zerolog.Logger
	swapper Swapper
	params  Params
}

// NewExecutor wraps a swapper. A nil swapper means no signing key is configured.
func NewExecutor(log zerolog.Logger, swapper Swapper, params Params) *Executor {
	return &Executor{log: log, swapper: swapper, params: params}
}

// Params returns the fixed trade parameters.
func (executor *Executor) Params() Params { return executor.params }

// Mode reports how trades will be executed.
func (executor *Executor) Mode() string {
	switch {
	case executor.params.DryRun:
		return ModeDryRun
	case executor.swapper == nil:
		return ModeNoKey
	default:
		return ModeLive
	}
}

// Execute handles a buy or sell decision at the tick price. Swap failures are
// folded into the reason; they never prevent the record from being produced.
func (executor *Executor) Execute(ctx context.Context, decision sig.Decision, px float64, now time.Time) Result {
	reason := decision.Reason
	var signature *string
	mode := executor.Mode()

	switch mode {
	case ModeDryRun:
		reason += " [DRY RUN]"
	case ModeLive:
		s, err := executor.swap(ctx, decision.Action, px)
		if err != nil {
			metrics.SwapFailuresTotal.Inc()
			executor.log.Warn().Err(err).Str("action", string(decision.Action)).Msg("swap failed")
			reason += " [SWAP ERROR: " + err.Error() + "]"
		} else {
			signature = &s
		}
	}

	tx := ledger.TxNoKey
	switch {
	case signature != nil:
		tx = *signature
	case executor.params.DryRun:
		tx = ledger.TxDryRun
	}

	metrics.TradesTotal.WithLabelValues(decision.Action.Upper(), mode).Inc()
	executor.log.Info().
		Str("side", decision.Action.Upper()).
		Str("mode", mode).
		Float64("qty", executor.params.SizeSOL).
		Float64("px", px).
		Str("tx", tx).
		Msg("submit order")

	return Result{
		Record:    ledger.NewRecord(now, decision.Action, executor.params.SizeSOL, px, tx, reason),
		Signature: signature,
		Reason:    reason,
	}
}

// swap buys SOL with its USDC notional, or sells the SOL size for USDC.
func (executor *Executor) swap(ctx context.Context, action sig.Action, px float64) (string, error) {
	inputMint, outputMint := dex.SOLMint, dex.USDCMint
	amount := price.Lamports(executor.params.SizeSOL)
	if action == sig.Buy {
		inputMint, outputMint = dex.USDCMint, dex.SOLMint
		amount = price.USDCUnits(executor.params.SizeSOL * px)
	}
	quote, err := executor.swapper.GetQuote(ctx, inputMint, outputMint, amount, executor.params.SlippageBps)
	if err != nil {
		return "", err
	}
	s, err := executor.swapper.Swap(ctx, quote)
	if err != nil {
		return "", err
	}
	return s.String(), nil
}
