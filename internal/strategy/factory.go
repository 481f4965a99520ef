// Package strategy contains the trade decision rules applied to the rolling price history.
package strategy

import (
	"strings"

	sig "soltrader-go/internal/signal"
)

const (
	// ModeDCA buys on a fixed tick cadence.
	ModeDCA = "dca"
	// ModeMomentum trades SMA5/SMA20 crossovers.
	ModeMomentum = "momentum"
)

// Strategy defines behaviour shared by strategy implementations used by the bot.
// Evaluate receives the full history with the newest sample last.
type Strategy interface {
	Evaluate(history []sig.PriceSample) sig.Decision
	Name() string
}

// Build returns a strategy implementation matching the configured mode.
func Build(mode string) Strategy {
	switch Normalize(mode) {
	case ModeMomentum:
		return NewMomentum(DefaultShortWindow, DefaultLongWindow)
	default:
		return NewDCA(DefaultDCAEvery)
	}
}

// Normalize maps accepted spellings onto a canonical mode, defaulting to dca.
func Normalize(mode string) string {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "momentum", "sma", "sma_cross", "crossover":
		return ModeMomentum
	default:
		return ModeDCA
	}
}

// Known reports whether mode names a strategy rather than relying on the fallback.
func Known(mode string) bool {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "dca", "momentum", "sma", "sma_cross", "crossover":
		return true
	}
	return false
}
