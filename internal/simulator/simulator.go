// Package simulator resolves signal events into simulated trades.
package simulator

import (
	"errors"

	"optiflow/internal/domain"
	"optiflow/internal/strategy"
)

// Simulator errors
var (
	ErrSignalNotInSeries = errors.New("signal timestamp not found in bar series")
)

// Simulator converts signal events into simulated trades under a strategy's
// exit rule. Every signal produces exactly one trade; signals are resolved
// independently, so overlapping positions are allowed and simulation shares
// no mutable state across signals.
//
// Entry assumption: a position opens at the signal bar's own close. The state
// machine per signal is Pending → Open (at the signal bar) → Closed (at the
// first forward bar satisfying the exit rule, or the last bar of the series).
type Simulator struct{}

// New creates a Simulator.
func New() *Simulator {
	return &Simulator{}
}

// Simulate resolves each signal against the same bar series it was detected
// on. Trades are returned in signal (entry timestamp) order.
func (s *Simulator) Simulate(bars []domain.PriceBar, signals []domain.SignalEvent, strat *strategy.Strategy) ([]domain.SimulatedTrade, error) {
	if len(signals) == 0 {
		return nil, nil
	}

	trades := make([]domain.SimulatedTrade, 0, len(signals))
	cursor := 0
	for _, sig := range signals {
		// Signals arrive in timestamp order, so the entry search resumes
		// from the previous signal's bar.
		entryIdx := -1
		for j := cursor; j < len(bars); j++ {
			if bars[j].Timestamp.Equal(sig.Timestamp) {
				entryIdx = j
				break
			}
		}
		if entryIdx < 0 {
			return nil, ErrSignalNotInSeries
		}
		cursor = entryIdx

		trades = append(trades, resolveTrade(bars, sig, entryIdx, strat))
	}

	return trades, nil
}

// resolveTrade scans forward from the entry bar until the exit rule triggers
// or the series ends. A trade whose exit never triggers closes at the last
// bar with ExitReasonEndOfData.
func resolveTrade(bars []domain.PriceBar, sig domain.SignalEvent, entryIdx int, strat *strategy.Strategy) domain.SimulatedTrade {
	entry := bars[entryIdx]
	trade := domain.SimulatedTrade{
		Signal:         sig,
		EntryPrice:     entry.Close,
		EntryTimestamp: entry.Timestamp,
	}

	exitIdx := -1
	reason := domain.ExitReasonEndOfData
	for j := entryIdx + 1; j < len(bars); j++ {
		if strat.Exit.ShouldExit(bars, entryIdx, entry.Close, j, sig.Direction) {
			exitIdx = j
			reason = strat.Exit.Reason()
			break
		}
	}
	if exitIdx < 0 {
		exitIdx = len(bars) - 1
	}

	exit := bars[exitIdx]
	trade.ExitPrice = exit.Close
	trade.ExitTimestamp = exit.Timestamp
	trade.ExitReason = reason
	trade.ReturnPct = returnPct(entry.Close, exit.Close, sig.Direction)

	return trade
}

// returnPct computes the percent return of a closed position, sign-flipped
// for bearish signals.
func returnPct(entry, exit float64, direction string) float64 {
	if entry == 0 {
		return 0
	}
	pct := (exit - entry) / entry * 100
	if direction == domain.DirectionBearish {
		return -pct
	}
	return pct
}
