package domain

import "time"

// PerformanceReport aggregates a set of resolved trades for one
// (strategy, symbol) pair. Reports are recomputed wholesale from the trade
// set, never incrementally patched.
//
// SharpeRatio uses NaN as the "undefined" sentinel: fewer than 2 trades, or
// zero stddev across trades, yields NaN rather than a crash. Persisted as
// NULL by the postgres store.
type PerformanceReport struct {
	StrategyName string
	Symbol       string

	TotalSignals   int
	WinRate        float64 // percent in [0,100]
	TotalReturnPct float64 // simple additive sum of per-trade returns
	SharpeRatio    float64 // NaN when undefined
	MaxDrawdownPct float64 // >= 0, peak-to-trough of the cumulative curve

	// InsufficientData is set when the report was computed from zero trades.
	InsufficientData bool

	// Config is the serialized StrategyConfig the report was computed under.
	Config string

	GeneratedAt time.Time
}
