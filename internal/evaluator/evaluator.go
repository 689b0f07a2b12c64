// Package evaluator aggregates resolved trades into performance reports.
package evaluator

import (
	"encoding/json"
	"math"
	"sort"
	"time"

	"optiflow/internal/domain"
)

// Evaluate computes a PerformanceReport for one (strategy, symbol) pair from
// a finite trade set. Pure aggregation: the report is recomputed wholesale
// and the input is not mutated.
//
// Design decisions (deliberate, not bugs):
//   - TotalReturnPct is the simple additive sum of per-trade returns, not a
//     compounded product. MaxDrawdownPct walks the same additive cumulative
//     curve, so summary and drawdown stay consistent.
//   - SharpeRatio is mean/stddev of per-trade returns with sample stddev
//     (n-1); it is NaN when fewer than 2 trades exist or stddev is zero.
func Evaluate(cfg domain.StrategyConfig, symbol string, trades []domain.SimulatedTrade) *domain.PerformanceReport {
	report := &domain.PerformanceReport{
		StrategyName: cfg.Name,
		Symbol:       symbol,
		TotalSignals: len(trades),
		SharpeRatio:  math.NaN(),
		Config:       marshalConfig(cfg),
		GeneratedAt:  time.Now().UTC(),
	}

	if len(trades) == 0 {
		report.InsufficientData = true
		return report
	}

	// Sort chronologically for the order-dependent drawdown walk.
	sorted := make([]domain.SimulatedTrade, len(trades))
	copy(sorted, trades)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].EntryTimestamp.Before(sorted[j].EntryTimestamp)
	})

	returns := make([]float64, len(sorted))
	wins := 0
	total := 0.0
	for i, t := range sorted {
		returns[i] = t.ReturnPct
		total += t.ReturnPct
		if t.ReturnPct > 0 {
			wins++
		}
	}

	report.WinRate = float64(wins) / float64(len(sorted)) * 100
	report.TotalReturnPct = total
	report.SharpeRatio = computeSharpe(returns)
	report.MaxDrawdownPct = computeMaxDrawdown(returns)

	return report
}

// computeSharpe returns mean/stddev of returns, NaN when undefined.
func computeSharpe(returns []float64) float64 {
	n := len(returns)
	if n < 2 {
		return math.NaN()
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(n)

	sumSq := 0.0
	for _, r := range returns {
		diff := r - mean
		sumSq += diff * diff
	}
	stddev := math.Sqrt(sumSq / float64(n-1))
	if stddev == 0 {
		return math.NaN()
	}

	return mean / stddev
}

// computeMaxDrawdown returns the worst peak-to-trough decline of the
// cumulative additive return curve. Returns must be in chronological order.
// The result is >= 0; it is 0 when returns are uniformly non-negative.
func computeMaxDrawdown(returns []float64) float64 {
	cumulative := 0.0
	peak := 0.0
	maxDrawdown := 0.0

	for _, r := range returns {
		cumulative += r
		if cumulative > peak {
			peak = cumulative
		}
		if dd := peak - cumulative; dd > maxDrawdown {
			maxDrawdown = dd
		}
	}
	return maxDrawdown
}

func marshalConfig(cfg domain.StrategyConfig) string {
	data, err := json.Marshal(cfg)
	if err != nil {
		return ""
	}
	return string(data)
}
