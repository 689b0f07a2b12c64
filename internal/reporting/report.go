// Package reporting renders stored backtest results as Markdown and CSV.
package reporting

import (
	"encoding/json"
	"math"
	"time"
)

// Report is the renderable summary of a backtest/compare run.
type Report struct {
	// Metadata
	GeneratedAt   time.Time `json:"generated_at"`
	StrategyCount int       `json:"strategy_count"`
	SymbolCount   int       `json:"symbol_count"`

	// Performance rows (sorted by strategy_name, symbol)
	Performance []PerformanceRow `json:"performance"`

	// Live-vs-backtest comparisons, present when live data was joined.
	Comparisons []ComparisonRow `json:"comparisons,omitempty"`
}

// PerformanceRow is one (strategy, symbol) performance entry.
type PerformanceRow struct {
	StrategyName   string  `json:"strategy_name"`
	Symbol         string  `json:"symbol"`
	TotalSignals   int     `json:"total_signals"`
	WinRate        float64 `json:"win_rate"`
	TotalReturnPct float64 `json:"total_return_pct"`
	SharpeRatio    float64 `json:"-"` // NaN renders as n/a in markdown, null in JSON
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
	Insufficient   bool    `json:"insufficient_data"`
}

// MarshalJSON emits SharpeRatio as null when it is NaN, which encoding/json
// cannot represent as a number.
func (r PerformanceRow) MarshalJSON() ([]byte, error) {
	type alias PerformanceRow
	var sharpe *float64
	if !math.IsNaN(r.SharpeRatio) {
		sharpe = &r.SharpeRatio
	}
	return json.Marshal(struct {
		alias
		SharpeRatio *float64 `json:"sharpe_ratio"`
	}{alias(r), sharpe})
}

// ComparisonRow is one live-vs-backtest join.
type ComparisonRow struct {
	StrategyName      string  `json:"strategy_name"`
	Symbol            string  `json:"symbol"`
	AlertType         string  `json:"alert_type"`
	LiveAlerts        int     `json:"live_alerts"`
	BacktestAlerts    int     `json:"backtest_alerts"`
	AvgLiveValue      float64 `json:"avg_live_value"`
	AvgSimulatedValue float64 `json:"avg_simulated_value"`
	ValueDelta        float64 `json:"value_delta"`
	HasLiveData       bool    `json:"has_live_data"`
}
