package reporting

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Strategy Performance Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Strategies: %d | Symbols: %d\n\n", r.StrategyCount, r.SymbolCount))

	// Performance
	sb.WriteString("## Backtest Performance\n\n")
	if len(r.Performance) > 0 {
		sb.WriteString("| Strategy | Symbol | Signals | WinRate % | TotalReturn % | Sharpe | MaxDD % | Note |\n")
		sb.WriteString("|----------|--------|---------|-----------|---------------|--------|---------|------|\n")
		for _, p := range r.Performance {
			note := ""
			if p.Insufficient {
				note = "insufficient data"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %d | %.2f | %.2f | %s | %.2f | %s |\n",
				p.StrategyName, p.Symbol, p.TotalSignals, p.WinRate,
				p.TotalReturnPct, formatSharpe(p.SharpeRatio), p.MaxDrawdownPct, note))
		}
	} else {
		sb.WriteString("No performance data available.\n")
	}
	sb.WriteString("\n")

	// Comparisons
	if len(r.Comparisons) > 0 {
		sb.WriteString("## Live vs Backtest\n\n")
		sb.WriteString("| Strategy | Symbol | Alert Type | Live | Backtest | Avg Live | Avg Simulated | Delta |\n")
		sb.WriteString("|----------|--------|------------|------|----------|----------|---------------|-------|\n")
		for _, c := range r.Comparisons {
			if !c.HasLiveData {
				sb.WriteString(fmt.Sprintf("| %s | %s | %s | 0 | %d | no live data | %.4f | - |\n",
					c.StrategyName, c.Symbol, c.AlertType, c.BacktestAlerts, c.AvgSimulatedValue))
				continue
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %d | %d | %.4f | %.4f | %+.4f |\n",
				c.StrategyName, c.Symbol, c.AlertType, c.LiveAlerts, c.BacktestAlerts,
				c.AvgLiveValue, c.AvgSimulatedValue, c.ValueDelta))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func formatSharpe(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", v)
}
