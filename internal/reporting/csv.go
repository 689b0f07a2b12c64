package reporting

import (
	"fmt"
	"math"
	"strings"
)

// RenderCSV renders performance rows as CSV string.
func RenderCSV(rows []PerformanceRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("strategy_name,symbol,total_signals,win_rate,total_return,sharpe_ratio,max_drawdown,insufficient_data\n")

	// Rows
	for _, p := range rows {
		sharpe := ""
		if !math.IsNaN(p.SharpeRatio) {
			sharpe = fmt.Sprintf("%.6f", p.SharpeRatio)
		}
		sb.WriteString(fmt.Sprintf("%s,%s,%d,%.6f,%.6f,%s,%.6f,%t\n",
			p.StrategyName,
			p.Symbol,
			p.TotalSignals,
			p.WinRate,
			p.TotalReturnPct,
			sharpe,
			p.MaxDrawdownPct,
			p.Insufficient,
		))
	}

	return sb.String()
}
