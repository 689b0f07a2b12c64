package reporting

import (
	"context"
	"fmt"
	"time"

	"optiflow/internal/compare"
	"optiflow/internal/storage"
)

// Generator produces reports from stored data.
type Generator struct {
	store      storage.SyncStore
	comparator *compare.Comparator
	now        func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a report generator. The comparator may be nil, in
// which case the report carries performance rows only.
func NewGenerator(store storage.SyncStore, comparator *compare.Comparator) *Generator {
	return &Generator{
		store:      store,
		comparator: comparator,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds a full report from every stored performance row.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	reports, err := g.store.ListPerformance(ctx)
	if err != nil {
		return nil, fmt.Errorf("list performance: %w", err)
	}

	report := &Report{GeneratedAt: g.now()}

	strategies := make(map[string]struct{})
	symbols := make(map[string]struct{})
	for _, r := range reports {
		strategies[r.StrategyName] = struct{}{}
		symbols[r.Symbol] = struct{}{}
		report.Performance = append(report.Performance, PerformanceRow{
			StrategyName:   r.StrategyName,
			Symbol:         r.Symbol,
			TotalSignals:   r.TotalSignals,
			WinRate:        r.WinRate,
			TotalReturnPct: r.TotalReturnPct,
			SharpeRatio:    r.SharpeRatio,
			MaxDrawdownPct: r.MaxDrawdownPct,
			Insufficient:   r.InsufficientData,
		})
	}
	report.StrategyCount = len(strategies)
	report.SymbolCount = len(symbols)

	if g.comparator != nil {
		comparisons, err := g.comparator.CompareAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("compare all: %w", err)
		}
		for _, c := range comparisons {
			report.Comparisons = append(report.Comparisons, ComparisonRow{
				StrategyName:      c.StrategyName,
				Symbol:            c.Symbol,
				AlertType:         c.AlertType,
				LiveAlerts:        c.LiveAlerts,
				BacktestAlerts:    c.BacktestAlerts,
				AvgLiveValue:      c.AvgLiveValue,
				AvgSimulatedValue: c.AvgSimulatedValue,
				ValueDelta:        c.ValueDelta,
				HasLiveData:       c.HasLiveData,
			})
		}
	}

	return report, nil
}
