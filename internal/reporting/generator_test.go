package reporting

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"optiflow/internal/compare"
	"optiflow/internal/domain"
	"optiflow/internal/storage/memory"
)

var fixedNow = time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)

func seedStore(t *testing.T) *memory.SyncStore {
	t.Helper()
	store := memory.NewSyncStore()
	ctx := context.Background()

	reports := []*domain.PerformanceReport{
		{
			StrategyName: "vol2x", Symbol: "AAPL", TotalSignals: 8,
			WinRate: 62.5, TotalReturnPct: 11.2, SharpeRatio: 1.31, MaxDrawdownPct: 4.5,
			Config:      `{"name":"vol2x","signal_kind":"volume_spike"}`,
			GeneratedAt: fixedNow,
		},
		{
			StrategyName: "vol2x", Symbol: "THIN", TotalSignals: 0,
			WinRate: 0, SharpeRatio: math.NaN(), InsufficientData: true,
			Config:      `{"name":"vol2x","signal_kind":"volume_spike"}`,
			GeneratedAt: fixedNow,
		},
	}
	for _, r := range reports {
		require.NoError(t, store.UpsertPerformance(ctx, r))
	}

	require.NoError(t, store.RecordLiveAlert(ctx, &domain.LiveAlertRecord{
		Timestamp: fixedNow.AddDate(0, 0, -1), Symbol: "AAPL",
		AlertType: "volume_spike", Threshold: 2, CurrentValue: 3.5,
	}))
	require.NoError(t, store.RecordBacktestAlert(ctx, &domain.BacktestAlertRecord{
		Timestamp: fixedNow.AddDate(0, 0, -2), Symbol: "AAPL",
		AlertType: "volume_spike", Threshold: 2, SimulatedValue: 3.0, ActualOutcome: 2.0,
	}))
	return store
}

func TestGenerate_CollectsRowsAndComparisons(t *testing.T) {
	store := seedStore(t)
	comparator := compare.New(store, 7*24*time.Hour, zerolog.Nop())

	gen := NewGenerator(store, comparator).WithClock(func() time.Time { return fixedNow })
	report, err := gen.Generate(context.Background())
	require.NoError(t, err)

	require.Equal(t, fixedNow, report.GeneratedAt)
	require.Equal(t, 1, report.StrategyCount)
	require.Equal(t, 2, report.SymbolCount)
	require.Len(t, report.Performance, 2)
	require.Len(t, report.Comparisons, 2)

	require.Equal(t, "AAPL", report.Performance[0].Symbol)
	require.True(t, report.Performance[1].Insufficient)
}

func TestGenerate_NilComparator(t *testing.T) {
	store := seedStore(t)

	report, err := NewGenerator(store, nil).Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Performance, 2)
	require.Empty(t, report.Comparisons)
}

func TestRenderMarkdown(t *testing.T) {
	store := seedStore(t)
	comparator := compare.New(store, 7*24*time.Hour, zerolog.Nop())

	gen := NewGenerator(store, comparator).WithClock(func() time.Time { return fixedNow })
	report, err := gen.Generate(context.Background())
	require.NoError(t, err)

	md := RenderMarkdown(report)
	require.Contains(t, md, "# Strategy Performance Report")
	require.Contains(t, md, "| vol2x | AAPL | 8 | 62.50 | 11.20 | 1.3100 | 4.50 |")
	require.Contains(t, md, "n/a")
	require.Contains(t, md, "insufficient data")
	require.Contains(t, md, "## Live vs Backtest")
}

func TestRenderMarkdown_Empty(t *testing.T) {
	md := RenderMarkdown(&Report{GeneratedAt: fixedNow})
	require.Contains(t, md, "No performance data available.")
}

func TestRenderCSV(t *testing.T) {
	rows := []PerformanceRow{
		{StrategyName: "vol2x", Symbol: "AAPL", TotalSignals: 8, WinRate: 62.5,
			TotalReturnPct: 11.2, SharpeRatio: 1.31, MaxDrawdownPct: 4.5},
		{StrategyName: "vol2x", Symbol: "THIN", SharpeRatio: math.NaN(), Insufficient: true},
	}

	csv := RenderCSV(rows)
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "strategy_name,symbol,total_signals,win_rate,total_return,sharpe_ratio,max_drawdown,insufficient_data", lines[0])
	require.Contains(t, lines[1], "vol2x,AAPL,8,62.500000,11.200000,1.310000,4.500000,false")
	// NaN sharpe renders as an empty field.
	require.Contains(t, lines[2], "vol2x,THIN,0,0.000000,0.000000,,0.000000,true")
}

func TestPerformanceRowJSON_NaNSharpe(t *testing.T) {
	raw, err := json.Marshal(PerformanceRow{
		StrategyName: "vol2x", Symbol: "THIN",
		SharpeRatio: math.NaN(), Insufficient: true,
	})
	require.NoError(t, err)
	require.Contains(t, string(raw), `"sharpe_ratio":null`)

	raw, err = json.Marshal(PerformanceRow{
		StrategyName: "vol2x", Symbol: "AAPL", SharpeRatio: 1.31,
	})
	require.NoError(t, err)
	require.Contains(t, string(raw), `"sharpe_ratio":1.31`)
}
