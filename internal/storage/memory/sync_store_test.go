package memory

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"optiflow/internal/domain"
	"optiflow/internal/storage"
)

func ts(day int) time.Time {
	return time.Date(2025, 6, day, 15, 30, 0, 0, time.UTC)
}

func TestSyncStore_LiveAlertIdempotent(t *testing.T) {
	store := NewSyncStore()
	ctx := context.Background()

	alert := &domain.LiveAlertRecord{
		Timestamp:    ts(1),
		Symbol:       "AAPL",
		AlertType:    "volume_spike",
		Threshold:    2.0,
		CurrentValue: 3.4,
		Message:      "volume 3.4x above average",
	}
	require.NoError(t, store.RecordLiveAlert(ctx, alert))

	// Same natural key, different payload: must not create a second row.
	dup := *alert
	dup.CurrentValue = 9.9
	require.NoError(t, store.RecordLiveAlert(ctx, &dup))

	got, err := store.RecentLiveAlerts(ctx, "AAPL", ts(1).Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, 3.4, got[0].CurrentValue)
}

func TestSyncStore_RecentLiveAlertsFiltersAndOrders(t *testing.T) {
	store := NewSyncStore()
	ctx := context.Background()

	for _, a := range []*domain.LiveAlertRecord{
		{Timestamp: ts(3), Symbol: "AAPL", AlertType: "volume_spike", Threshold: 2},
		{Timestamp: ts(1), Symbol: "AAPL", AlertType: "rsi_extreme", Threshold: 30},
		{Timestamp: ts(2), Symbol: "MSFT", AlertType: "volume_spike", Threshold: 2},
	} {
		require.NoError(t, store.RecordLiveAlert(ctx, a))
	}

	got, err := store.RecentLiveAlerts(ctx, "AAPL", ts(1))
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.True(t, got[0].Timestamp.Before(got[1].Timestamp))

	// Empty symbol matches every symbol.
	all, err := store.RecentLiveAlerts(ctx, "", ts(1))
	require.NoError(t, err)
	require.Len(t, all, 3)

	// Cutoff excludes earlier rows.
	late, err := store.RecentLiveAlerts(ctx, "", ts(3))
	require.NoError(t, err)
	require.Len(t, late, 1)
}

func TestSyncStore_BacktestAlertIdempotent(t *testing.T) {
	store := NewSyncStore()
	ctx := context.Background()

	alert := &domain.BacktestAlertRecord{
		Timestamp:      ts(5),
		Symbol:         "TSLA",
		AlertType:      "price_change",
		Threshold:      5,
		SimulatedValue: 6.1,
		ActualOutcome:  4.2,
	}
	require.NoError(t, store.RecordBacktestAlert(ctx, alert))
	require.NoError(t, store.RecordBacktestAlert(ctx, alert))

	got, err := store.RecentBacktestAlerts(ctx, "TSLA", ts(1))
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestSyncStore_UpsertPerformanceReplaces(t *testing.T) {
	store := NewSyncStore()
	ctx := context.Background()

	first := &domain.PerformanceReport{
		StrategyName:   "vol_spike_2x",
		Symbol:         "AAPL",
		TotalSignals:   10,
		WinRate:        60,
		TotalReturnPct: 12.5,
		SharpeRatio:    1.4,
		MaxDrawdownPct: 3.2,
	}
	require.NoError(t, store.UpsertPerformance(ctx, first))

	second := *first
	second.TotalSignals = 14
	second.WinRate = 50
	require.NoError(t, store.UpsertPerformance(ctx, &second))

	got, err := store.GetPerformance(ctx, "vol_spike_2x", "AAPL")
	require.NoError(t, err)
	require.Equal(t, 14, got.TotalSignals)
	require.Equal(t, 50.0, got.WinRate)
}

func TestSyncStore_UpsertPerformanceKeepsNaNSharpe(t *testing.T) {
	store := NewSyncStore()
	ctx := context.Background()

	report := &domain.PerformanceReport{
		StrategyName: "vol_spike_2x",
		Symbol:       "THIN",
		TotalSignals: 1,
		SharpeRatio:  math.NaN(),
	}
	require.NoError(t, store.UpsertPerformance(ctx, report))

	got, err := store.GetPerformance(ctx, "vol_spike_2x", "THIN")
	require.NoError(t, err)
	require.True(t, math.IsNaN(got.SharpeRatio))
}

func TestSyncStore_GetPerformanceNotFound(t *testing.T) {
	store := NewSyncStore()

	_, err := store.GetPerformance(context.Background(), "missing", "AAPL")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSyncStore_ListPerformanceOrdered(t *testing.T) {
	store := NewSyncStore()
	ctx := context.Background()

	for _, r := range []*domain.PerformanceReport{
		{StrategyName: "b", Symbol: "MSFT"},
		{StrategyName: "a", Symbol: "TSLA"},
		{StrategyName: "a", Symbol: "AAPL"},
	} {
		require.NoError(t, store.UpsertPerformance(ctx, r))
	}

	got, err := store.ListPerformance(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "AAPL", got[0].Symbol)
	require.Equal(t, "TSLA", got[1].Symbol)
	require.Equal(t, "b", got[2].StrategyName)
}

func TestSyncStore_RejectsInvalidInput(t *testing.T) {
	store := NewSyncStore()
	ctx := context.Background()

	require.ErrorIs(t, store.RecordLiveAlert(ctx, nil), storage.ErrInvalidInput)
	require.ErrorIs(t, store.RecordLiveAlert(ctx, &domain.LiveAlertRecord{Symbol: "AAPL"}), storage.ErrInvalidInput)
	require.ErrorIs(t, store.RecordBacktestAlert(ctx, &domain.BacktestAlertRecord{AlertType: "volume_spike"}), storage.ErrInvalidInput)
	require.ErrorIs(t, store.UpsertPerformance(ctx, &domain.PerformanceReport{StrategyName: "x"}), storage.ErrInvalidInput)
}

func TestSyncStore_ReturnsCopies(t *testing.T) {
	store := NewSyncStore()
	ctx := context.Background()

	require.NoError(t, store.UpsertPerformance(ctx, &domain.PerformanceReport{
		StrategyName: "s", Symbol: "AAPL", WinRate: 55,
	}))

	got, err := store.GetPerformance(ctx, "s", "AAPL")
	require.NoError(t, err)
	got.WinRate = 0

	again, err := store.GetPerformance(ctx, "s", "AAPL")
	require.NoError(t, err)
	require.Equal(t, 55.0, again.WinRate)
}
