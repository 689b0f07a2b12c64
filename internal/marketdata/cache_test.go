package marketdata

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"optiflow/internal/domain"
	"optiflow/internal/storage/memory"
)

type countingProvider struct {
	calls int
	bars  []domain.PriceBar
	err   error
}

func (p *countingProvider) GetDailyBars(_ context.Context, _ string, _, _ time.Time) ([]domain.PriceBar, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.bars, nil
}

func cacheBars(days ...int) []domain.PriceBar {
	bars := make([]domain.PriceBar, 0, len(days))
	for _, d := range days {
		bars = append(bars, domain.PriceBar{
			Timestamp: time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC),
			Close:     100 + float64(d),
			Volume:    1000,
		})
	}
	return bars
}

func TestCachingProvider_FetchesAndWritesThrough(t *testing.T) {
	store := memory.NewBarStore()
	inner := &countingProvider{bars: cacheBars(2, 3, 4)}
	p := NewCachingProvider(inner, store, zerolog.Nop())

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)

	got, err := p.GetDailyBars(context.Background(), "AAPL", from, to)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, 1, inner.calls)

	// Second call within the same window is served from the cache.
	got, err = p.GetDailyBars(context.Background(), "AAPL", from, to)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, 1, inner.calls)
}

func TestCachingProvider_PartialCoverageRefetches(t *testing.T) {
	store := memory.NewBarStore()
	require.NoError(t, store.InsertBulk(context.Background(), "AAPL", cacheBars(2, 3)))

	inner := &countingProvider{bars: cacheBars(2, 3, 16, 17)}
	p := NewCachingProvider(inner, store, zerolog.Nop())

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC)

	got, err := p.GetDailyBars(context.Background(), "AAPL", from, to)
	require.NoError(t, err)
	require.Len(t, got, 4)
	require.Equal(t, 1, inner.calls)
}

func TestCachingProvider_ProviderErrorPropagates(t *testing.T) {
	store := memory.NewBarStore()
	inner := &countingProvider{err: ErrSymbolNotFound}
	p := NewCachingProvider(inner, store, zerolog.Nop())

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)

	_, err := p.GetDailyBars(context.Background(), "NOPE", from, to)
	require.ErrorIs(t, err, ErrSymbolNotFound)
}
