package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"optiflow/internal/domain"
	"optiflow/internal/storage"
)

func barAt(day int, close float64) domain.PriceBar {
	return domain.PriceBar{
		Timestamp: time.Date(2025, 6, day, 0, 0, 0, 0, time.UTC),
		Open:      close - 1,
		High:      close + 1,
		Low:       close - 2,
		Close:     close,
		Volume:    1000,
	}
}

func TestBarStore_InsertAndRange(t *testing.T) {
	store := NewBarStore()
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, "AAPL", []domain.PriceBar{
		barAt(3, 103), barAt(1, 101), barAt(2, 102), barAt(5, 105),
	}))

	got, err := store.GetRange(ctx, "AAPL", barAt(2, 0).Timestamp, barAt(3, 0).Timestamp)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, 102.0, got[0].Close)
	require.Equal(t, 103.0, got[1].Close)
}

func TestBarStore_ReinsertAbsorbed(t *testing.T) {
	store := NewBarStore()
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, "AAPL", []domain.PriceBar{barAt(1, 101)}))
	updated := barAt(1, 101)
	updated.Volume = 2000
	require.NoError(t, store.InsertBulk(ctx, "AAPL", []domain.PriceBar{updated}))

	got, err := store.GetRange(ctx, "AAPL", barAt(1, 0).Timestamp, barAt(1, 0).Timestamp)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, 2000.0, got[0].Volume)
}

func TestBarStore_UnknownSymbolEmpty(t *testing.T) {
	store := NewBarStore()

	got, err := store.GetRange(context.Background(), "NONE", barAt(1, 0).Timestamp, barAt(9, 0).Timestamp)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestBarStore_RejectsEmptySymbol(t *testing.T) {
	store := NewBarStore()
	ctx := context.Background()

	require.ErrorIs(t, store.InsertBulk(ctx, "", []domain.PriceBar{barAt(1, 1)}), storage.ErrInvalidInput)
	_, err := store.GetRange(ctx, "", time.Time{}, time.Now())
	require.ErrorIs(t, err, storage.ErrInvalidInput)
}
