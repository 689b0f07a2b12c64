package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"optiflow/internal/config"
	"optiflow/internal/domain"
)

// flakyStore fails RecordLiveAlert a configured number of times before
// succeeding.
type flakyStore struct {
	failuresLeft int
	failWith     error
	calls        int
}

func (s *flakyStore) RecordLiveAlert(_ context.Context, _ *domain.LiveAlertRecord) error {
	s.calls++
	if s.failuresLeft > 0 {
		s.failuresLeft--
		return s.failWith
	}
	return nil
}

func (s *flakyStore) RecordBacktestAlert(context.Context, *domain.BacktestAlertRecord) error {
	return nil
}
func (s *flakyStore) UpsertPerformance(context.Context, *domain.PerformanceReport) error {
	return nil
}
func (s *flakyStore) RecentLiveAlerts(context.Context, string, time.Time) ([]*domain.LiveAlertRecord, error) {
	return nil, nil
}
func (s *flakyStore) RecentBacktestAlerts(context.Context, string, time.Time) ([]*domain.BacktestAlertRecord, error) {
	return nil, nil
}
func (s *flakyStore) GetPerformance(context.Context, string, string) (*domain.PerformanceReport, error) {
	return nil, ErrNotFound
}
func (s *flakyStore) ListPerformance(context.Context) ([]*domain.PerformanceReport, error) {
	return nil, nil
}

var _ SyncStore = (*flakyStore)(nil)

func fastRetry() config.Retry {
	return config.Retry{
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		MaxElapsedTime:  200 * time.Millisecond,
	}
}

func testAlert() *domain.LiveAlertRecord {
	return &domain.LiveAlertRecord{
		Timestamp: time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC),
		Symbol:    "AAPL",
		AlertType: "volume_spike",
		Threshold: 3.0,
	}
}

func TestRetryingStore_RetriesTransientFailures(t *testing.T) {
	inner := &flakyStore{
		failuresLeft: 2,
		failWith:     fmt.Errorf("insert live alert: %w", ErrUnavailable),
	}
	store := NewRetryingStore(inner, fastRetry(), zerolog.Nop())

	err := store.RecordLiveAlert(context.Background(), testAlert())
	require.NoError(t, err)
	require.Equal(t, 3, inner.calls, "two failures plus the success")
}

func TestRetryingStore_PermanentErrorNotRetried(t *testing.T) {
	permanent := errors.New("constraint violation")
	inner := &flakyStore{failuresLeft: 5, failWith: permanent}
	store := NewRetryingStore(inner, fastRetry(), zerolog.Nop())

	err := store.RecordLiveAlert(context.Background(), testAlert())
	require.ErrorIs(t, err, permanent)
	require.Equal(t, 1, inner.calls, "permanent errors must not be retried")
}

func TestRetryingStore_ExhaustionSurfacesError(t *testing.T) {
	inner := &flakyStore{
		failuresLeft: 1000,
		failWith:     fmt.Errorf("ledger locked: %w", ErrUnavailable),
	}
	store := NewRetryingStore(inner, fastRetry(), zerolog.Nop())

	err := store.RecordLiveAlert(context.Background(), testAlert())
	require.Error(t, err, "exhausted retries must surface, never silently drop data")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestRetryingStore_ContextCancellation(t *testing.T) {
	inner := &flakyStore{
		failuresLeft: 1000,
		failWith:     fmt.Errorf("ledger locked: %w", ErrUnavailable),
	}
	store := NewRetryingStore(inner, fastRetry(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.RecordLiveAlert(ctx, testAlert())
	require.Error(t, err)
}
