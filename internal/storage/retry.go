package storage

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"optiflow/internal/config"
	"optiflow/internal/domain"
	"optiflow/internal/observability"
)

// RetryingStore decorates a SyncStore with bounded exponential backoff on
// transient failures. Permanent failures (validation, unknown errors) pass
// through immediately. Exhausted retries surface the last error to the
// caller after logging a warning; data is never silently dropped.
type RetryingStore struct {
	inner SyncStore
	retry config.Retry
	log   zerolog.Logger
}

// NewRetryingStore wraps inner with the given retry policy.
func NewRetryingStore(inner SyncStore, retry config.Retry, log zerolog.Logger) *RetryingStore {
	return &RetryingStore{
		inner: inner,
		retry: retry,
		log:   log.With().Str("component", "sync_store_retry").Logger(),
	}
}

// Compile-time interface check.
var _ SyncStore = (*RetryingStore)(nil)

func (s *RetryingStore) RecordLiveAlert(ctx context.Context, r *domain.LiveAlertRecord) error {
	return s.do(ctx, "record_live_alert", func() error {
		return s.inner.RecordLiveAlert(ctx, r)
	})
}

func (s *RetryingStore) RecordBacktestAlert(ctx context.Context, r *domain.BacktestAlertRecord) error {
	return s.do(ctx, "record_backtest_alert", func() error {
		return s.inner.RecordBacktestAlert(ctx, r)
	})
}

func (s *RetryingStore) UpsertPerformance(ctx context.Context, r *domain.PerformanceReport) error {
	return s.do(ctx, "upsert_performance", func() error {
		return s.inner.UpsertPerformance(ctx, r)
	})
}

func (s *RetryingStore) RecentLiveAlerts(ctx context.Context, symbol string, since time.Time) ([]*domain.LiveAlertRecord, error) {
	var out []*domain.LiveAlertRecord
	err := s.do(ctx, "recent_live_alerts", func() error {
		var err error
		out, err = s.inner.RecentLiveAlerts(ctx, symbol, since)
		return err
	})
	return out, err
}

func (s *RetryingStore) RecentBacktestAlerts(ctx context.Context, symbol string, since time.Time) ([]*domain.BacktestAlertRecord, error) {
	var out []*domain.BacktestAlertRecord
	err := s.do(ctx, "recent_backtest_alerts", func() error {
		var err error
		out, err = s.inner.RecentBacktestAlerts(ctx, symbol, since)
		return err
	})
	return out, err
}

func (s *RetryingStore) GetPerformance(ctx context.Context, strategyName, symbol string) (*domain.PerformanceReport, error) {
	var out *domain.PerformanceReport
	err := s.do(ctx, "get_performance", func() error {
		var err error
		out, err = s.inner.GetPerformance(ctx, strategyName, symbol)
		return err
	})
	return out, err
}

func (s *RetryingStore) ListPerformance(ctx context.Context) ([]*domain.PerformanceReport, error) {
	var out []*domain.PerformanceReport
	err := s.do(ctx, "list_performance", func() error {
		var err error
		out, err = s.inner.ListPerformance(ctx)
		return err
	})
	return out, err
}

// do runs op under the retry policy, retrying only transient errors.
func (s *RetryingStore) do(ctx context.Context, opName string, op func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.retry.InitialInterval
	policy.MaxInterval = s.retry.MaxInterval
	policy.MaxElapsedTime = s.retry.MaxElapsedTime

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		err := op()
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return backoff.Permanent(err)
		}
		observability.RecordStoreRetry(opName)
		s.log.Warn().
			Str("op", opName).
			Int("attempt", attempt).
			Err(err).
			Msg("transient storage failure, retrying")
		return err
	}, backoff.WithContext(policy, ctx))

	if err != nil && IsTransient(err) {
		observability.RecordStoreError(opName)
		s.log.Warn().
			Str("op", opName).
			Int("attempts", attempt).
			Err(err).
			Msg("storage retries exhausted")
	}
	return err
}
