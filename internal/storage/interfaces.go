package storage

import (
	"context"
	"time"

	"optiflow/internal/domain"
)

// SyncStore is the shared ledger reconciling live-observed alerts with
// backtested alerts and strategy performance history. It is the only mutable
// resource shared between the live monitor and the offline evaluator; both
// processes mutate it exclusively through these idempotent operations.
type SyncStore interface {
	// RecordLiveAlert appends a live alert. Idempotent: re-submitting a
	// record with an identical (symbol, alert_type, timestamp) key is a
	// no-op, not a duplicate row.
	RecordLiveAlert(ctx context.Context, r *domain.LiveAlertRecord) error

	// RecordBacktestAlert appends a backtest alert with the same
	// idempotency contract as RecordLiveAlert.
	RecordBacktestAlert(ctx context.Context, r *domain.BacktestAlertRecord) error

	// UpsertPerformance stores a performance report keyed by
	// (strategy_name, symbol). Full replace, no partial merge.
	UpsertPerformance(ctx context.Context, r *domain.PerformanceReport) error

	// RecentLiveAlerts returns live alerts for a symbol at or after since,
	// in timestamp order. An empty symbol matches all symbols.
	RecentLiveAlerts(ctx context.Context, symbol string, since time.Time) ([]*domain.LiveAlertRecord, error)

	// RecentBacktestAlerts returns backtest alerts for a symbol at or after
	// since, in timestamp order. An empty symbol matches all symbols.
	RecentBacktestAlerts(ctx context.Context, symbol string, since time.Time) ([]*domain.BacktestAlertRecord, error)

	// GetPerformance retrieves the report stored for (strategyName, symbol).
	// Returns ErrNotFound if none exists.
	GetPerformance(ctx context.Context, strategyName, symbol string) (*domain.PerformanceReport, error)

	// ListPerformance returns all stored reports ordered by
	// (strategy_name, symbol).
	ListPerformance(ctx context.Context) ([]*domain.PerformanceReport, error)
}

// BarCacheStore persists fetched historical bar series so repeated backtests
// do not re-fetch from the market-data collaborator.
type BarCacheStore interface {
	// InsertBulk appends bars for a symbol. Re-inserted (symbol, timestamp)
	// pairs are absorbed, not duplicated.
	InsertBulk(ctx context.Context, symbol string, bars []domain.PriceBar) error

	// GetRange retrieves cached bars for a symbol within [from, to]
	// inclusive, ordered by timestamp ASC.
	GetRange(ctx context.Context, symbol string, from, to time.Time) ([]domain.PriceBar, error)
}
