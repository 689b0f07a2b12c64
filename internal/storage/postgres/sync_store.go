package postgres

import (
	"context"
	"math"
	"time"

	"github.com/jackc/pgx/v5"

	"optiflow/internal/domain"
	"optiflow/internal/storage"
)

// SyncStore implements storage.SyncStore using PostgreSQL.
type SyncStore struct {
	pool *Pool
}

// NewSyncStore creates a new SyncStore.
func NewSyncStore(pool *Pool) *SyncStore {
	return &SyncStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SyncStore = (*SyncStore)(nil)

// RecordLiveAlert inserts a live alert. A row with the same
// (symbol, alert_type, timestamp) already present is left untouched.
func (s *SyncStore) RecordLiveAlert(ctx context.Context, r *domain.LiveAlertRecord) error {
	if r == nil || r.Symbol == "" || r.AlertType == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO live_alerts (timestamp, symbol, alert_type, threshold, current_value, message)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (symbol, alert_type, timestamp) DO NOTHING
	`

	_, err := s.pool.Exec(ctx, query,
		r.Timestamp.UTC(), r.Symbol, r.AlertType, r.Threshold, r.CurrentValue, r.Message,
	)
	return classifyError("insert live alert", err)
}

// RecordBacktestAlert inserts a backtest alert with the same conflict
// behavior as RecordLiveAlert.
func (s *SyncStore) RecordBacktestAlert(ctx context.Context, r *domain.BacktestAlertRecord) error {
	if r == nil || r.Symbol == "" || r.AlertType == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO backtest_alerts (timestamp, symbol, alert_type, threshold, simulated_value, actual_outcome)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (symbol, alert_type, timestamp) DO NOTHING
	`

	_, err := s.pool.Exec(ctx, query,
		r.Timestamp.UTC(), r.Symbol, r.AlertType, r.Threshold, r.SimulatedValue, r.ActualOutcome,
	)
	return classifyError("insert backtest alert", err)
}

// UpsertPerformance replaces the whole row keyed by (strategy_name, symbol).
// An undefined Sharpe ratio (NaN) is persisted as NULL.
func (s *SyncStore) UpsertPerformance(ctx context.Context, r *domain.PerformanceReport) error {
	if r == nil || r.StrategyName == "" || r.Symbol == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO strategy_performance (
			strategy_name, symbol, total_signals, win_rate, total_return,
			sharpe_ratio, max_drawdown, insufficient_data, config, generated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (strategy_name, symbol) DO UPDATE SET
			total_signals = EXCLUDED.total_signals,
			win_rate = EXCLUDED.win_rate,
			total_return = EXCLUDED.total_return,
			sharpe_ratio = EXCLUDED.sharpe_ratio,
			max_drawdown = EXCLUDED.max_drawdown,
			insufficient_data = EXCLUDED.insufficient_data,
			config = EXCLUDED.config,
			generated_at = EXCLUDED.generated_at
	`

	var sharpe *float64
	if !math.IsNaN(r.SharpeRatio) {
		v := r.SharpeRatio
		sharpe = &v
	}

	_, err := s.pool.Exec(ctx, query,
		r.StrategyName, r.Symbol, r.TotalSignals, r.WinRate, r.TotalReturnPct,
		sharpe, r.MaxDrawdownPct, r.InsufficientData, r.Config, r.GeneratedAt.UTC(),
	)
	return classifyError("upsert strategy performance", err)
}

// RecentLiveAlerts retrieves live alerts at or after since, oldest first.
// An empty symbol matches all symbols.
func (s *SyncStore) RecentLiveAlerts(ctx context.Context, symbol string, since time.Time) ([]*domain.LiveAlertRecord, error) {
	query := `
		SELECT timestamp, symbol, alert_type, threshold, current_value, message
		FROM live_alerts
		WHERE ($1 = '' OR symbol = $1) AND timestamp >= $2
		ORDER BY timestamp ASC, symbol ASC
	`

	rows, err := s.pool.Query(ctx, query, symbol, since.UTC())
	if err != nil {
		return nil, classifyError("get live alerts", err)
	}
	defer rows.Close()

	return scanLiveAlerts(rows)
}

// RecentBacktestAlerts retrieves backtest alerts at or after since, oldest first.
func (s *SyncStore) RecentBacktestAlerts(ctx context.Context, symbol string, since time.Time) ([]*domain.BacktestAlertRecord, error) {
	query := `
		SELECT timestamp, symbol, alert_type, threshold, simulated_value, actual_outcome
		FROM backtest_alerts
		WHERE ($1 = '' OR symbol = $1) AND timestamp >= $2
		ORDER BY timestamp ASC, symbol ASC
	`

	rows, err := s.pool.Query(ctx, query, symbol, since.UTC())
	if err != nil {
		return nil, classifyError("get backtest alerts", err)
	}
	defer rows.Close()

	return scanBacktestAlerts(rows)
}

// GetPerformance retrieves the report for a strategy/symbol pair.
// Returns ErrNotFound if no row exists.
func (s *SyncStore) GetPerformance(ctx context.Context, strategyName, symbol string) (*domain.PerformanceReport, error) {
	query := `
		SELECT strategy_name, symbol, total_signals, win_rate, total_return,
		       sharpe_ratio, max_drawdown, insufficient_data, config, generated_at
		FROM strategy_performance
		WHERE strategy_name = $1 AND symbol = $2
	`

	row := s.pool.QueryRow(ctx, query, strategyName, symbol)
	r, err := scanPerformance(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, classifyError("get strategy performance", err)
	}
	return r, nil
}

// ListPerformance retrieves all reports ordered by (strategy_name, symbol).
func (s *SyncStore) ListPerformance(ctx context.Context) ([]*domain.PerformanceReport, error) {
	query := `
		SELECT strategy_name, symbol, total_signals, win_rate, total_return,
		       sharpe_ratio, max_drawdown, insufficient_data, config, generated_at
		FROM strategy_performance
		ORDER BY strategy_name ASC, symbol ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, classifyError("list strategy performance", err)
	}
	defer rows.Close()

	var reports []*domain.PerformanceReport
	for rows.Next() {
		r, err := scanPerformance(rows)
		if err != nil {
			return nil, classifyError("scan strategy performance row", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyError("iterate strategy performance rows", err)
	}
	return reports, nil
}

func scanLiveAlerts(rows pgx.Rows) ([]*domain.LiveAlertRecord, error) {
	var alerts []*domain.LiveAlertRecord

	for rows.Next() {
		var a domain.LiveAlertRecord
		err := rows.Scan(&a.Timestamp, &a.Symbol, &a.AlertType, &a.Threshold, &a.CurrentValue, &a.Message)
		if err != nil {
			return nil, classifyError("scan live alert row", err)
		}
		alerts = append(alerts, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, classifyError("iterate live alert rows", err)
	}
	return alerts, nil
}

func scanBacktestAlerts(rows pgx.Rows) ([]*domain.BacktestAlertRecord, error) {
	var alerts []*domain.BacktestAlertRecord

	for rows.Next() {
		var a domain.BacktestAlertRecord
		err := rows.Scan(&a.Timestamp, &a.Symbol, &a.AlertType, &a.Threshold, &a.SimulatedValue, &a.ActualOutcome)
		if err != nil {
			return nil, classifyError("scan backtest alert row", err)
		}
		alerts = append(alerts, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, classifyError("iterate backtest alert rows", err)
	}
	return alerts, nil
}

func scanPerformance(row pgx.Row) (*domain.PerformanceReport, error) {
	var (
		r      domain.PerformanceReport
		sharpe *float64
	)

	err := row.Scan(
		&r.StrategyName, &r.Symbol, &r.TotalSignals, &r.WinRate, &r.TotalReturnPct,
		&sharpe, &r.MaxDrawdownPct, &r.InsufficientData, &r.Config, &r.GeneratedAt,
	)
	if err != nil {
		return nil, err
	}

	if sharpe != nil {
		r.SharpeRatio = *sharpe
	} else {
		r.SharpeRatio = math.NaN()
	}
	return &r, nil
}
