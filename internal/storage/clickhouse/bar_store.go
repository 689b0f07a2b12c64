package clickhouse

import (
	"context"
	"fmt"
	"time"

	"optiflow/internal/domain"
	"optiflow/internal/storage"
)

// BarStore implements storage.BarCacheStore using ClickHouse.
//
// The backing table is a ReplacingMergeTree keyed by (symbol, timestamp),
// so re-inserting a bar for an existing timestamp is absorbed instead of
// producing a duplicate row. Reads use FINAL to collapse unmerged parts.
type BarStore struct {
	conn *Conn
}

// NewBarStore creates a new BarStore.
func NewBarStore(conn *Conn) *BarStore {
	return &BarStore{conn: conn}
}

// Compile-time interface check.
var _ storage.BarCacheStore = (*BarStore)(nil)

// InsertBulk stores daily bars for the symbol in one batch.
func (s *BarStore) InsertBulk(ctx context.Context, symbol string, bars []domain.PriceBar) error {
	if symbol == "" {
		return storage.ErrInvalidInput
	}
	if len(bars) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO price_bars (symbol, timestamp, open, high, low, close, volume)
	`)
	if err != nil {
		return fmt.Errorf("prepare bar batch: %w", err)
	}

	for _, b := range bars {
		err = batch.Append(
			symbol, b.Timestamp.UTC(), b.Open, b.High, b.Low, b.Close, b.Volume,
		)
		if err != nil {
			return fmt.Errorf("append bar to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send bar batch: %w", err)
	}
	return nil
}

// GetRange retrieves bars with from <= timestamp <= to in ascending order.
func (s *BarStore) GetRange(ctx context.Context, symbol string, from, to time.Time) ([]domain.PriceBar, error) {
	if symbol == "" {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT timestamp, open, high, low, close, volume
		FROM price_bars FINAL
		WHERE symbol = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC
	`

	rows, err := s.conn.Query(ctx, query, symbol, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	var bars []domain.PriceBar
	for rows.Next() {
		var b domain.PriceBar
		if err := rows.Scan(&b.Timestamp, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar row: %w", err)
		}
		bars = append(bars, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bar rows: %w", err)
	}
	return bars, nil
}
