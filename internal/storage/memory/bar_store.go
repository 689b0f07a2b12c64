package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"optiflow/internal/domain"
	"optiflow/internal/storage"
)

// BarStore is an in-memory implementation of storage.BarCacheStore.
type BarStore struct {
	mu   sync.RWMutex
	bars map[string]map[time.Time]domain.PriceBar
}

// NewBarStore creates an empty in-memory bar cache.
func NewBarStore() *BarStore {
	return &BarStore{bars: make(map[string]map[time.Time]domain.PriceBar)}
}

var _ storage.BarCacheStore = (*BarStore)(nil)

// InsertBulk stores bars for the symbol. Re-inserted timestamps are absorbed.
func (s *BarStore) InsertBulk(_ context.Context, symbol string, bars []domain.PriceBar) error {
	if symbol == "" {
		return storage.ErrInvalidInput
	}
	if len(bars) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	bySymbol, exists := s.bars[symbol]
	if !exists {
		bySymbol = make(map[time.Time]domain.PriceBar, len(bars))
		s.bars[symbol] = bySymbol
	}
	for _, b := range bars {
		bySymbol[b.Timestamp.UTC()] = b
	}
	return nil
}

// GetRange returns bars with from <= timestamp <= to in ascending order.
func (s *BarStore) GetRange(_ context.Context, symbol string, from, to time.Time) ([]domain.PriceBar, error) {
	if symbol == "" {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.PriceBar
	for ts, b := range s.bars[symbol] {
		if ts.Before(from) || ts.After(to) {
			continue
		}
		result = append(result, b)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})
	return result, nil
}
