// Package memory provides in-memory storage implementations used by tests
// and --use-memory runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"optiflow/internal/domain"
	"optiflow/internal/storage"
)

// SyncStore is an in-memory implementation of storage.SyncStore.
type SyncStore struct {
	mu          sync.RWMutex
	live        map[domain.AlertKey]*domain.LiveAlertRecord
	backtest    map[domain.AlertKey]*domain.BacktestAlertRecord
	performance map[performanceKey]*domain.PerformanceReport
}

type performanceKey struct {
	strategyName string
	symbol       string
}

// NewSyncStore creates an empty in-memory sync store.
func NewSyncStore() *SyncStore {
	return &SyncStore{
		live:        make(map[domain.AlertKey]*domain.LiveAlertRecord),
		backtest:    make(map[domain.AlertKey]*domain.BacktestAlertRecord),
		performance: make(map[performanceKey]*domain.PerformanceReport),
	}
}

// Compile-time interface check.
var _ storage.SyncStore = (*SyncStore)(nil)

// RecordLiveAlert appends a live alert; an identical key is a no-op.
func (s *SyncStore) RecordLiveAlert(_ context.Context, r *domain.LiveAlertRecord) error {
	if r == nil || r.Symbol == "" || r.AlertType == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := r.Key()
	if _, exists := s.live[key]; exists {
		return nil
	}
	cp := *r
	s.live[key] = &cp
	return nil
}

// RecordBacktestAlert appends a backtest alert; an identical key is a no-op.
func (s *SyncStore) RecordBacktestAlert(_ context.Context, r *domain.BacktestAlertRecord) error {
	if r == nil || r.Symbol == "" || r.AlertType == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := r.Key()
	if _, exists := s.backtest[key]; exists {
		return nil
	}
	cp := *r
	s.backtest[key] = &cp
	return nil
}

// UpsertPerformance fully replaces the report for (strategy_name, symbol).
func (s *SyncStore) UpsertPerformance(_ context.Context, r *domain.PerformanceReport) error {
	if r == nil || r.StrategyName == "" || r.Symbol == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *r
	s.performance[performanceKey{r.StrategyName, r.Symbol}] = &cp
	return nil
}

// RecentLiveAlerts returns matching alerts in timestamp order.
func (s *SyncStore) RecentLiveAlerts(_ context.Context, symbol string, since time.Time) ([]*domain.LiveAlertRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.LiveAlertRecord
	for _, r := range s.live {
		if symbol != "" && r.Symbol != symbol {
			continue
		}
		if r.Timestamp.Before(since) {
			continue
		}
		cp := *r
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})
	return result, nil
}

// RecentBacktestAlerts returns matching alerts in timestamp order.
func (s *SyncStore) RecentBacktestAlerts(_ context.Context, symbol string, since time.Time) ([]*domain.BacktestAlertRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.BacktestAlertRecord
	for _, r := range s.backtest {
		if symbol != "" && r.Symbol != symbol {
			continue
		}
		if r.Timestamp.Before(since) {
			continue
		}
		cp := *r
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})
	return result, nil
}

// GetPerformance retrieves the stored report. Returns ErrNotFound if absent.
func (s *SyncStore) GetPerformance(_ context.Context, strategyName, symbol string) (*domain.PerformanceReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.performance[performanceKey{strategyName, symbol}]
	if !exists {
		return nil, storage.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

// ListPerformance returns all reports ordered by (strategy_name, symbol).
func (s *SyncStore) ListPerformance(_ context.Context) ([]*domain.PerformanceReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.PerformanceReport, 0, len(s.performance))
	for _, r := range s.performance {
		cp := *r
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].StrategyName != result[j].StrategyName {
			return result[i].StrategyName < result[j].StrategyName
		}
		return result[i].Symbol < result[j].Symbol
	})
	return result, nil
}
