// Package compare joins backtest performance with recent live alerts so
// simulated and observed behavior of a strategy can be reviewed side by side.
package compare

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"optiflow/internal/domain"
	"optiflow/internal/storage"
)

// Comparison is a read-only join of one performance report with the alert
// streams for its symbol and signal kind inside the trailing window.
type Comparison struct {
	StrategyName string
	Symbol       string
	AlertType    string
	Report       *domain.PerformanceReport

	// Counts inside the window.
	LiveAlerts     int
	BacktestAlerts int

	// Mean observed indicator values. Deltas are live minus simulated.
	AvgLiveValue      float64
	AvgSimulatedValue float64
	ValueDelta        float64

	// HasLiveData is false when the live stream was unreadable or empty;
	// the comparison then carries backtest data only.
	HasLiveData bool
}

// Comparator reads from the sync store. It never writes.
type Comparator struct {
	store  storage.SyncStore
	window time.Duration
	log    zerolog.Logger

	now func() time.Time
}

// New creates a Comparator over a trailing window.
func New(store storage.SyncStore, window time.Duration, log zerolog.Logger) *Comparator {
	return &Comparator{
		store:  store,
		window: window,
		log:    log.With().Str("component", "comparator").Logger(),
	}
}

// Compare joins the performance report for (strategyName, symbol) with the
// recent alert streams. Returns storage.ErrNotFound if no report exists.
func (c *Comparator) Compare(ctx context.Context, strategyName, symbol string) (*Comparison, error) {
	report, err := c.store.GetPerformance(ctx, strategyName, symbol)
	if err != nil {
		return nil, fmt.Errorf("load performance %s/%s: %w", strategyName, symbol, err)
	}
	return c.compareReport(ctx, report), nil
}

// CompareAll joins every stored performance report with its alert streams.
func (c *Comparator) CompareAll(ctx context.Context) ([]*Comparison, error) {
	reports, err := c.store.ListPerformance(ctx)
	if err != nil {
		return nil, fmt.Errorf("list performance: %w", err)
	}

	comparisons := make([]*Comparison, 0, len(reports))
	for _, report := range reports {
		comparisons = append(comparisons, c.compareReport(ctx, report))
	}
	return comparisons, nil
}

func (c *Comparator) compareReport(ctx context.Context, report *domain.PerformanceReport) *Comparison {
	alertType := alertTypeFromConfig(report.Config)
	since := c.clock().Add(-c.window)

	cmp := &Comparison{
		StrategyName: report.StrategyName,
		Symbol:       report.Symbol,
		AlertType:    alertType,
		Report:       report,
	}

	backtest, err := c.store.RecentBacktestAlerts(ctx, report.Symbol, since)
	if err != nil {
		c.log.Warn().Err(err).Str("symbol", report.Symbol).Msg("backtest alerts unreadable")
	} else {
		values := valuesOfBacktest(backtest, alertType)
		cmp.BacktestAlerts = len(values)
		cmp.AvgSimulatedValue = mean(values)
	}

	live, err := c.store.RecentLiveAlerts(ctx, report.Symbol, since)
	if err != nil {
		c.log.Warn().Err(err).Str("symbol", report.Symbol).Msg("live alerts unreadable, comparison degrades to backtest only")
		return cmp
	}

	values := valuesOfLive(live, alertType)
	cmp.LiveAlerts = len(values)
	if len(values) > 0 {
		cmp.HasLiveData = true
		cmp.AvgLiveValue = mean(values)
		cmp.ValueDelta = cmp.AvgLiveValue - cmp.AvgSimulatedValue
	}
	return cmp
}

func (c *Comparator) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

// alertTypeFromConfig recovers the signal kind from the report's stored
// strategy config. An unparseable config yields an empty type, which
// matches no alerts.
func alertTypeFromConfig(raw string) string {
	var cfg domain.StrategyConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return ""
	}
	return cfg.SignalKind
}

func valuesOfLive(alerts []*domain.LiveAlertRecord, alertType string) []float64 {
	var values []float64
	for _, a := range alerts {
		if a.AlertType == alertType {
			values = append(values, a.CurrentValue)
		}
	}
	return values
}

func valuesOfBacktest(alerts []*domain.BacktestAlertRecord, alertType string) []float64 {
	var values []float64
	for _, a := range alerts {
		if a.AlertType == alertType {
			values = append(values, a.SimulatedValue)
		}
	}
	return values
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
