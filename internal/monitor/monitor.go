// Package monitor polls recent market data and records live alerts for
// strategies whose entry condition holds on the latest bar.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"optiflow/internal/config"
	"optiflow/internal/domain"
	"optiflow/internal/idhash"
	"optiflow/internal/marketdata"
	"optiflow/internal/observability"
	"optiflow/internal/storage"
	"optiflow/internal/strategy"
)

// Monitor periodically evaluates strategies against fresh bars and writes
// live alerts to the shared store. Writes are idempotent on the alert's
// natural key, so re-detecting the same condition on the same bar across
// polls or processes produces a single row.
type Monitor struct {
	provider   marketdata.Provider
	store      storage.SyncStore
	strategies []*strategy.Strategy
	symbols    []string
	interval   time.Duration
	lookback   int
	log        zerolog.Logger

	// now is swappable in tests.
	now func() time.Time
}

// Options for creating a Monitor.
type Options struct {
	Provider marketdata.Provider
	Store    storage.SyncStore
	Configs  []domain.StrategyConfig
	Symbols  []string

	Lookbacks config.Lookbacks
	Interval  time.Duration

	// LookbackDays bounds how much history each poll fetches. It must be
	// large enough to fill the widest indicator window.
	LookbackDays int

	Log zerolog.Logger
}

// New creates a Monitor, validating every strategy config up front.
func New(opts Options) (*Monitor, error) {
	if opts.Interval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %v", opts.Interval)
	}
	if opts.LookbackDays <= 0 {
		return nil, fmt.Errorf("lookback days must be positive, got %d", opts.LookbackDays)
	}

	strategies := make([]*strategy.Strategy, 0, len(opts.Configs))
	for _, cfg := range opts.Configs {
		strat, err := strategy.FromConfig(cfg, opts.Lookbacks)
		if err != nil {
			return nil, fmt.Errorf("build strategy %q: %w", cfg.Name, err)
		}
		strategies = append(strategies, strat)
	}

	return &Monitor{
		provider:   opts.Provider,
		store:      opts.Store,
		strategies: strategies,
		symbols:    opts.Symbols,
		interval:   opts.Interval,
		lookback:   opts.LookbackDays,
		log:        opts.Log.With().Str("component", "monitor").Logger(),
		now:        time.Now,
	}, nil
}

// Run polls immediately and then on every interval tick until ctx is
// cancelled. Poll failures are logged and do not stop the loop.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.poll(ctx)
		}
	}
}

func (m *Monitor) poll(ctx context.Context) {
	started := m.now()
	emitted, failed := 0, 0

	for _, symbol := range m.symbols {
		if ctx.Err() != nil {
			return
		}
		n, err := m.PollSymbol(ctx, symbol)
		if err != nil {
			failed++
			m.log.Warn().Err(err).Str("symbol", symbol).Msg("poll failed for symbol")
			continue
		}
		emitted += n
	}

	observability.DefaultMetrics.PollDuration.Observe(time.Since(started).Seconds())
	if failed < len(m.symbols) || len(m.symbols) == 0 {
		observability.DefaultMetrics.LastSuccessfulPoll.SetToCurrentTime()
	}
	m.log.Info().
		Int("symbols", len(m.symbols)).
		Int("alerts", emitted).
		Int("failed_symbols", failed).
		Msg("poll cycle complete")
}

// PollSymbol fetches recent bars for one symbol, evaluates every strategy
// on the latest bar, and records an alert for each triggered condition.
// Returns the number of alerts written.
func (m *Monitor) PollSymbol(ctx context.Context, symbol string) (int, error) {
	to := m.now()
	from := to.AddDate(0, 0, -m.lookback)

	bars, err := m.provider.GetDailyBars(ctx, symbol, from, to)
	if err != nil {
		if errors.Is(err, marketdata.ErrNoData) || errors.Is(err, marketdata.ErrSymbolNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("fetch bars: %w", err)
	}
	if len(bars) == 0 {
		return 0, marketdata.ErrNoData
	}

	last := len(bars) - 1
	emitted := 0
	for _, strat := range m.strategies {
		observed, ok := strat.Entry.Evaluate(bars, last)
		if !ok {
			continue
		}

		alert := &domain.LiveAlertRecord{
			Timestamp:    bars[last].Timestamp,
			Symbol:       symbol,
			AlertType:    strat.Config.SignalKind,
			Threshold:    strat.Config.Threshold,
			CurrentValue: observed,
			Message:      alertMessage(strat.Config, observed),
		}
		if err := m.store.RecordLiveAlert(ctx, alert); err != nil {
			return emitted, fmt.Errorf("record live alert: %w", err)
		}
		m.log.Info().
			Str("alert_id", idhash.ComputeAlertID(symbol, alert.AlertType, alert.Timestamp)).
			Str("symbol", symbol).
			Str("alert_type", alert.AlertType).
			Float64("value", observed).
			Msg("live alert recorded")
		observability.RecordLiveAlert(strat.Config.SignalKind)
		emitted++
	}
	return emitted, nil
}

func alertMessage(cfg domain.StrategyConfig, observed float64) string {
	switch cfg.SignalKind {
	case domain.SignalVolumeSpike:
		return fmt.Sprintf("volume %.1fx trailing average (threshold %.1fx)", observed, cfg.Threshold)
	case domain.SignalPriceChange:
		return fmt.Sprintf("price moved %.2f%% (threshold %.2f%%, %s)", observed, cfg.Threshold, cfg.Condition)
	case domain.SignalRSIExtreme:
		return fmt.Sprintf("RSI at %.1f (threshold %.1f, %s)", observed, cfg.Threshold, cfg.Condition)
	case domain.SignalBollingerBreakout:
		return fmt.Sprintf("close %.4f outside %s band", observed, cfg.Condition)
	default:
		return fmt.Sprintf("%s observed %.4f vs threshold %.4f", cfg.SignalKind, observed, cfg.Threshold)
	}
}
