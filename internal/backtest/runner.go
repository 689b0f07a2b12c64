// Package backtest coordinates the full backtest flow:
// fetch bars → detect signals → simulate trades → evaluate → persist.
package backtest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"optiflow/internal/config"
	"optiflow/internal/detector"
	"optiflow/internal/domain"
	"optiflow/internal/evaluator"
	"optiflow/internal/idhash"
	"optiflow/internal/marketdata"
	"optiflow/internal/observability"
	"optiflow/internal/simulator"
	"optiflow/internal/storage"
	"optiflow/internal/strategy"
)

// Runner executes one strategy against many symbols concurrently.
type Runner struct {
	provider  marketdata.Provider
	store     storage.SyncStore
	detector  *detector.Detector
	simulator *simulator.Simulator
	lookbacks config.Lookbacks
	workers   int
	log       zerolog.Logger
}

// Options for creating a Runner.
type Options struct {
	Provider  marketdata.Provider
	Store     storage.SyncStore
	Lookbacks config.Lookbacks
	Workers   int
	Log       zerolog.Logger
}

// NewRunner creates a new backtest runner.
func NewRunner(opts Options) *Runner {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		provider:  opts.Provider,
		store:     opts.Store,
		detector:  detector.New(),
		simulator: simulator.New(),
		lookbacks: opts.Lookbacks,
		workers:   workers,
		log:       opts.Log.With().Str("component", "backtest_runner").Logger(),
	}
}

// SymbolResult holds the outcome for one symbol.
type SymbolResult struct {
	Symbol  string
	Report  *domain.PerformanceReport
	Signals int
	Trades  int
	Err     error
}

// RunResult aggregates per-symbol outcomes of one run.
type RunResult struct {
	Results []SymbolResult
	Errors  []string
}

// Run executes the strategy over all symbols in [from, to]. Symbols are
// processed by a bounded worker pool; one symbol failing does not stop
// the others. The returned error is non-nil only when the run as a whole
// could not proceed (invalid strategy, cancelled context).
func (r *Runner) Run(ctx context.Context, cfg domain.StrategyConfig, symbols []string, from, to time.Time) (*RunResult, error) {
	strat, err := strategy.FromConfig(cfg, r.lookbacks)
	if err != nil {
		return nil, fmt.Errorf("build strategy %q: %w", cfg.Name, err)
	}
	if len(symbols) == 0 {
		return &RunResult{}, nil
	}

	jobs := make(chan string)
	results := make(chan SymbolResult, len(symbols))

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				results <- r.runSymbol(ctx, strat, symbol, from, to)
			}
		}()
	}

feed:
	for _, symbol := range symbols {
		select {
		case jobs <- symbol:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	run := &RunResult{}
	for res := range results {
		if res.Err != nil {
			run.Errors = append(run.Errors, fmt.Sprintf("%s: %v", res.Symbol, res.Err))
		}
		run.Results = append(run.Results, res)
	}

	if err := ctx.Err(); err != nil {
		return run, err
	}
	observability.DefaultMetrics.LastSuccessfulBacktest.SetToCurrentTime()
	return run, nil
}

// runSymbol runs the full flow for one symbol.
func (r *Runner) runSymbol(ctx context.Context, strat *strategy.Strategy, symbol string, from, to time.Time) SymbolResult {
	started := time.Now()
	log := r.log.With().Str("symbol", symbol).Str("strategy", strat.Config.Name).Logger()

	res := SymbolResult{Symbol: symbol}

	bars, err := r.provider.GetDailyBars(ctx, symbol, from, to)
	if err != nil {
		// A symbol with no usable data is skipped, not fatal for the run.
		if errors.Is(err, marketdata.ErrNoData) || errors.Is(err, marketdata.ErrSymbolNotFound) {
			log.Warn().Err(err).Msg("no market data, skipping symbol")
			observability.RecordSymbolRun("no_data")
			res.Err = err
			return res
		}
		log.Error().Err(err).Msg("market data fetch failed")
		observability.RecordSymbolRun("fetch_error")
		res.Err = fmt.Errorf("fetch bars: %w", err)
		return res
	}

	signals, err := r.detector.Detect(symbol, bars, strat)
	if err != nil {
		observability.RecordSymbolRun("detect_error")
		res.Err = fmt.Errorf("detect signals: %w", err)
		return res
	}
	res.Signals = len(signals)
	for range signals {
		observability.RecordSignal(strat.Config.SignalKind)
	}

	trades, err := r.simulator.Simulate(bars, signals, strat)
	if err != nil {
		observability.RecordSymbolRun("simulate_error")
		res.Err = fmt.Errorf("simulate trades: %w", err)
		return res
	}
	res.Trades = len(trades)

	report := evaluator.Evaluate(strat.Config, symbol, trades)

	for _, t := range trades {
		observability.RecordTrade(t.ExitReason)
		alert := &domain.BacktestAlertRecord{
			Timestamp:      t.Signal.Timestamp,
			Symbol:         symbol,
			AlertType:      strat.Config.SignalKind,
			Threshold:      strat.Config.Threshold,
			SimulatedValue: t.Signal.ObservedValue,
			ActualOutcome:  t.ReturnPct,
		}
		if err := r.store.RecordBacktestAlert(ctx, alert); err != nil {
			observability.RecordSymbolRun("store_error")
			res.Err = fmt.Errorf("record backtest alert: %w", err)
			return res
		}
		log.Debug().
			Str("alert_id", idhash.ComputeAlertID(symbol, alert.AlertType, alert.Timestamp)).
			Str("trade_id", idhash.ComputeTradeID(symbol, strat.Config.Name, t.EntryTimestamp)).
			Str("exit_reason", t.ExitReason).
			Float64("return_pct", t.ReturnPct).
			Msg("backtest trade recorded")
	}

	if err := r.store.UpsertPerformance(ctx, report); err != nil {
		observability.RecordSymbolRun("store_error")
		res.Err = fmt.Errorf("write performance report: %w", err)
		return res
	}
	res.Report = report

	observability.RecordReportWritten()
	observability.RecordSymbolRun("ok")
	observability.DefaultMetrics.BacktestDuration.
		WithLabelValues(strat.Config.Name).
		Observe(time.Since(started).Seconds())

	log.Info().
		Int("bars", len(bars)).
		Int("signals", res.Signals).
		Int("trades", res.Trades).
		Float64("win_rate", report.WinRate).
		Msg("symbol backtest complete")
	return res
}
