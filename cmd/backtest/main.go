// Package main runs a historical backtest of one strategy over a set of
// symbols and persists the resulting alerts and performance reports.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"optiflow/internal/backtest"
	"optiflow/internal/config"
	"optiflow/internal/domain"
	"optiflow/internal/marketdata"
	"optiflow/internal/storage"
	chstore "optiflow/internal/storage/clickhouse"
	"optiflow/internal/storage/memory"
	"optiflow/internal/storage/migrations"
	pgstore "optiflow/internal/storage/postgres"
)

func main() {
	// Strategy flags
	name := flag.String("name", "", "Strategy name (required)")
	signalKind := flag.String("signal", "", "Signal kind: volume_spike, price_change, rsi_extreme, bollinger_breakout (required)")
	threshold := flag.Float64("threshold", 0, "Signal threshold (required, positive)")
	condition := flag.String("condition", "above", "Trigger condition: above, below")
	exitKind := flag.String("exit", "time", "Exit rule: time, price_target, stop_loss")
	exitValue := flag.Float64("exit-value", 5, "Exit parameter: days for time, percent otherwise")

	// Universe
	symbolsFlag := flag.String("symbols", "", "Comma-separated symbols to backtest (required)")
	lookbackDays := flag.Int("lookback-days", 0, "History window in days (default from config)")

	// Storage and data source
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage (no persistence)")
	providerName := flag.String("provider", "stooq", "Market data provider: stooq, yahoo")

	// Output
	outputJSON := flag.Bool("json", false, "Output per-symbol results as JSON")

	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Str("cmd", "backtest").Logger()

	if *name == "" || *signalKind == "" || *symbolsFlag == "" {
		logger.Fatal().Msg("--name, --signal and --symbols are required")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load configuration")
	}
	if *lookbackDays <= 0 {
		*lookbackDays = cfg.HistoryLookback
	}

	strategyCfg := domain.StrategyConfig{
		Name:       *name,
		SignalKind: strings.ToLower(*signalKind),
		Threshold:  *threshold,
		Condition:  strings.ToLower(*condition),
		ExitKind:   strings.ToLower(*exitKind),
		ExitValue:  *exitValue,
	}
	symbols := splitSymbols(*symbolsFlag)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()
	}()

	// Stores
	var store storage.SyncStore = memory.NewSyncStore()
	var barCache storage.BarCacheStore
	if !*useMemory {
		if cfg.PostgresDSN == "" {
			logger.Fatal().Msg("OPTIFLOW_POSTGRES_DSN is required unless --use-memory is set")
		}
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			logger.Fatal().Err(err).Msg("connect to postgres")
		}
		defer pool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatal().Err(err).Msg("apply postgres migrations")
		}
		store = storage.NewRetryingStore(pgstore.NewSyncStore(pool), cfg.StorageRetry, logger)

		if cfg.ClickHouseDSN != "" {
			conn, err := migrations.RunClickhouseMigrations(ctx, cfg.ClickHouseDSN)
			if err != nil {
				logger.Fatal().Err(err).Msg("prepare clickhouse bar cache")
			}
			defer conn.Close()
			barCache = chstore.NewBarStore(conn)
		}
	}

	provider, err := buildProvider(*providerName, cfg, barCache, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("build market data provider")
	}

	runner := backtest.NewRunner(backtest.Options{
		Provider:  provider,
		Store:     store,
		Lookbacks: cfg.Lookbacks,
		Workers:   cfg.Workers,
		Log:       logger,
	})

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -*lookbackDays)

	logger.Info().
		Str("strategy", strategyCfg.Name).
		Int("symbols", len(symbols)).
		Time("from", from).
		Time("to", to).
		Msg("starting backtest")

	run, err := runner.Run(ctx, strategyCfg, symbols, from, to)
	if err != nil {
		logger.Fatal().Err(err).Msg("backtest failed")
	}

	if *outputJSON {
		output, _ := json.MarshalIndent(run.Results, "", "  ")
		fmt.Println(string(output))
	} else {
		printResults(run)
	}

	if len(run.Errors) > 0 {
		os.Exit(1)
	}
}

func splitSymbols(raw string) []string {
	var symbols []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(strings.ToUpper(s))
		if s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols
}

func buildProvider(name string, cfg *config.Config, barCache storage.BarCacheStore, logger zerolog.Logger) (marketdata.Provider, error) {
	var provider marketdata.Provider
	switch strings.ToLower(name) {
	case "stooq":
		provider = marketdata.NewStooqProvider("https://stooq.com", float64(cfg.ProviderRateLimit), cfg.FetchRetry, logger)
	case "yahoo":
		provider = marketdata.NewYahooProvider()
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}

	if barCache != nil {
		provider = marketdata.NewCachingProvider(provider, barCache, logger)
	}
	return provider, nil
}

func printResults(run *backtest.RunResult) {
	fmt.Println()
	fmt.Println("=== Backtest Results ===")
	for _, res := range run.Results {
		if res.Err != nil {
			fmt.Printf("%-8s skipped: %v\n", res.Symbol, res.Err)
			continue
		}
		fmt.Printf("%-8s signals=%d trades=%d win_rate=%.1f%% total_return=%.2f%% max_dd=%.2f%%\n",
			res.Symbol, res.Signals, res.Trades,
			res.Report.WinRate, res.Report.TotalReturnPct, res.Report.MaxDrawdownPct)
	}
	if len(run.Errors) > 0 {
		fmt.Printf("\n%d symbol(s) failed\n", len(run.Errors))
	}
}
