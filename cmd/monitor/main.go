// Package main runs the live monitor: it polls recent market data on an
// interval, evaluates the configured strategies, and records live alerts
// to the shared store. Prometheus metrics are served over HTTP.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"optiflow/internal/config"
	"optiflow/internal/domain"
	"optiflow/internal/marketdata"
	"optiflow/internal/monitor"
	"optiflow/internal/observability"
	"optiflow/internal/storage"
	"optiflow/internal/storage/memory"
	"optiflow/internal/storage/migrations"
	pgstore "optiflow/internal/storage/postgres"
)

func main() {
	strategiesPath := flag.String("strategies", "", "Path to JSON file with an array of strategy configs (required)")
	symbolsFlag := flag.String("symbols", "", "Comma-separated symbols to watch (required)")
	lookbackDays := flag.Int("lookback-days", 90, "History window fetched per poll, in days")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage (no persistence)")
	providerName := flag.String("provider", "stooq", "Market data provider: stooq, yahoo")

	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Str("cmd", "monitor").Logger()

	if *strategiesPath == "" || *symbolsFlag == "" {
		logger.Fatal().Msg("--strategies and --symbols are required")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load configuration")
	}

	configs, err := loadStrategyConfigs(*strategiesPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("load strategy configs")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()
	}()

	var store storage.SyncStore = memory.NewSyncStore()
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
	}

	var provider marketdata.Provider
	switch strings.ToLower(*providerName) {
	case "stooq":
		provider = marketdata.NewStooqProvider("https://stooq.com", float64(cfg.ProviderRateLimit), cfg.FetchRetry, logger)
	case "yahoo":
		provider = marketdata.NewYahooProvider()
	default:
		logger.Fatal().Str("provider", *providerName).Msg("unknown provider")
	}

	mon, err := monitor.New(monitor.Options{
		Provider:     provider,
		Store:        store,
		Configs:      configs,
		Symbols:      splitSymbols(*symbolsFlag),
		Lookbacks:    cfg.Lookbacks,
		Interval:     cfg.PollInterval,
		LookbackDays: *lookbackDays,
		Log:          logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("create monitor")
	}

	// Metrics endpoint
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	metricsSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
	go func() {
		logger.Info().Str("addr", cfg.MetricsAddr).Msg("metrics server listening")
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics server failed")
		}
	}()

	logger.Info().
		Int("strategies", len(configs)).
		Int("symbols", len(splitSymbols(*symbolsFlag))).
		Dur("interval", cfg.PollInterval).
		Msg("monitor starting")

	err = mon.Run(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if serr := metricsSrv.Shutdown(shutdownCtx); serr != nil {
		logger.Warn().Err(serr).Msg("metrics server shutdown")
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("monitor stopped")
	}
	logger.Info().Msg("monitor stopped")
}

func loadStrategyConfigs(path string) ([]domain.StrategyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var configs []domain.StrategyConfig
	if err := json.Unmarshal(data, &configs); err != nil {
		return nil, err
	}
	return configs, nil
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
