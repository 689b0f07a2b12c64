// Package main renders a report joining stored backtest performance with
// recent live alerts. It only reads from storage.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"optiflow/internal/compare"
	"optiflow/internal/config"
	"optiflow/internal/reporting"
	"optiflow/internal/storage"
	"optiflow/internal/storage/migrations"
	pgstore "optiflow/internal/storage/postgres"
)

func main() {
	window := flag.Duration("window", 7*24*time.Hour, "Trailing window for live alerts")
	format := flag.String("format", "markdown", "Output format: markdown, csv, json")
	outPath := flag.String("out", "", "Write output to file instead of stdout")

	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Str("cmd", "compare").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load configuration")
	}
	if cfg.PostgresDSN == "" {
		logger.Fatal().Msg("OPTIFLOW_POSTGRES_DSN is required")
	}

	ctx := context.Background()

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to postgres")
	}
	defer pool.Close()
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("apply postgres migrations")
	}

	store := storage.NewRetryingStore(pgstore.NewSyncStore(pool), cfg.StorageRetry, logger)
	comparator := compare.New(store, *window, logger)

	report, err := reporting.NewGenerator(store, comparator).Generate(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("generate report")
	}

	var output string
	switch *format {
	case "markdown":
		output = reporting.RenderMarkdown(report)
	case "csv":
		output = reporting.RenderCSV(report.Performance)
	case "json":
		raw, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			logger.Fatal().Err(err).Msg("encode report")
		}
		output = string(raw) + "\n"
	default:
		logger.Fatal().Str("format", *format).Msg("unknown output format")
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, []byte(output), 0o644); err != nil {
			logger.Fatal().Err(err).Msg("write output file")
		}
		logger.Info().Str("path", *outPath).Msg("report written")
		return
	}
	fmt.Print(output)
}
