// Package config loads runtime configuration from the environment.
// A .env file is honored when present; every option has a sensible default
// so the binaries run with an empty environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Lookbacks holds the per-signal-kind window sizes used by the detector.
// These are configuration, never hard-coded inside detection logic.
type Lookbacks struct {
	VolumeWindow      int // trailing bars for the volume average
	PriceChangeWindow int // reference bar offset for percent change
	RSIWindow         int // RSI averaging window
	BollingerWindow   int // moving-average window for the bands
	BollingerK        float64
}

// Retry holds backoff parameters for storage and data-fetch operations.
type Retry struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// Config is the full configuration surface of the monitor and evaluator
// processes.
type Config struct {
	PostgresDSN   string
	ClickHouseDSN string

	// PollInterval bounds the staleness window between the live monitor and
	// the evaluator; neither process observes the other's records faster.
	PollInterval time.Duration

	// HistoryLookback is how many daily bars backtests request per symbol.
	HistoryLookback int

	// Workers bounds concurrent per-symbol backtest units.
	Workers int

	// MetricsAddr is the promhttp listen address for the monitor process.
	MetricsAddr string

	Lookbacks    Lookbacks
	StorageRetry Retry
	FetchRetry   Retry

	// ProviderRateLimit is max market-data requests per second.
	ProviderRateLimit int
}

// Load reads configuration from the environment, honoring a .env file if one
// exists in the working directory.
func Load() (*Config, error) {
	// Missing .env is not an error; env vars may be set directly.
	_ = godotenv.Load()

	cfg := &Config{
		PostgresDSN:     os.Getenv("OPTIFLOW_POSTGRES_DSN"),
		ClickHouseDSN:   os.Getenv("OPTIFLOW_CLICKHOUSE_DSN"),
		PollInterval:    envDuration("OPTIFLOW_POLL_INTERVAL", 30*time.Second),
		HistoryLookback: envInt("OPTIFLOW_HISTORY_LOOKBACK", 365),
		Workers:         envInt("OPTIFLOW_WORKERS", 4),
		MetricsAddr:     envString("OPTIFLOW_METRICS_ADDR", ":9090"),
		Lookbacks: Lookbacks{
			VolumeWindow:      envInt("OPTIFLOW_VOLUME_WINDOW", 20),
			PriceChangeWindow: envInt("OPTIFLOW_PRICE_CHANGE_WINDOW", 1),
			RSIWindow:         envInt("OPTIFLOW_RSI_WINDOW", 14),
			BollingerWindow:   envInt("OPTIFLOW_BOLLINGER_WINDOW", 20),
			BollingerK:        envFloat("OPTIFLOW_BOLLINGER_K", 2.0),
		},
		StorageRetry: Retry{
			InitialInterval: envDuration("OPTIFLOW_STORAGE_RETRY_INITIAL", 100*time.Millisecond),
			MaxInterval:     envDuration("OPTIFLOW_STORAGE_RETRY_MAX", 2*time.Second),
			MaxElapsedTime:  envDuration("OPTIFLOW_STORAGE_RETRY_ELAPSED", 15*time.Second),
		},
		FetchRetry: Retry{
			InitialInterval: envDuration("OPTIFLOW_FETCH_RETRY_INITIAL", 500*time.Millisecond),
			MaxInterval:     envDuration("OPTIFLOW_FETCH_RETRY_MAX", 5*time.Second),
			MaxElapsedTime:  envDuration("OPTIFLOW_FETCH_RETRY_ELAPSED", 30*time.Second),
		},
		ProviderRateLimit: envInt("OPTIFLOW_PROVIDER_RATE_LIMIT", 5),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("worker count must be positive, got %d", c.Workers)
	}
	lb := c.Lookbacks
	for name, v := range map[string]int{
		"volume window":       lb.VolumeWindow,
		"price change window": lb.PriceChangeWindow,
		"rsi window":          lb.RSIWindow,
		"bollinger window":    lb.BollingerWindow,
	} {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, v)
		}
	}
	if lb.BollingerK <= 0 {
		return fmt.Errorf("bollinger k must be positive, got %f", lb.BollingerK)
	}
	return nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
