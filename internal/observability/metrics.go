// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Backtest metrics
	SignalsDetected  *prometheus.CounterVec
	TradesSimulated  *prometheus.CounterVec
	ReportsWritten   prometheus.Counter
	SymbolRunsTotal  *prometheus.CounterVec
	BacktestDuration *prometheus.HistogramVec

	// Market data metrics
	BarsFetched    *prometheus.CounterVec
	ProviderErrors *prometheus.CounterVec

	// Monitor metrics
	LiveAlertsEmitted *prometheus.CounterVec
	PollDuration      prometheus.Histogram

	// Storage metrics
	StoreRetries *prometheus.CounterVec
	StoreErrors  *prometheus.CounterVec

	// Health metrics
	LastSuccessfulBacktest prometheus.Gauge
	LastSuccessfulPoll     prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "optiflow"
	}

	return &Metrics{
		SignalsDetected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "signals_detected_total",
			Help:      "Total number of signals detected by signal kind",
		}, []string{"signal_kind"}),
		TradesSimulated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "trades_simulated_total",
			Help:      "Total number of trades simulated by exit reason",
		}, []string{"exit_reason"}),
		ReportsWritten: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "reports_written_total",
			Help:      "Total number of performance reports written",
		}),
		SymbolRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "symbol_runs_total",
			Help:      "Total number of per-symbol backtest runs by status",
		}, []string{"status"}),
		BacktestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "backtest",
			Name:      "duration_seconds",
			Help:      "Per-symbol backtest duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60},
		}, []string{"strategy"}),

		BarsFetched: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "marketdata",
			Name:      "bars_fetched_total",
			Help:      "Total number of daily bars fetched by provider",
		}, []string{"provider"}),
		ProviderErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "marketdata",
			Name:      "provider_errors_total",
			Help:      "Total number of provider errors by class",
		}, []string{"provider", "error_class"}),

		LiveAlertsEmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "live_alerts_emitted_total",
			Help:      "Total number of live alerts emitted by alert type",
		}, []string{"alert_type"}),
		PollDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "poll_duration_seconds",
			Help:      "Monitor poll cycle duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		StoreRetries: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "retries_total",
			Help:      "Total number of retried store operations",
		}, []string{"operation"}),
		StoreErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "errors_total",
			Help:      "Total number of store operations that failed after retries",
		}, []string{"operation"}),

		LastSuccessfulBacktest: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_backtest_timestamp",
			Help:      "Unix timestamp of last successful backtest run",
		}),
		LastSuccessfulPoll: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_poll_timestamp",
			Help:      "Unix timestamp of last successful monitor poll",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordSignal increments the signals detected counter.
func RecordSignal(signalKind string) {
	DefaultMetrics.SignalsDetected.WithLabelValues(signalKind).Inc()
}

// RecordTrade increments the trades simulated counter.
func RecordTrade(exitReason string) {
	DefaultMetrics.TradesSimulated.WithLabelValues(exitReason).Inc()
}

// RecordReportWritten increments the reports written counter.
func RecordReportWritten() {
	DefaultMetrics.ReportsWritten.Inc()
}

// RecordSymbolRun records a per-symbol backtest run outcome.
func RecordSymbolRun(status string) {
	DefaultMetrics.SymbolRunsTotal.WithLabelValues(status).Inc()
}

// RecordBarsFetched adds the number of daily bars fetched from a provider.
func RecordBarsFetched(provider string, n int) {
	DefaultMetrics.BarsFetched.WithLabelValues(provider).Add(float64(n))
}

// RecordProviderError records a market data provider error.
func RecordProviderError(provider, errorClass string) {
	DefaultMetrics.ProviderErrors.WithLabelValues(provider, errorClass).Inc()
}

// RecordLiveAlert increments the live alerts emitted counter.
func RecordLiveAlert(alertType string) {
	DefaultMetrics.LiveAlertsEmitted.WithLabelValues(alertType).Inc()
}

// RecordStoreRetry records a retried store operation.
func RecordStoreRetry(operation string) {
	DefaultMetrics.StoreRetries.WithLabelValues(operation).Inc()
}

// RecordStoreError records a store operation that failed after retries.
func RecordStoreError(operation string) {
	DefaultMetrics.StoreErrors.WithLabelValues(operation).Inc()
}
