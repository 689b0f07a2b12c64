package domain

import "time"

// LiveAlertRecord is one alert observed by the live monitoring process.
// The natural key is (symbol, alert_type, timestamp); re-submitting a record
// with an identical key is a no-op in the sync store.
type LiveAlertRecord struct {
	Timestamp    time.Time
	Symbol       string
	AlertType    string
	Threshold    float64
	CurrentValue float64
	Message      string
}

// Key returns the natural deduplication key of the record.
func (r *LiveAlertRecord) Key() AlertKey {
	return AlertKey{Symbol: r.Symbol, AlertType: r.AlertType, Timestamp: r.Timestamp.UTC()}
}

// BacktestAlertRecord is one alert emitted by the offline evaluation process,
// carrying the simulated indicator value and the realized trade outcome.
type BacktestAlertRecord struct {
	Timestamp      time.Time
	Symbol         string
	AlertType      string
	Threshold      float64
	SimulatedValue float64
	ActualOutcome  float64 // realized return_pct of the trade the signal produced
}

// Key returns the natural deduplication key of the record.
func (r *BacktestAlertRecord) Key() AlertKey {
	return AlertKey{Symbol: r.Symbol, AlertType: r.AlertType, Timestamp: r.Timestamp.UTC()}
}

// AlertKey is the (symbol, alert_type, timestamp) deduplication unit shared
// by live and backtest alert rows.
type AlertKey struct {
	Symbol    string
	AlertType string
	Timestamp time.Time
}
