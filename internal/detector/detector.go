// Package detector scans historical bar series for discrete signal events.
package detector

import (
	"errors"

	"optiflow/internal/domain"
	"optiflow/internal/strategy"
)

// Detector errors
var (
	ErrUnorderedSeries = errors.New("price bars must have strictly ascending timestamps")
)

// Detector emits one SignalEvent per bar that satisfies a strategy's entry
// rule. Detection is pure: re-running on the same (series, strategy) pair
// yields the same sequence.
type Detector struct{}

// New creates a Detector.
func New() *Detector {
	return &Detector{}
}

// Detect scans bars in order and returns qualifying signal events in
// timestamp order. Bars inside an unfilled lookback window, and bars whose
// derived indicator value is undefined, are skipped quietly.
func (d *Detector) Detect(symbol string, bars []domain.PriceBar, strat *strategy.Strategy) ([]domain.SignalEvent, error) {
	if !domain.BarsAscending(bars) {
		return nil, ErrUnorderedSeries
	}

	var events []domain.SignalEvent
	for i := range bars {
		observed, ok := strat.Entry.Evaluate(bars, i)
		if !ok {
			continue
		}

		events = append(events, domain.SignalEvent{
			Symbol:        symbol,
			Timestamp:     bars[i].Timestamp,
			SignalKind:    strat.Config.SignalKind,
			Threshold:     strat.Config.Threshold,
			ObservedValue: observed,
			Direction:     strat.Config.Direction(),
		})
	}

	return events, nil
}
