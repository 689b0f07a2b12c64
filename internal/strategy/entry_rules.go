package strategy

import (
	"optiflow/internal/domain"
	"optiflow/internal/indicators"
)

// volumeSpikeRule qualifies bars whose volume ratio against the trailing
// average crosses the threshold.
type volumeSpikeRule struct {
	window    int
	threshold float64
	condition string
}

func (r *volumeSpikeRule) Kind() string { return domain.SignalVolumeSpike }

func (r *volumeSpikeRule) Evaluate(bars []domain.PriceBar, i int) (float64, bool) {
	ratio, ok := indicators.TrailingVolumeRatio(bars, i, r.window)
	if !ok {
		return 0, false
	}
	if r.condition == domain.ConditionAbove {
		return ratio, ratio >= r.threshold
	}
	return ratio, ratio <= r.threshold
}

// priceChangeRule qualifies bars whose percent change against the reference
// bar crosses the threshold. The threshold is expressed in percent; "below"
// means a drop of at least the threshold.
type priceChangeRule struct {
	offset    int
	threshold float64
	condition string
}

func (r *priceChangeRule) Kind() string { return domain.SignalPriceChange }

func (r *priceChangeRule) Evaluate(bars []domain.PriceBar, i int) (float64, bool) {
	change, ok := indicators.PercentChange(bars, i, r.offset)
	if !ok {
		return 0, false
	}
	if r.condition == domain.ConditionAbove {
		return change, change >= r.threshold
	}
	return change, change <= -r.threshold
}

// rsiExtremeRule qualifies overbought (above) or oversold (below) bars.
type rsiExtremeRule struct {
	window    int
	threshold float64
	condition string
}

func (r *rsiExtremeRule) Kind() string { return domain.SignalRSIExtreme }

func (r *rsiExtremeRule) Evaluate(bars []domain.PriceBar, i int) (float64, bool) {
	rsi, ok := indicators.RSI(bars, i, r.window)
	if !ok {
		return 0, false
	}
	if r.condition == domain.ConditionAbove {
		return rsi, rsi >= r.threshold
	}
	return rsi, rsi <= r.threshold
}

// bollingerBreakoutRule qualifies closes breaking out through the configured
// band. The observed value is the close's distance from the broken band.
type bollingerBreakoutRule struct {
	window    int
	k         float64
	condition string
}

func (r *bollingerBreakoutRule) Kind() string { return domain.SignalBollingerBreakout }

func (r *bollingerBreakoutRule) Evaluate(bars []domain.PriceBar, i int) (float64, bool) {
	upper, lower, ok := indicators.BollingerBands(bars, i, r.window, r.k)
	if !ok {
		return 0, false
	}
	close := bars[i].Close
	if r.condition == domain.ConditionAbove {
		return close - upper, close > upper
	}
	return close - lower, close < lower
}

// Compile-time interface checks.
var (
	_ EntryRule = (*volumeSpikeRule)(nil)
	_ EntryRule = (*priceChangeRule)(nil)
	_ EntryRule = (*rsiExtremeRule)(nil)
	_ EntryRule = (*bollingerBreakoutRule)(nil)
)
