package strategy

import "optiflow/internal/domain"

// timeExitRule closes the position a fixed number of trading days after
// entry. Days are counted in bars, not calendar time.
type timeExitRule struct {
	days int
}

func (r *timeExitRule) Reason() string { return domain.ExitReasonTime }

func (r *timeExitRule) ShouldExit(_ []domain.PriceBar, entryIndex int, _ float64, i int, _ string) bool {
	return i-entryIndex >= r.days
}

// priceTargetRule closes at the first bar whose close reaches the profit
// target. For bearish positions the target is a drop of the same magnitude.
type priceTargetRule struct {
	pct float64
}

func (r *priceTargetRule) Reason() string { return domain.ExitReasonPriceTarget }

func (r *priceTargetRule) ShouldExit(bars []domain.PriceBar, _ int, entryPrice float64, i int, direction string) bool {
	close := bars[i].Close
	if direction == domain.DirectionBearish {
		return close <= entryPrice*(1-r.pct/100)
	}
	return close >= entryPrice*(1+r.pct/100)
}

// stopLossRule closes at the first bar whose close breaches the stop.
// For bearish positions the stop is an adverse rise.
type stopLossRule struct {
	pct float64
}

func (r *stopLossRule) Reason() string { return domain.ExitReasonStopLoss }

func (r *stopLossRule) ShouldExit(bars []domain.PriceBar, _ int, entryPrice float64, i int, direction string) bool {
	close := bars[i].Close
	if direction == domain.DirectionBearish {
		return close >= entryPrice*(1+r.pct/100)
	}
	return close <= entryPrice*(1-r.pct/100)
}

// Compile-time interface checks.
var (
	_ ExitRule = (*timeExitRule)(nil)
	_ ExitRule = (*priceTargetRule)(nil)
	_ ExitRule = (*stopLossRule)(nil)
)
