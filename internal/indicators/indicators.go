// Package indicators computes the rolling-window statistics the signal
// detector evaluates per bar. Every function returns ok=false when the
// lookback window has not filled or the value is undefined (zero
// denominators, zero variance); callers skip such bars quietly instead of
// treating them as errors.
package indicators

import (
	"math"

	"optiflow/internal/domain"
)

// TrailingVolumeRatio returns bars[i].Volume divided by the mean volume of
// the window bars strictly before i. The current bar is excluded from the
// trailing average so a spike does not dilute its own baseline.
// ok=false when fewer than window prior bars exist or the trailing average
// is zero (flat/halted volume).
func TrailingVolumeRatio(bars []domain.PriceBar, i, window int) (float64, bool) {
	if i < window {
		return 0, false
	}

	sum := 0.0
	for j := i - window; j < i; j++ {
		sum += bars[j].Volume
	}
	avg := sum / float64(window)
	if avg == 0 {
		return 0, false
	}

	return bars[i].Volume / avg, true
}

// PercentChange returns the percent change of bars[i].Close against the
// close offset bars back. ok=false when the reference bar does not exist or
// its close is zero.
func PercentChange(bars []domain.PriceBar, i, offset int) (float64, bool) {
	if i < offset {
		return 0, false
	}

	ref := bars[i-offset].Close
	if ref == 0 {
		return 0, false
	}

	return (bars[i].Close - ref) / ref * 100, true
}

// RSI returns the Relative Strength Index at bar i, computed from the
// window close-to-close deltas ending at i with simple averaging (the
// rolling-mean variant, not Wilder smoothing).
// ok=false when fewer than window deltas exist or all deltas are zero.
func RSI(bars []domain.PriceBar, i, window int) (float64, bool) {
	if i < window {
		return 0, false
	}

	gain := 0.0
	loss := 0.0
	for j := i - window + 1; j <= i; j++ {
		delta := bars[j].Close - bars[j-1].Close
		if delta > 0 {
			gain += delta
		} else {
			loss -= delta
		}
	}

	avgGain := gain / float64(window)
	avgLoss := loss / float64(window)

	switch {
	case avgGain == 0 && avgLoss == 0:
		// Flat window: RS is 0/0, the bar is not a signal candidate.
		return 0, false
	case avgLoss == 0:
		return 100, true
	default:
		rs := avgGain / avgLoss
		return 100 - 100/(1+rs), true
	}
}

// BollingerBands returns the upper and lower band at bar i: moving average
// of the window closes strictly before i, plus/minus k sample standard
// deviations. ok=false when the window has not filled or the window has zero
// variance (the envelope is undefined).
func BollingerBands(bars []domain.PriceBar, i, window int, k float64) (upper, lower float64, ok bool) {
	if i < window || window < 2 {
		return 0, 0, false
	}

	sum := 0.0
	for j := i - window; j < i; j++ {
		sum += bars[j].Close
	}
	mean := sum / float64(window)

	sumSq := 0.0
	for j := i - window; j < i; j++ {
		diff := bars[j].Close - mean
		sumSq += diff * diff
	}
	std := math.Sqrt(sumSq / float64(window-1))
	if std == 0 {
		return 0, 0, false
	}

	return mean + k*std, mean - k*std, true
}
