package domain

import "time"

// PriceBar is one bar of an ordered daily price/volume series.
// Series are supplied by a MarketDataProvider, have unique ascending
// timestamps, and are read-only to the core.
type PriceBar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// BarsAscending reports whether the series has strictly increasing timestamps.
func BarsAscending(bars []PriceBar) bool {
	for i := 1; i < len(bars); i++ {
		if !bars[i].Timestamp.After(bars[i-1].Timestamp) {
			return false
		}
	}
	return true
}
