package domain

import "time"

// SignalEvent is one discrete entry signal emitted by the detector.
// One event per qualifying bar; events are never mutated after creation.
type SignalEvent struct {
	Symbol        string
	Timestamp     time.Time
	SignalKind    string
	Threshold     float64
	ObservedValue float64 // the derived indicator value at the signal bar
	Direction     string  // DirectionBullish | DirectionBearish
}

// Direction constants
const (
	DirectionBullish = "bullish"
	DirectionBearish = "bearish"
)
