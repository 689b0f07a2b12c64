package domain

import "time"

// SimulatedTrade is the resolved outcome of exactly one SignalEvent.
// A trade is sealed once its exit is resolved: no field is mutated afterwards.
type SimulatedTrade struct {
	Signal         SignalEvent
	EntryPrice     float64
	EntryTimestamp time.Time
	ExitPrice      float64
	ExitTimestamp  time.Time
	ExitReason     string  // ExitReason* constant
	ReturnPct      float64 // percent, sign-flipped for bearish signals
}

// Exit reason codes. ExitReasonEndOfData marks trades force-closed at the
// last available bar because the configured exit never triggered.
const (
	ExitReasonTime        = "time"
	ExitReasonPriceTarget = "price_target"
	ExitReasonStopLoss    = "stop_loss"
	ExitReasonEndOfData   = "end_of_data"
)
