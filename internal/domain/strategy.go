package domain

// StrategyConfig describes an alert strategy: one entry rule and one exit rule.
// Instances are immutable once a simulation run starts and may be shared
// read-only across concurrent detector/simulator invocations.
type StrategyConfig struct {
	Name       string  `json:"name"`
	SignalKind string  `json:"signal_kind"` // SignalVolumeSpike | SignalPriceChange | SignalRSIExtreme | SignalBollingerBreakout
	Threshold  float64 `json:"threshold"`
	Condition  string  `json:"condition"`  // ConditionAbove | ConditionBelow
	ExitKind   string  `json:"exit_kind"`  // ExitTime | ExitPriceTarget | ExitStopLoss
	ExitValue  float64 `json:"exit_value"` // days, percent target, or percent stop
}

// Signal kind constants
const (
	SignalVolumeSpike       = "volume_spike"
	SignalPriceChange       = "price_change"
	SignalRSIExtreme        = "rsi_extreme"
	SignalBollingerBreakout = "bollinger_breakout"
)

// Condition constants
const (
	ConditionAbove = "above"
	ConditionBelow = "below"
)

// Exit kind constants
const (
	ExitTime        = "time"
	ExitPriceTarget = "price_target"
	ExitStopLoss    = "stop_loss"
)

// Direction returns the trade direction implied by the entry condition:
// "above" conditions open bullish positions, "below" conditions bearish ones.
func (c StrategyConfig) Direction() string {
	if c.Condition == ConditionBelow {
		return DirectionBearish
	}
	return DirectionBullish
}
