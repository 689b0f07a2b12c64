package strategy

import (
	"fmt"

	"optiflow/internal/domain"
)

// EntryRule evaluates whether bar i of a series qualifies as a signal.
// Implementations are pure and safe for concurrent use.
type EntryRule interface {
	// Evaluate returns the derived indicator value at bar i and whether the
	// bar qualifies under the rule. ok=false covers both "does not qualify"
	// and "value undefined" (unfilled lookback, zero denominators).
	Evaluate(bars []domain.PriceBar, i int) (observed float64, ok bool)

	// Kind returns the signal kind the rule implements.
	Kind() string
}

// ExitRule decides when an open position closes.
// Implementations are pure and safe for concurrent use.
type ExitRule interface {
	// ShouldExit reports whether a position entered at entryIndex with
	// entryPrice should close at bar i. i is always > entryIndex.
	ShouldExit(bars []domain.PriceBar, entryIndex int, entryPrice float64, i int, direction string) bool

	// Reason returns the exit reason code recorded when the rule triggers.
	Reason() string
}

// Strategy is a validated (entry rule, exit rule) pair built from a
// StrategyConfig. Construction is the only place invalid configurations are
// possible; holders of a Strategy never re-validate.
type Strategy struct {
	Config domain.StrategyConfig
	Entry  EntryRule
	Exit   ExitRule
}

// ID returns an identifier including the strategy parameters.
func (s *Strategy) ID() string {
	return fmt.Sprintf("%s_%s_%.4g_%s_%s_%.4g",
		s.Config.Name, s.Config.SignalKind, s.Config.Threshold,
		s.Config.Condition, s.Config.ExitKind, s.Config.ExitValue)
}
