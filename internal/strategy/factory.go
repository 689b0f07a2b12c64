package strategy

import (
	"errors"

	"optiflow/internal/config"
	"optiflow/internal/domain"
)

// Factory errors. Invalid configurations fail here, before any detection work
// begins.
var (
	ErrEmptyName            = errors.New("strategy name must not be empty")
	ErrUnknownSignalKind    = errors.New("unknown signal kind")
	ErrUnknownCondition     = errors.New("unknown condition")
	ErrUnknownExitKind      = errors.New("unknown exit kind")
	ErrNonPositiveThreshold = errors.New("threshold must be positive")
	ErrNonPositiveExitValue = errors.New("exit value must be positive")
)

// FromConfig builds a validated Strategy from a StrategyConfig and the
// configured lookback windows. Returns a factory error for unknown kinds or
// non-positive parameters.
func FromConfig(cfg domain.StrategyConfig, lb config.Lookbacks) (*Strategy, error) {
	if cfg.Name == "" {
		return nil, ErrEmptyName
	}
	if cfg.Threshold <= 0 {
		return nil, ErrNonPositiveThreshold
	}
	if cfg.ExitValue <= 0 {
		return nil, ErrNonPositiveExitValue
	}
	if cfg.Condition != domain.ConditionAbove && cfg.Condition != domain.ConditionBelow {
		return nil, ErrUnknownCondition
	}

	entry, err := entryRuleFromConfig(cfg, lb)
	if err != nil {
		return nil, err
	}

	exit, err := exitRuleFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	return &Strategy{Config: cfg, Entry: entry, Exit: exit}, nil
}

func entryRuleFromConfig(cfg domain.StrategyConfig, lb config.Lookbacks) (EntryRule, error) {
	switch cfg.SignalKind {
	case domain.SignalVolumeSpike:
		return &volumeSpikeRule{window: lb.VolumeWindow, threshold: cfg.Threshold, condition: cfg.Condition}, nil
	case domain.SignalPriceChange:
		return &priceChangeRule{offset: lb.PriceChangeWindow, threshold: cfg.Threshold, condition: cfg.Condition}, nil
	case domain.SignalRSIExtreme:
		return &rsiExtremeRule{window: lb.RSIWindow, threshold: cfg.Threshold, condition: cfg.Condition}, nil
	case domain.SignalBollingerBreakout:
		return &bollingerBreakoutRule{window: lb.BollingerWindow, k: lb.BollingerK, condition: cfg.Condition}, nil
	default:
		return nil, ErrUnknownSignalKind
	}
}

func exitRuleFromConfig(cfg domain.StrategyConfig) (ExitRule, error) {
	switch cfg.ExitKind {
	case domain.ExitTime:
		return &timeExitRule{days: int(cfg.ExitValue)}, nil
	case domain.ExitPriceTarget:
		return &priceTargetRule{pct: cfg.ExitValue}, nil
	case domain.ExitStopLoss:
		return &stopLossRule{pct: cfg.ExitValue}, nil
	default:
		return nil, ErrUnknownExitKind
	}
}
