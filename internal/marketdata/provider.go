// Package marketdata fetches daily OHLCV bars from external providers.
package marketdata

import (
	"context"
	"errors"
	"time"

	"optiflow/internal/domain"
)

// Provider errors.
var (
	// ErrSymbolNotFound means the provider does not know the symbol.
	// Not retryable.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrNoData means the provider knows the symbol but returned no bars
	// for the requested range.
	ErrNoData = errors.New("no data for range")

	// ErrUnavailable means the provider could not be reached or answered
	// with a transient failure. Callers may retry the whole operation.
	ErrUnavailable = errors.New("provider unavailable")
)

// IsUnavailable reports whether err is a transient provider failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// errorClass maps a provider error onto a metrics label.
func errorClass(err error) string {
	switch {
	case errors.Is(err, ErrSymbolNotFound):
		return "symbol_not_found"
	case errors.Is(err, ErrNoData):
		return "no_data"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	default:
		return "other"
	}
}

// Provider fetches daily bars for a symbol. Implementations must return
// bars in ascending timestamp order with from <= timestamp <= to.
type Provider interface {
	GetDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]domain.PriceBar, error)
}
