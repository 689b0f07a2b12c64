package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/shopspring/decimal"

	"optiflow/internal/domain"
	"optiflow/internal/observability"
)

// YahooProvider fetches daily bars from Yahoo Finance.
type YahooProvider struct{}

// NewYahooProvider creates a Yahoo Finance provider.
func NewYahooProvider() *YahooProvider {
	return &YahooProvider{}
}

var _ Provider = (*YahooProvider)(nil)

// GetDailyBars fetches daily bars for the symbol in [from, to].
func (p *YahooProvider) GetDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]domain.PriceBar, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", ErrSymbolNotFound)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&from),
		End:      datetime.New(&to),
		Interval: datetime.OneDay,
	}

	iter := chart.Get(params)

	var bars []domain.PriceBar
	for iter.Next() {
		b := iter.Bar()
		bars = append(bars, domain.PriceBar{
			Timestamp: time.Unix(int64(b.Timestamp), 0).UTC(),
			Open:      decimalToFloat(b.Open),
			High:      decimalToFloat(b.High),
			Low:       decimalToFloat(b.Low),
			Close:     decimalToFloat(b.Close),
			Volume:    float64(b.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		// The iterator does not distinguish unknown symbols from outages,
		// so treat iterator failures as transient and let callers retry.
		observability.RecordProviderError("yahoo", "unavailable")
		return nil, fmt.Errorf("%w: yahoo chart for %s: %v", ErrUnavailable, symbol, err)
	}

	if len(bars) == 0 {
		observability.RecordProviderError("yahoo", "no_data")
		return nil, fmt.Errorf("%w: %s", ErrNoData, symbol)
	}
	if !domain.BarsAscending(bars) {
		return nil, fmt.Errorf("bars for %s not in ascending order", symbol)
	}
	observability.RecordBarsFetched("yahoo", len(bars))
	return bars, nil
}

func decimalToFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
