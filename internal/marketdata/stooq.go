package marketdata

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"optiflow/internal/config"
	"optiflow/internal/domain"
	"optiflow/internal/observability"
)

const stooqDateLayout = "20060102"

// StooqProvider fetches daily bars from the Stooq CSV endpoint.
type StooqProvider struct {
	client  *resty.Client
	limiter *rate.Limiter
	retry   config.Retry
	log     zerolog.Logger
}

// NewStooqProvider creates a provider against baseURL. rps bounds the
// request rate across all goroutines sharing this provider.
func NewStooqProvider(baseURL string, rps float64, retry config.Retry, log zerolog.Logger) *StooqProvider {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(30 * time.Second)

	return &StooqProvider{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		retry:   retry,
		log:     log.With().Str("component", "stooq_provider").Logger(),
	}
}

// Compile-time interface check.
var _ Provider = (*StooqProvider)(nil)

// GetDailyBars fetches daily bars for the symbol in [from, to].
func (p *StooqProvider) GetDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]domain.PriceBar, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", ErrSymbolNotFound)
	}

	var bars []domain.PriceBar

	operation := func() error {
		if err := p.limiter.Wait(ctx); err != nil {
			return backoff.Permanent(err)
		}

		resp, err := p.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"s":  stooqSymbol(symbol),
				"d1": from.Format(stooqDateLayout),
				"d2": to.Format(stooqDateLayout),
				"i":  "d",
			}).
			Get("/q/d/l/")
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}

		switch {
		case resp.StatusCode() == 404:
			return backoff.Permanent(fmt.Errorf("%w: %s", ErrSymbolNotFound, symbol))
		case resp.StatusCode() >= 500 || resp.StatusCode() == 429:
			return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode())
		case resp.StatusCode() != 200:
			return backoff.Permanent(fmt.Errorf("unexpected status %d", resp.StatusCode()))
		}

		parsed, err := parseStooqCSV(symbol, resp.Body())
		if err != nil {
			return backoff.Permanent(err)
		}
		bars = parsed
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.retry.InitialInterval
	bo.MaxInterval = p.retry.MaxInterval
	bo.MaxElapsedTime = p.retry.MaxElapsedTime

	notify := func(err error, wait time.Duration) {
		p.log.Warn().
			Err(err).
			Str("symbol", symbol).
			Dur("retry_in", wait).
			Msg("stooq fetch failed, retrying")
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(bo, ctx), notify); err != nil {
		observability.RecordProviderError("stooq", errorClass(err))
		return nil, fmt.Errorf("fetch %s bars: %w", symbol, err)
	}
	observability.RecordBarsFetched("stooq", len(bars))
	return bars, nil
}

// stooqSymbol maps a plain ticker to Stooq's naming. Bare US tickers get
// the .us suffix; symbols already carrying a market suffix pass through.
func stooqSymbol(symbol string) string {
	s := strings.ToLower(symbol)
	if strings.Contains(s, ".") {
		return s
	}
	return s + ".us"
}

// parseStooqCSV decodes the Date,Open,High,Low,Close,Volume payload.
func parseStooqCSV(symbol string, body []byte) ([]domain.PriceBar, error) {
	text := strings.TrimSpace(string(body))
	if text == "" || strings.EqualFold(text, "no data") {
		return nil, fmt.Errorf("%w: %s", ErrNoData, symbol)
	}

	reader := csv.NewReader(strings.NewReader(text))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv for %s: %w", symbol, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, symbol)
	}

	bars := make([]domain.PriceBar, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < 6 {
			return nil, fmt.Errorf("malformed csv row for %s: %d fields", symbol, len(rec))
		}

		ts, err := time.Parse("2006-01-02", rec[0])
		if err != nil {
			return nil, fmt.Errorf("parse bar date %q: %w", rec[0], err)
		}

		var fields [5]float64
		for i, raw := range rec[1:6] {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("parse bar field %q: %w", raw, err)
			}
			fields[i] = v
		}

		bars = append(bars, domain.PriceBar{
			Timestamp: ts.UTC(),
			Open:      fields[0],
			High:      fields[1],
			Low:       fields[2],
			Close:     fields[3],
			Volume:    fields[4],
		})
	}

	if !domain.BarsAscending(bars) {
		return nil, fmt.Errorf("bars for %s not in ascending order", symbol)
	}
	return bars, nil
}
