package marketdata

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"optiflow/internal/domain"
	"optiflow/internal/storage"
)

// CachingProvider serves bars from a BarCacheStore and falls back to the
// wrapped provider on a miss, writing fetched bars through to the cache.
//
// A range is considered cached when the stored bars span the requested
// window on both ends, allowing for weekend and holiday gaps at the edges.
type CachingProvider struct {
	inner Provider
	cache storage.BarCacheStore
	log   zerolog.Logger

	// edgeSlack is how far inside the requested window the cached series
	// may start or end and still count as covering it.
	edgeSlack time.Duration
}

// NewCachingProvider wraps inner with a read-through bar cache.
func NewCachingProvider(inner Provider, cache storage.BarCacheStore, log zerolog.Logger) *CachingProvider {
	return &CachingProvider{
		inner:     inner,
		cache:     cache,
		log:       log.With().Str("component", "bar_cache").Logger(),
		edgeSlack: 5 * 24 * time.Hour,
	}
}

var _ Provider = (*CachingProvider)(nil)

// GetDailyBars returns cached bars when they cover [from, to], otherwise
// fetches from the wrapped provider. Cache failures degrade to a direct
// fetch instead of failing the call.
func (p *CachingProvider) GetDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]domain.PriceBar, error) {
	cached, err := p.cache.GetRange(ctx, symbol, from, to)
	if err != nil {
		p.log.Warn().Err(err).Str("symbol", symbol).Msg("bar cache read failed, fetching directly")
	} else if p.covers(cached, from, to) {
		return cached, nil
	}

	bars, err := p.inner.GetDailyBars(ctx, symbol, from, to)
	if err != nil {
		return nil, err
	}

	if err := p.cache.InsertBulk(ctx, symbol, bars); err != nil {
		p.log.Warn().Err(err).Str("symbol", symbol).Msg("bar cache write failed")
	}
	return bars, nil
}

func (p *CachingProvider) covers(bars []domain.PriceBar, from, to time.Time) bool {
	if len(bars) == 0 {
		return false
	}
	first := bars[0].Timestamp
	last := bars[len(bars)-1].Timestamp
	return !first.After(from.Add(p.edgeSlack)) && !last.Before(to.Add(-p.edgeSlack))
}
