package collector

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"SepaScreener/internal/model"
)

// BarStore is the slice of the persistence layer the cached fetcher
// needs.
type BarStore interface {
	LoadBars(ctx context.Context, symbol string) ([]model.Bar, time.Time, error)
	SaveBars(ctx context.Context, symbol string, bars []model.Bar) error
	LoadInfo(ctx context.Context, symbol string) (Info, error)
	SaveInfo(ctx context.Context, info Info) error
}

// CachedFetcher serves bars from the local store when they are fresh
// enough and falls back to the live fetcher, writing fetched data back
// through. This keeps repeated scans off the network.
type CachedFetcher struct {
	Store  BarStore
	Live   Fetcher
	MaxAge time.Duration
	log    zerolog.Logger
}

// NewCachedFetcher wraps a live fetcher with store-backed caching.
func NewCachedFetcher(store BarStore, live Fetcher, maxAge time.Duration, log zerolog.Logger) *CachedFetcher {
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	return &CachedFetcher{Store: store, Live: live, MaxAge: maxAge, log: log}
}

func (c *CachedFetcher) Name() string { return "cached(" + c.Live.Name() + ")" }

// FetchDailyBars returns cached bars when present, sufficient, and
// fresh; otherwise fetches live and updates the cache. A live failure
// with a stale-but-present cache falls back to the cached bars.
func (c *CachedFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.Bar, error) {
	cached, fetchedAt, err := c.Store.LoadBars(ctx, symbol)
	if err == nil && len(cached) >= days && time.Since(fetchedAt) < c.MaxAge {
		c.log.Debug().Str("symbol", symbol).Int("bars", len(cached)).Msg("cache hit")
		if len(cached) > days {
			cached = cached[len(cached)-days:]
		}
		return cached, nil
	}

	bars, liveErr := c.Live.FetchDailyBars(ctx, symbol, days)
	if liveErr != nil {
		if len(cached) > 0 {
			c.log.Warn().Str("symbol", symbol).Err(liveErr).Msg("live fetch failed, serving stale cache")
			return cached, nil
		}
		return nil, liveErr
	}

	if err := c.Store.SaveBars(ctx, symbol, bars); err != nil {
		c.log.Warn().Str("symbol", symbol).Err(err).Msg("cache write failed")
	}
	return bars, nil
}

// FetchInfo prefers cached metadata; company names change rarely.
func (c *CachedFetcher) FetchInfo(ctx context.Context, symbol string) (Info, error) {
	if info, err := c.Store.LoadInfo(ctx, symbol); err == nil && info.CompanyName != "" {
		return info, nil
	}
	info, err := c.Live.FetchInfo(ctx, symbol)
	if err != nil {
		return Info{}, err
	}
	if err := c.Store.SaveInfo(ctx, info); err != nil {
		c.log.Warn().Str("symbol", symbol).Err(err).Msg("info cache write failed")
	}
	return info, nil
}
