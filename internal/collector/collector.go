package collector

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"SepaScreener/internal/model"
)

// HistoryDays is the default daily-bar lookback requested per symbol:
// enough for the 200 SMA plus slope comparisons.
const HistoryDays = 300

// Collector assembles validated Series (and display metadata) for the
// scanner.
type Collector struct {
	Fetcher Fetcher
	log     zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, log zerolog.Logger) *Collector {
	return &Collector{Fetcher: fetcher, log: log}
}

// CollectSeries fetches and validates the daily history for one symbol.
func (c *Collector) CollectSeries(ctx context.Context, symbol string, days int) (model.Series, error) {
	bars, err := c.Fetcher.FetchDailyBars(ctx, symbol, days)
	if err != nil {
		return model.Series{}, fmt.Errorf("fetch daily bars for %s: %w", symbol, err)
	}
	series, err := model.NewSeries(symbol, bars)
	if err != nil {
		return model.Series{}, fmt.Errorf("validate series for %s: %w", symbol, err)
	}
	return series, nil
}

// CollectAll fetches series for every symbol, skipping (and logging)
// symbols that fail so one bad ticker cannot abort a batch. The second
// return maps symbols to display names where metadata was available.
func (c *Collector) CollectAll(ctx context.Context, symbols []string, days int) ([]model.Series, map[string]Info, error) {
	series := make([]model.Series, 0, len(symbols))
	infos := make(map[string]Info, len(symbols))

	for _, sym := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		s, err := c.CollectSeries(ctx, sym, days)
		if err != nil {
			c.log.Warn().Str("symbol", sym).Err(err).Msg("skipping symbol")
			continue
		}
		series = append(series, s)

		if info, err := c.Fetcher.FetchInfo(ctx, sym); err == nil {
			infos[sym] = info
		} else {
			c.log.Debug().Str("symbol", sym).Err(err).Msg("no company info")
		}
	}
	if len(series) == 0 {
		return nil, nil, fmt.Errorf("no usable data for any of %d symbols", len(symbols))
	}
	return series, infos, nil
}
