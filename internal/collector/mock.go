package collector

import (
	"context"
	"time"

	"SepaScreener/internal/model"
)

// MockFetcher returns controllable fixed data for development and
// testing.
type MockFetcher struct {
	Bars  map[string][]model.Bar
	Infos map[string]Info
	Err   error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, days int) ([]model.Bar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if bars, ok := m.Bars[symbol]; ok {
		if len(bars) > days {
			bars = bars[len(bars)-days:]
		}
		return bars, nil
	}
	return GenerateBars(100, days, 1_000_000), nil
}

func (m *MockFetcher) FetchInfo(_ context.Context, symbol string) (Info, error) {
	if m.Err != nil {
		return Info{}, m.Err
	}
	if info, ok := m.Infos[symbol]; ok {
		return info, nil
	}
	return Info{Symbol: symbol, CompanyName: symbol + " Corp"}, nil
}

// GenerateBars produces a mildly trending synthetic series ending today.
func GenerateBars(basePrice float64, count int, volume float64) []model.Bar {
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Date:   time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: volume,
		}
	}
	return bars
}
