package collector

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SepaScreener/internal/model"
)

// fakeBarStore is an in-memory BarStore with a controllable fetch
// timestamp.
type fakeBarStore struct {
	bars      map[string][]model.Bar
	fetchedAt map[string]time.Time
	infos     map[string]Info
	barSaves  int
}

func newFakeBarStore() *fakeBarStore {
	return &fakeBarStore{
		bars:      map[string][]model.Bar{},
		fetchedAt: map[string]time.Time{},
		infos:     map[string]Info{},
	}
}

func (f *fakeBarStore) LoadBars(_ context.Context, symbol string) ([]model.Bar, time.Time, error) {
	bars, ok := f.bars[symbol]
	if !ok {
		return nil, time.Time{}, sql.ErrNoRows
	}
	return bars, f.fetchedAt[symbol], nil
}

func (f *fakeBarStore) SaveBars(_ context.Context, symbol string, bars []model.Bar) error {
	f.barSaves++
	f.bars[symbol] = bars
	f.fetchedAt[symbol] = time.Now()
	return nil
}

func (f *fakeBarStore) LoadInfo(_ context.Context, symbol string) (Info, error) {
	info, ok := f.infos[symbol]
	if !ok {
		return Info{}, sql.ErrNoRows
	}
	return info, nil
}

func (f *fakeBarStore) SaveInfo(_ context.Context, info Info) error {
	f.infos[info.Symbol] = info
	return nil
}

// countingFetcher counts live bar fetches.
type countingFetcher struct {
	MockFetcher
	calls int
}

func (c *countingFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.Bar, error) {
	c.calls++
	return c.MockFetcher.FetchDailyBars(ctx, symbol, days)
}

func TestCachedFetcher_MissThenHit(t *testing.T) {
	store := newFakeBarStore()
	live := &countingFetcher{}
	cf := NewCachedFetcher(store, live, time.Hour, zerolog.Nop())

	bars, err := cf.FetchDailyBars(context.Background(), "AAPL", 50)
	require.NoError(t, err)
	assert.Len(t, bars, 50)
	assert.Equal(t, 1, live.calls)
	assert.Equal(t, 1, store.barSaves)

	// Second fetch is served from the cache.
	bars, err = cf.FetchDailyBars(context.Background(), "AAPL", 50)
	require.NoError(t, err)
	assert.Len(t, bars, 50)
	assert.Equal(t, 1, live.calls)
}

func TestCachedFetcher_StaleTriggersRefetch(t *testing.T) {
	store := newFakeBarStore()
	store.bars["AAPL"] = GenerateBars(100, 50, 1000)
	store.fetchedAt["AAPL"] = time.Now().Add(-48 * time.Hour)

	live := &countingFetcher{}
	cf := NewCachedFetcher(store, live, 24*time.Hour, zerolog.Nop())

	_, err := cf.FetchDailyBars(context.Background(), "AAPL", 50)
	require.NoError(t, err)
	assert.Equal(t, 1, live.calls)
}

func TestCachedFetcher_LiveFailureServesStale(t *testing.T) {
	store := newFakeBarStore()
	cached := GenerateBars(100, 50, 1000)
	store.bars["AAPL"] = cached
	store.fetchedAt["AAPL"] = time.Now().Add(-48 * time.Hour)

	live := &countingFetcher{MockFetcher: MockFetcher{Err: errors.New("network down")}}
	cf := NewCachedFetcher(store, live, 24*time.Hour, zerolog.Nop())

	bars, err := cf.FetchDailyBars(context.Background(), "AAPL", 50)
	require.NoError(t, err)
	assert.Len(t, bars, len(cached))
}

func TestCachedFetcher_LiveFailureNoCache(t *testing.T) {
	store := newFakeBarStore()
	live := &countingFetcher{MockFetcher: MockFetcher{Err: errors.New("network down")}}
	cf := NewCachedFetcher(store, live, 24*time.Hour, zerolog.Nop())

	_, err := cf.FetchDailyBars(context.Background(), "AAPL", 50)
	assert.Error(t, err)
}

func TestCachedFetcher_FetchInfo(t *testing.T) {
	store := newFakeBarStore()
	live := &countingFetcher{}
	cf := NewCachedFetcher(store, live, time.Hour, zerolog.Nop())

	info, err := cf.FetchInfo(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL Corp", info.CompanyName)

	// Write-through: a second lookup never touches the live fetcher.
	live.Err = errors.New("offline")
	info, err = cf.FetchInfo(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL Corp", info.CompanyName)
}

func TestCachedFetcher_Name(t *testing.T) {
	cf := NewCachedFetcher(newFakeBarStore(), &MockFetcher{}, 0, zerolog.Nop())
	assert.Equal(t, "cached(mock)", cf.Name())
	assert.Equal(t, 24*time.Hour, cf.MaxAge)
}

func TestGenerateBars(t *testing.T) {
	bars := GenerateBars(100, 30, 1_000_000)
	require.Len(t, bars, 30)
	for i, b := range bars {
		assert.NoError(t, b.Validate(), "bar %d", i)
		if i > 0 {
			assert.True(t, b.Date.After(bars[i-1].Date))
		}
	}
}

func TestCollectSeries(t *testing.T) {
	c := NewCollector(&MockFetcher{}, zerolog.Nop())

	series, err := c.CollectSeries(context.Background(), "AAPL", 40)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", series.Symbol)
	assert.Equal(t, 40, series.Len())
}

func TestCollectAll_SkipsBadSymbols(t *testing.T) {
	bad := GenerateBars(100, 10, 1000)
	bad[5].Date = bad[4].Date // breaks strict date ordering

	c := NewCollector(&MockFetcher{Bars: map[string][]model.Bar{"BAD": bad}}, zerolog.Nop())

	series, infos, err := c.CollectAll(context.Background(), []string{"GOOD", "BAD"}, 10)
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, "GOOD", series[0].Symbol)
	assert.Equal(t, "GOOD Corp", infos["GOOD"].CompanyName)
}

func TestCollectAll_AllFail(t *testing.T) {
	c := NewCollector(&MockFetcher{Err: errors.New("down")}, zerolog.Nop())
	_, _, err := c.CollectAll(context.Background(), []string{"A", "B"}, 10)
	assert.Error(t, err)
}

func TestCollectAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCollector(&MockFetcher{}, zerolog.Nop())
	_, _, err := c.CollectAll(ctx, []string{"A"}, 10)
	assert.ErrorIs(t, err, context.Canceled)
}
