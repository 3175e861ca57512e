package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SepaScreener/internal/collector"
	"SepaScreener/internal/model"
	"SepaScreener/internal/scan"
)

type capturingStore struct {
	saved []model.ScanResult
}

func (c *capturingStore) SaveScanResults(_ context.Context, results []model.ScanResult) error {
	c.saved = results
	return nil
}

func newTestScheduler(t *testing.T) (*Scheduler, *capturingStore, string) {
	t.Helper()

	dir := t.TempDir()
	watchlistPath := filepath.Join(dir, "watchlist.txt")
	require.NoError(t, os.WriteFile(watchlistPath, []byte("AAA\nBBB\n"), 0o644))

	store := &capturingStore{}
	deps := Deps{
		Collector:     collector.NewCollector(&collector.MockFetcher{}, zerolog.Nop()),
		Scanner:       scan.NewScanner(zerolog.Nop()),
		Store:         store,
		WatchlistPath: watchlistPath,
		Benchmark:     "DAX",
		HistoryDays:   300,
		ReportsDir:    filepath.Join(dir, "reports"),
	}
	return NewScheduler(context.Background(), deps, zerolog.Nop()), store, deps.ReportsDir
}

func TestRunScanNow(t *testing.T) {
	s, store, reportsDir := newTestScheduler(t)

	results, err := s.RunScanNow()
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, results, store.saved)

	// Company names from the fetcher metadata are attached.
	for _, r := range results {
		assert.Equal(t, r.Ticker+" Corp", r.CompanyName)
	}

	// Both timestamped reports are written.
	entries, err := os.ReadDir(reportsDir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.Len(t, names, 2)
	assert.Contains(t, names[0]+names[1], "summary_report_")
	assert.Contains(t, names[0]+names[1], "detailed_report_")
}

func TestRunScanNow_MissingWatchlist(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	s.WatchlistPath = filepath.Join(t.TempDir(), "nope.txt")

	_, err := s.RunScanNow()
	assert.Error(t, err)
}

func TestNewScheduler_Defaults(t *testing.T) {
	s := NewScheduler(context.Background(), Deps{}, zerolog.Nop())
	assert.NotNil(t, s.Store)
	assert.Equal(t, collector.HistoryDays, s.HistoryDays)
}

func TestRegister(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	require.NoError(t, s.Register("0 30 18 * * 1-5"))
	assert.Error(t, s.Register("not a cron expr"))
}

func TestWriteReports(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	now := time.Date(2026, 8, 31, 18, 30, 0, 0, time.UTC)

	require.NoError(t, WriteReports(dir, nil, now))

	summary, err := os.ReadFile(filepath.Join(dir, "summary_report_20260831_183000.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(summary), "Total Stocks Scanned: 0")

	_, err = os.Stat(filepath.Join(dir, "detailed_report_20260831_183000.txt"))
	assert.NoError(t, err)
}
