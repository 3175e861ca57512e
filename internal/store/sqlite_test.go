package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SepaScreener/internal/collector"
	"SepaScreener/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func day(i int) time.Time {
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
}

func testBars(n int) []model.Bar {
	bars := make([]model.Bar, n)
	for i := range bars {
		c := 100 + float64(i)
		bars[i] = model.Bar{Date: day(i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1000}
	}
	return bars
}

func TestSaveLoadBars(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveBars(ctx, "AAPL", testBars(5)))

	bars, fetchedAt, err := s.LoadBars(ctx, "AAPL")
	require.NoError(t, err)
	require.Len(t, bars, 5)
	assert.WithinDuration(t, time.Now(), fetchedAt, 5*time.Second)

	// Oldest first, dates and prices round-trip intact.
	assert.True(t, bars[0].Date.Equal(day(0)))
	assert.True(t, bars[4].Date.Equal(day(4)))
	assert.Equal(t, 100.0, bars[0].Close)
	assert.Equal(t, 104.0, bars[4].Close)
	assert.Equal(t, 105.0, bars[4].High)
}

func TestSaveBars_ReplacesHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveBars(ctx, "AAPL", testBars(10)))
	require.NoError(t, s.SaveBars(ctx, "AAPL", testBars(3)))

	bars, _, err := s.LoadBars(ctx, "AAPL")
	require.NoError(t, err)
	assert.Len(t, bars, 3)
}

func TestLoadBars_Missing(t *testing.T) {
	s := newTestStore(t)
	_, _, err := s.LoadBars(context.Background(), "NOPE")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSaveInfo_Upsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveInfo(ctx, collector.Info{Symbol: "SAP.DE", CompanyName: "SAP SE", Currency: "EUR"}))

	info, err := s.LoadInfo(ctx, "SAP.DE")
	require.NoError(t, err)
	assert.Equal(t, "SAP SE", info.CompanyName)
	assert.Equal(t, "EUR", info.Currency)

	require.NoError(t, s.SaveInfo(ctx, collector.Info{Symbol: "SAP.DE", CompanyName: "SAP Societas Europaea"}))
	info, err = s.LoadInfo(ctx, "SAP.DE")
	require.NoError(t, err)
	assert.Equal(t, "SAP Societas Europaea", info.CompanyName)

	_, err = s.LoadInfo(ctx, "NOPE")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSaveScanResults_GradeHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	t1 := time.Date(2026, 8, 28, 18, 30, 0, 0, time.UTC)
	t2 := t1.AddDate(0, 0, 1)

	require.NoError(t, s.SaveScanResults(ctx, []model.ScanResult{
		{Ticker: "AAA", ScannedAt: t1, OverallGrade: model.GradeB,
			PositionSize: model.PositionHalf,
			Checklist:    &model.Checklist{TrendStructure: model.ChecklistEntry{Passed: true}}},
		{Ticker: "ERR", ScannedAt: t1, OverallGrade: model.GradeF,
			PositionSize: model.PositionNone, Err: "fetch failed"},
	}))
	require.NoError(t, s.SaveScanResults(ctx, []model.ScanResult{
		{Ticker: "AAA", ScannedAt: t2, OverallGrade: model.GradeA,
			MeetsCriteria: true, PositionSize: model.PositionHalf},
	}))

	points, err := s.GradeHistory(ctx, "AAA", 10)
	require.NoError(t, err)
	require.Len(t, points, 2)

	// Oldest first.
	assert.Equal(t, model.GradeB, points[0].Grade)
	assert.Equal(t, model.GradeA, points[1].Grade)
	assert.True(t, points[0].ScannedAt.Before(points[1].ScannedAt))

	// A limit keeps the most recent entries.
	points, err = s.GradeHistory(ctx, "AAA", 1)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, model.GradeA, points[0].Grade)
}

func TestGradeHistory_UnknownTicker(t *testing.T) {
	s := newTestStore(t)
	points, err := s.GradeHistory(context.Background(), "NOPE", 10)
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestNoopStore(t *testing.T) {
	n := NewNoopStore()
	ctx := context.Background()

	_, _, err := n.LoadBars(ctx, "AAPL")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	_, err = n.LoadInfo(ctx, "AAPL")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	assert.NoError(t, n.SaveBars(ctx, "AAPL", testBars(2)))
	assert.NoError(t, n.SaveInfo(ctx, collector.Info{Symbol: "AAPL"}))
	assert.NoError(t, n.SaveScanResults(ctx, nil))
	assert.NoError(t, n.Close())
}
