package scan

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SepaScreener/internal/model"
)

func TestEvalBaseQuality_NoWindow(t *testing.T) {
	entry := evalBaseQuality(flatStockSeries("X", 260), nil)
	assert.False(t, entry.Passed)
	require.Len(t, entry.Failures, 1)
	assert.Equal(t, "No clear base pattern identified", entry.Failures[0])
}

func TestEvalVolumeSignature_NoWindow(t *testing.T) {
	entry := evalVolumeSignature(flatStockSeries("X", 260), nil)
	assert.False(t, entry.Passed)
	require.Len(t, entry.Failures, 1)
	assert.Equal(t, "Cannot check volume signature without base", entry.Failures[0])
}

func TestEvalBreakoutRules_NoWindow(t *testing.T) {
	entry := evalBreakoutRules(flatStockSeries("X", 260), nil)
	assert.False(t, entry.Passed)
	require.Len(t, entry.Failures, 1)
	assert.Equal(t, "Cannot check breakout rules without base", entry.Failures[0])
}

func TestEvalRelativeStrength_InsufficientOverlap(t *testing.T) {
	// Benchmark dates shifted far into the future: too few common
	// sessions for the comparison.
	stock := strongStockSeries()
	bench := flatBenchmark(260)
	for i := range bench.Bars {
		bench.Bars[i].Date = bench.Bars[i].Date.AddDate(1, 0, 0)
	}

	entry := evalRelativeStrength(stock, bench)
	assert.False(t, entry.Passed)
	assert.Contains(t, entry.Failures, "Insufficient data for relative strength calculation")
}

func TestEvalRelativeStrength_Underperformer(t *testing.T) {
	// The stock goes nowhere while the benchmark climbs steadily.
	stock := flatStockSeries("LAG", 260)
	bench := flatBenchmark(260)
	price := 1000.0
	for i := range bench.Bars {
		price *= 1.002
		bench.Bars[i].Open = price
		bench.Bars[i].High = price
		bench.Bars[i].Low = price
		bench.Bars[i].Close = price
	}

	entry := evalRelativeStrength(stock, bench)
	assert.False(t, entry.Passed)
	assert.Contains(t, entry.Failures, "Stock not outperforming benchmark")
	assert.False(t, entry.Details.Bool("outperforming"))
}

func TestEvalTrendStructure_StrongUptrend(t *testing.T) {
	entry := evalTrendStructure(strongStockSeries())
	assert.True(t, entry.Passed, "failures: %v", entry.Failures)
	assert.True(t, entry.Details.Bool("above_50"))
	assert.True(t, entry.Details.Bool("above_150"))
	assert.True(t, entry.Details.Bool("above_200"))
	assert.True(t, entry.Details.Bool("sma_order_correct"))
}

func TestEvalTrendStructure_NearHighAdvisory(t *testing.T) {
	entry := evalTrendStructure(strongStockSeries())
	require.True(t, entry.Passed)
	// Closing within 10% of the 52-week high is flagged but not failed.
	found := false
	for _, w := range entry.Warnings {
		if len(w) > 0 {
			found = true
		}
	}
	assert.True(t, found, "expected a late-stage warning")
}

func TestEvalBreakoutRules_WeakClose(t *testing.T) {
	s := strongStockSeries()
	last := &s.Bars[len(s.Bars)-1]
	last.Close = last.Low + (last.High-last.Low)*0.3
	win := model.ConsolidationWindow{
		Start: 210, End: 259,
		High: 203, Low: 199,
		DepthPct: 1.97, LengthWeeks: 10,
	}

	entry := evalBreakoutRules(s, &win)
	assert.False(t, entry.Passed)

	foundClose := false
	for _, f := range entry.Failures {
		if strings.Contains(f, "top 25%") {
			foundClose = true
		}
	}
	assert.True(t, foundClose, "expected close-position failure, got %v", entry.Failures)
}

// Regression guard: the shared window pointer must be read-only in every
// evaluator, so the same series scanned twice yields identical results.
func TestScan_Repeatable(t *testing.T) {
	sc := NewScanner(zerolog.Nop())
	s := strongStockSeries()
	bench := flatBenchmark(260)

	r1 := sc.Scan(s, bench)
	r2 := sc.Scan(s, bench)

	r1.ScannedAt = time.Time{}
	r2.ScannedAt = time.Time{}
	assert.Equal(t, r1, r2)
}
