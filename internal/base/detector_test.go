package base

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SepaScreener/internal/model"
)

func seriesFromCloses(closes []float64) model.Series {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1_000_000,
		}
	}
	return model.Series{Symbol: "TEST", Bars: bars}
}

func TestDetect_QuietTailAfterVolatileRun(t *testing.T) {
	// 30 noisy bars followed by 30 flat bars: the flat tail is a base.
	closes := make([]float64, 60)
	price := 100.0
	for i := 0; i < 30; i++ {
		if i%2 == 0 {
			price *= 1.05
		} else {
			price *= 0.95
		}
		closes[i] = price
	}
	for i := 30; i < 60; i++ {
		closes[i] = price
	}

	d := NewDetector()
	w, ok := d.Detect(seriesFromCloses(closes))
	require.True(t, ok)

	assert.Equal(t, 59, w.End)
	assert.GreaterOrEqual(t, w.Start, 20)
	assert.LessOrEqual(t, w.DepthPct, d.Policy.MaxDepthPct)
	assert.GreaterOrEqual(t, w.LengthWeeks, d.Policy.MinWeeks)
	assert.LessOrEqual(t, w.LengthWeeks, d.Policy.MaxWeeks)
}

func TestDetect_Deterministic(t *testing.T) {
	closes := make([]float64, 60)
	price := 100.0
	for i := range closes {
		if i < 25 && i%2 == 0 {
			price *= 1.04
		} else if i < 25 {
			price *= 0.96
		}
		closes[i] = price
	}
	s := seriesFromCloses(closes)

	d := NewDetector()
	w1, ok1 := d.Detect(s)
	w2, ok2 := d.Detect(s)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, w1, w2)
}

func TestDetect_SteadyTrendHasNoBase(t *testing.T) {
	// Constant 2% daily growth: no quiet stretch, range far too wide.
	closes := make([]float64, 60)
	price := 100.0
	for i := range closes {
		price *= 1.02
		closes[i] = price
	}

	_, ok := NewDetector().Detect(seriesFromCloses(closes))
	assert.False(t, ok)
}

func TestDetect_FlatWindowFallsBackToRangeCheck(t *testing.T) {
	// A perfectly flat window has zero volatility everywhere, so the
	// quiet-bar steps cannot fire; the 30-bar range check catches it.
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100
	}

	w, ok := NewDetector().Detect(seriesFromCloses(closes))
	require.True(t, ok)
	assert.Equal(t, 30, w.Start)
	assert.Equal(t, 59, w.End)
	assert.InDelta(t, 6.0, w.LengthWeeks, 1e-9)
	assert.InDelta(t, 0.0, w.DepthPct, 1e-9)
}

func TestDetect_IndicesAreAbsolute(t *testing.T) {
	// Only the trailing 60 bars are searched; window indices still refer
	// to the full series.
	closes := make([]float64, 200)
	for i := range closes {
		closes[i] = 100
	}

	w, ok := NewDetector().Detect(seriesFromCloses(closes))
	require.True(t, ok)
	assert.Equal(t, 170, w.Start)
	assert.Equal(t, 199, w.End)
}

func TestDetect_ShortSeries(t *testing.T) {
	closes := []float64{100, 100, 100, 100, 100}
	_, ok := NewDetector().Detect(seriesFromCloses(closes))
	assert.False(t, ok)

	_, ok = NewDetector().Detect(model.Series{Symbol: "EMPTY"})
	assert.False(t, ok)
}

func TestDetect_DepthBound(t *testing.T) {
	// Alternating 100/110 closes: ~9.5% range passes the range check but
	// the depth bound can still reject the candidate.
	closes := make([]float64, 60)
	for i := range closes {
		if i%2 == 0 {
			closes[i] = 100
		} else {
			closes[i] = 110
		}
	}
	s := seriesFromCloses(closes)

	_, ok := NewDetector().Detect(s)
	assert.True(t, ok)

	strict := NewDetector()
	strict.Policy.MaxDepthPct = 5
	_, ok = strict.Detect(s)
	assert.False(t, ok)
}
