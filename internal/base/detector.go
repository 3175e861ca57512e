package base

import (
	"math"

	"SepaScreener/internal/indicator"
	"SepaScreener/internal/model"
)

// Detector searches the most recent bars of a series for the most
// plausible low-volatility consolidation range.
//
// Detection is an ordered fallback chain, from "statistically tight" to
// "merely short-range": a low-volatility span, then a mostly-quiet recent
// window, then a plain price-range check. The first candidate that
// satisfies the acceptance bounds wins. The search is deterministic:
// identical input always yields an identical window.
type Detector struct {
	Policy Policy
}

// NewDetector returns a detector with the default policy.
func NewDetector() *Detector {
	return &Detector{Policy: DefaultPolicy()}
}

// Detect returns the detected consolidation window, or false when no
// acceptable base exists. Window indices refer to the full series.
func (d *Detector) Detect(s model.Series) (model.ConsolidationWindow, bool) {
	p := d.Policy
	n := s.Len()
	m := n
	if m > p.Lookback {
		m = p.Lookback
	}
	if m == 0 {
		return model.ConsolidationWindow{}, false
	}
	offset := n - m
	bars := s.Bars[offset:]

	closes := make([]float64, m)
	for i, b := range bars {
		closes[i] = b.Close
	}
	pct := indicator.PctChange(closes)

	// Rolling volatility aligned to bar index: vol[i] covers the changes
	// ending at bar i, defined from index VolWindow onward.
	vol := make([]float64, m)
	for i := range vol {
		if i >= p.VolWindow {
			vol[i] = indicator.StdDev(pct[i-p.VolWindow : i])
		} else {
			vol[i] = math.NaN()
		}
	}
	avgVol := indicator.Mean(vol)
	threshold := avgVol * p.LowVolRatio

	// Step 1: enough individually quiet bars; span from the first quiet
	// bar to the end of the window.
	var lowVolIdx []int
	for i, v := range vol {
		if v < threshold {
			lowVolIdx = append(lowVolIdx, i)
		}
	}
	if len(lowVolIdx) >= p.MinLowVolBars {
		if w, ok := d.candidate(bars, lowVolIdx[0], m-1, offset); ok {
			return w, true
		}
	}

	// Step 2: most of the recent window is quiet.
	if m >= p.RecentWindow {
		start := m - p.RecentWindow
		quiet := 0
		for i := start; i < m; i++ {
			if vol[i] < threshold {
				quiet++
			}
		}
		frac := float64(quiet) / float64(p.RecentWindow)
		if frac >= p.RecentLowVolPct && p.RecentWindow >= p.MinRecentBars {
			if w, ok := d.candidate(bars, start, m-1, offset); ok {
				return w, true
			}
		}
	}

	// Step 3: the recent price range is simply narrow.
	if m >= 30 {
		if rangePct(bars[m-30:]) <= p.Range30MaxPct {
			if w, ok := d.candidate(bars, m-30, m-1, offset); ok {
				return w, true
			}
		} else if m >= p.MinBarsFor60 {
			start := 0
			if m > 60 {
				start = m - 60
			}
			if rangePct(bars[start:]) <= p.Range60MaxPct {
				if w, ok := d.candidate(bars, start, m-1, offset); ok {
					return w, true
				}
			}
		}
	}

	return model.ConsolidationWindow{}, false
}

// candidate builds a window over bars[start..end] and applies the
// acceptance bounds on length and depth.
func (d *Detector) candidate(bars []model.Bar, start, end, offset int) (model.ConsolidationWindow, bool) {
	high, low := bars[start].High, bars[start].Low
	for _, b := range bars[start+1 : end+1] {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	if high == 0 {
		return model.ConsolidationWindow{}, false
	}
	w := model.ConsolidationWindow{
		Start:       offset + start,
		End:         offset + end,
		High:        high,
		Low:         low,
		DepthPct:    (high - low) / high * 100,
		LengthWeeks: float64(end-start+1) / 5.0,
	}
	if w.LengthWeeks < d.Policy.MinWeeks || w.LengthWeeks > d.Policy.MaxWeeks {
		return model.ConsolidationWindow{}, false
	}
	if w.DepthPct > d.Policy.MaxDepthPct {
		return model.ConsolidationWindow{}, false
	}
	return w, true
}

// rangePct is the high-low range as a percentage of the mean close.
func rangePct(bars []model.Bar) float64 {
	high, low := bars[0].High, bars[0].Low
	sum := 0.0
	for _, b := range bars {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
		sum += b.Close
	}
	mean := sum / float64(len(bars))
	if mean == 0 {
		return 0
	}
	return (high - low) / mean * 100
}
