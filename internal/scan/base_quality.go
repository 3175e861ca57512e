package scan

import (
	"fmt"
	"math"

	"SepaScreener/internal/indicator"
	"SepaScreener/internal/model"
)

// evalBaseQuality judges the detected consolidation: length, depth,
// candle tightness, closes near the highs, and volume drying up inside
// the base.
func evalBaseQuality(s model.Series, win *model.ConsolidationWindow) model.ChecklistEntry {
	if win == nil {
		return model.NewEntry([]model.Finding{
			{Severity: model.Blocking, Message: "No clear base pattern identified"},
		}, model.Details{})
	}

	var findings []model.Finding
	details := model.Details{}
	baseBars := s.Bars[win.Start : win.End+1]

	if win.LengthWeeks < 3 || win.LengthWeeks > 8 {
		findings = append(findings, model.Finding{
			Severity: model.Blocking,
			Message:  fmt.Sprintf("Base length %.1f weeks (need 3-8 weeks)", win.LengthWeeks),
		})
	}

	if win.DepthPct > 25 {
		findings = append(findings, model.Finding{
			Severity: model.Blocking,
			Message:  fmt.Sprintf("Base depth %.1f%% (need <=25%%, <=15%% is elite)", win.DepthPct),
		})
	} else if win.DepthPct > 20 {
		findings = append(findings, model.Finding{
			Severity: model.Advisory,
			Message:  fmt.Sprintf("Base depth %.1f%% (acceptable but >20%%)", win.DepthPct),
		})
	}

	// Wide, sloppy candles: base volatility versus the trailing year.
	baseCloses := make([]float64, len(baseBars))
	for i, b := range baseBars {
		baseCloses[i] = b.Close
	}
	baseVol := indicator.StdDev(indicator.PctChange(baseCloses))

	yearCloses := make([]float64, 0, 252)
	for _, b := range s.Tail(252) {
		yearCloses = append(yearCloses, b.Close)
	}
	yearVol := indicator.StdDev(indicator.PctChange(yearCloses))

	if baseVol > yearVol*1.5 {
		findings = append(findings, model.Finding{
			Severity: model.Blocking,
			Message:  "Base shows high volatility (wide, sloppy candles)",
		})
	}

	// Tight closes near highs: mean position of the close within the
	// daily range. Zero-range bars carry no information and are skipped.
	posSum, posN := 0.0, 0
	for _, b := range baseBars {
		r := b.High - b.Low
		if r <= 0 {
			continue
		}
		posSum += (b.Close - b.Low) / r * 100
		posN++
	}
	closePosition := math.NaN()
	if posN > 0 {
		closePosition = posSum / float64(posN)
	}
	if !(closePosition >= 60) {
		findings = append(findings, model.Finding{
			Severity: model.Blocking,
			Message:  fmt.Sprintf("Closes not near highs (avg %.1f%% of range)", closePosition),
		})
	}

	baseVolume := meanVolume(baseBars)
	preBaseVolume := preBaseAvgVolume(s, win)
	contraction := 1.0
	if preBaseVolume > 0 {
		contraction = baseVolume / preBaseVolume
	}
	if contraction >= 0.9 {
		findings = append(findings, model.Finding{
			Severity: model.Advisory,
			Message:  "Volume not contracting in base (should be <90% of pre-base)",
		})
	}

	details["base_length_weeks"] = win.LengthWeeks
	details["base_depth_pct"] = win.DepthPct
	details["base_volatility"] = baseVol
	details["avg_volatility"] = yearVol
	details["avg_close_position_pct"] = closePosition
	details["volume_contraction"] = contraction
	details["base_high"] = win.High
	details["base_low"] = win.Low

	return model.NewEntry(findings, details)
}

// preBaseAvgVolume averages the 20 bars immediately preceding the base.
func preBaseAvgVolume(s model.Series, win *model.ConsolidationWindow) float64 {
	start := win.Start - 20
	if start < 0 {
		start = 0
	}
	if start >= win.Start {
		return 0
	}
	return meanVolume(s.Bars[start:win.Start])
}

func meanVolume(bars []model.Bar) float64 {
	if len(bars) == 0 {
		return 0
	}
	sum := 0.0
	for _, b := range bars {
		sum += b.Volume
	}
	return sum / float64(len(bars))
}
