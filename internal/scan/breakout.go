package scan

import (
	"fmt"

	"SepaScreener/internal/model"
)

// evalBreakoutRules applies the breakout-day rules against the pivot
// (base high): a decisive clearance, a close in the top quarter of the
// day's range, and clear volume expansion.
func evalBreakoutRules(s model.Series, win *model.ConsolidationWindow) model.ChecklistEntry {
	if win == nil {
		return model.NewEntry([]model.Finding{
			{Severity: model.Blocking, Message: "Cannot check breakout rules without base"},
		}, model.Details{})
	}

	var findings []model.Finding
	details := model.Details{}

	last := s.Last()
	pivot := win.High
	avgVolume20 := meanVolume(s.Tail(20))

	clearsPivot := last.Close >= pivot*breakoutLevel
	if !clearsPivot {
		findings = append(findings, model.Finding{
			Severity: model.Blocking,
			Message:  "Price not clearing pivot decisively (need >=2% above base high)",
		})
	}

	closePosition := 0.0
	dayRange := last.High - last.Low
	if dayRange > 0 {
		closePosition = (last.Close - last.Low) / dayRange * 100
		if closePosition < 75 {
			findings = append(findings, model.Finding{
				Severity: model.Blocking,
				Message:  fmt.Sprintf("Close not in top 25%% of range (at %.1f%%)", closePosition),
			})
		}
	} else {
		findings = append(findings, model.Finding{
			Severity: model.Advisory,
			Message:  "Zero daily range (no price movement)",
		})
	}

	volumeRatio := 0.0
	if avgVolume20 > 0 {
		volumeRatio = last.Volume / avgVolume20
	}
	if volumeRatio < 1.4 {
		findings = append(findings, model.Finding{
			Severity: model.Blocking,
			Message:  fmt.Sprintf("Volume expansion insufficient (%.2fx, need >=1.4x)", volumeRatio),
		})
	}

	details["pivot_price"] = pivot
	details["current_price"] = last.Close
	details["clears_pivot"] = clearsPivot
	details["close_position_pct"] = closePosition
	details["volume_ratio"] = volumeRatio
	details["in_breakout"] = clearsPivot

	return model.NewEntry(findings, details)
}
