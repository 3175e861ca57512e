package scan

import (
	"fmt"

	"SepaScreener/internal/model"
)

// breakoutLevel is the decisive-clearance multiple over the base high:
// closing 2% above the pivot counts as a breakout.
const breakoutLevel = 1.02

// evalVolumeSignature checks that volume dried up inside the base and,
// when price has broken out, that it expanded on the way up. Without a
// breakout the only concern is heavy selling volume.
func evalVolumeSignature(s model.Series, win *model.ConsolidationWindow) model.ChecklistEntry {
	if win == nil {
		return model.NewEntry([]model.Finding{
			{Severity: model.Blocking, Message: "Cannot check volume signature without base"},
		}, model.Details{})
	}

	var findings []model.Finding
	details := model.Details{}

	baseBars := s.Bars[win.Start : win.End+1]
	baseVolume := meanVolume(baseBars)
	preBaseVolume := preBaseAvgVolume(s, win)

	contraction := 1.0
	if preBaseVolume > 0 {
		contraction = baseVolume / preBaseVolume
	}
	if contraction >= 0.9 {
		findings = append(findings, model.Finding{
			Severity: model.Advisory,
			Message:  fmt.Sprintf("Volume not dry in base (contraction: %.2fx)", contraction),
		})
	}

	recent5 := s.Tail(5)
	recentVolume := meanVolume(recent5)
	avgVolume20 := meanVolume(s.Tail(20))

	current := s.Last().Close
	inBreakout := current > win.High*breakoutLevel

	increase := 0.0
	if avgVolume20 > 0 {
		increase = recentVolume / avgVolume20
	}

	if inBreakout {
		if increase < 1.4 {
			findings = append(findings, model.Finding{
				Severity: model.Blocking,
				Message:  fmt.Sprintf("Breakout volume only %.2fx (need >=1.4x)", increase),
			})
		}
	} else {
		// Pre-breakout: heavy distribution days are a warning sign.
		downSum, downN := 0.0, 0
		for _, b := range recent5 {
			if b.Close < b.Open {
				downSum += b.Volume
				downN++
			}
		}
		if downN > 0 && downSum/float64(downN) > baseVolume*1.5 {
			findings = append(findings, model.Finding{
				Severity: model.Advisory,
				Message:  "Heavy sell volume detected before breakout",
			})
		}
	}

	details["base_avg_volume"] = baseVolume
	details["pre_base_volume"] = preBaseVolume
	details["volume_contraction"] = contraction
	details["recent_volume"] = recentVolume
	details["avg_volume_20d"] = avgVolume20
	details["volume_increase"] = increase
	details["in_breakout"] = inBreakout

	return model.NewEntry(findings, details)
}
