package scan

import "SepaScreener/internal/model"

// GradeResult is the aggregate verdict derived from the five checklist
// entries.
type GradeResult struct {
	Grade            model.Grade
	MeetsCriteria    bool
	PositionSize     model.PositionSize
	TotalFailures    int
	CriticalFailures int
}

// gradeChecklist maps failure counts onto a grade and position size.
// Trend & Structure failures are critical: any one of them is an
// immediate F. Only blocking failures count; advisory warnings never
// affect the grade. This table is the single source of grading truth.
func gradeChecklist(c *model.Checklist) GradeResult {
	critical := len(c.TrendStructure.Failures)
	total := len(c.BaseQuality.Failures) +
		len(c.RelativeStrength.Failures) +
		len(c.VolumeSignature.Failures) +
		len(c.BreakoutRules.Failures)

	r := GradeResult{TotalFailures: total, CriticalFailures: critical}
	switch {
	case critical > 0:
		r.Grade = model.GradeF
		r.MeetsCriteria = false
		r.PositionSize = model.PositionNone
	case total == 0:
		r.Grade = model.GradeAPlus
		r.MeetsCriteria = true
		r.PositionSize = model.PositionFull
	case total <= 2:
		r.Grade = model.GradeA
		r.MeetsCriteria = true
		r.PositionSize = model.PositionHalf
	case total <= 4:
		r.Grade = model.GradeB
		r.MeetsCriteria = false
		r.PositionSize = model.PositionHalf
	default:
		r.Grade = model.GradeC
		r.MeetsCriteria = false
		r.PositionSize = model.PositionNone
	}
	return r
}
