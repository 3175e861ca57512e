package model

import "time"

// Grade is the overall SEPA verdict for one stock.
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
	GradeF     Grade = "F"
)

// Rank returns the sort rank of a grade, best first (A+ = 0).
func (g Grade) Rank() int {
	switch g {
	case GradeAPlus:
		return 0
	case GradeA:
		return 1
	case GradeB:
		return 2
	case GradeC:
		return 3
	default:
		return 4
	}
}

// PositionSize is the qualitative sizing recommendation tied to a grade.
type PositionSize string

const (
	PositionFull PositionSize = "Full"
	PositionHalf PositionSize = "Half"
	PositionNone PositionSize = "None"
)

// Severity classifies a finding. Blocking findings fail the criterion
// and count toward the grade; advisory findings are informational only.
type Severity int

const (
	Blocking Severity = iota
	Advisory
)

// Finding is one unmet (or merely noteworthy) sub-check inside a
// criterion evaluation.
type Finding struct {
	Severity Severity
	Message  string
}

// Details carries the named numeric/boolean metrics supporting one
// criterion evaluation.
type Details map[string]any

// Float returns a detail as float64, converting bools to 0/1. Missing
// keys return 0.
func (d Details) Float(key string) float64 {
	switch v := d[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case bool:
		if v {
			return 1
		}
	}
	return 0
}

// Bool returns a boolean detail; missing keys return false.
func (d Details) Bool(key string) bool {
	v, _ := d[key].(bool)
	return v
}

// ChecklistEntry is the outcome of one criterion evaluation. Immutable
// once returned by an evaluator.
type ChecklistEntry struct {
	Passed   bool     `json:"passed"`
	Failures []string `json:"failures"`           // blocking, in evaluation order
	Warnings []string `json:"warnings,omitempty"` // advisory
	Details  Details  `json:"details"`
}

// NewEntry builds an entry from tagged findings; the criterion passes
// when no blocking finding is present.
func NewEntry(findings []Finding, details Details) ChecklistEntry {
	e := ChecklistEntry{Passed: true, Details: details}
	for _, f := range findings {
		switch f.Severity {
		case Blocking:
			e.Passed = false
			e.Failures = append(e.Failures, f.Message)
		case Advisory:
			e.Warnings = append(e.Warnings, f.Message)
		}
	}
	return e
}

// Checklist holds the five criterion evaluations of one scan.
type Checklist struct {
	TrendStructure   ChecklistEntry `json:"trend_structure"`
	BaseQuality      ChecklistEntry `json:"base_quality"`
	RelativeStrength ChecklistEntry `json:"relative_strength"`
	VolumeSignature  ChecklistEntry `json:"volume_signature"`
	BreakoutRules    ChecklistEntry `json:"breakout_rules"`
}

// CriterionNames lists the checklist criteria in report order.
var CriterionNames = []string{
	"Trend & Structure",
	"Base Quality",
	"Relative Strength",
	"Volume Signature",
	"Breakout Rules",
}

// Entries returns the five entries in report order.
func (c *Checklist) Entries() []ChecklistEntry {
	return []ChecklistEntry{
		c.TrendStructure,
		c.BaseQuality,
		c.RelativeStrength,
		c.VolumeSignature,
		c.BreakoutRules,
	}
}

// PriceSummary is the 52-week price context attached to a result.
type PriceSummary struct {
	CurrentPrice   float64 `json:"current_price"`
	High52w        float64 `json:"52_week_high"`
	Low52w         float64 `json:"52_week_low"`
	PctFromHighPct float64 `json:"price_from_52w_high_pct"`
	PctFromLowPct  float64 `json:"price_from_52w_low_pct"`
}

// ScanResult is the final artifact of one scan. Created once per scan
// call and never mutated afterwards.
type ScanResult struct {
	Ticker        string       `json:"ticker"`
	CompanyName   string       `json:"company_name,omitempty"`
	OverallGrade  Grade        `json:"overall_grade"`
	MeetsCriteria bool         `json:"meets_criteria"`
	PositionSize  PositionSize `json:"position_size"`
	Checklist     *Checklist   `json:"checklist,omitempty"`
	Analysis      PriceSummary `json:"detailed_analysis"`
	Err           string       `json:"error,omitempty"`
	ScannedAt     time.Time    `json:"scanned_at"`
}
