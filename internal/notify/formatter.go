package notify

import (
	"fmt"
	"strings"
	"time"

	"SepaScreener/internal/model"
)

// FormatScanDigest formats a scan run into a compact Telegram message:
// headline counts plus the actionable names (A+ and A grades).
func FormatScanDigest(results []model.ScanResult, now time.Time) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>SEPA Scan</b> | %s\n\n", now.Format("2006-01-02")))

	gradeCounts := map[model.Grade]int{}
	errs := 0
	for _, r := range results {
		if r.Err != "" {
			errs++
			continue
		}
		gradeCounts[r.OverallGrade]++
	}

	b.WriteString(fmt.Sprintf("Scanned: %d stocks\n", len(results)))
	b.WriteString(fmt.Sprintf("A+: %d | A: %d | B: %d | C: %d | F: %d\n",
		gradeCounts[model.GradeAPlus], gradeCounts[model.GradeA],
		gradeCounts[model.GradeB], gradeCounts[model.GradeC], gradeCounts[model.GradeF]))
	if errs > 0 {
		b.WriteString(fmt.Sprintf("Errors: %d\n", errs))
	}

	buys := pickGrades(results, model.GradeAPlus, model.GradeA)
	if len(buys) == 0 {
		b.WriteString("\nNo stocks meet the SEPA criteria today.")
		return b.String()
	}

	b.WriteString("\n🎯 <b>Candidates:</b>\n")
	for _, r := range buys {
		name := r.Ticker
		if r.CompanyName != "" {
			name = fmt.Sprintf("%s (%s)", r.Ticker, r.CompanyName)
		}
		b.WriteString(fmt.Sprintf("  %s %s — %s position, %.1f%% from 52W high\n",
			r.OverallGrade, name, strings.ToLower(string(r.PositionSize)), r.Analysis.PctFromHighPct))
	}
	return b.String()
}

// FormatFailure formats a pipeline failure notice.
func FormatFailure(stage string, err error) string {
	return fmt.Sprintf("❌ <b>SEPA Scan failed</b>\n\nStage: %s\nError: %v", stage, err)
}

func pickGrades(results []model.ScanResult, grades ...model.Grade) []model.ScanResult {
	var out []model.ScanResult
	for _, g := range grades {
		for _, r := range results {
			if r.Err == "" && r.OverallGrade == g {
				out = append(out, r)
			}
		}
	}
	return out
}
