package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"SepaScreener/internal/model"
)

const ruleWidth = 100

func rule(ch string) string { return strings.Repeat(ch, ruleWidth) }

// positionLabel maps a grade to the action wording used in reports.
func positionLabel(grade model.Grade) string {
	switch grade {
	case model.GradeAPlus:
		return "Full Position"
	case model.GradeA:
		return "Half Position"
	case model.GradeB:
		return "Half Position (Watch)"
	default:
		return "Avoid"
	}
}

// bar renders a proportional block bar for a percentage (2% per block).
func bar(pct float64) string {
	n := int(pct / 2)
	if n < 0 {
		n = 0
	}
	return strings.Repeat("█", n)
}

// Summary renders the aggregate report: grade distribution, position
// sizes, per-criterion pass rates, and the top stocks of each grade.
func Summary(results []model.ScanResult, now time.Time) string {
	total := len(results)
	gradeCounts := map[model.Grade]int{}
	positionSizes := map[model.PositionSize]int{}
	criteriaPass := map[string]int{}
	meets := 0

	for _, r := range results {
		if r.MeetsCriteria {
			meets++
		}
		if r.Err != "" {
			continue
		}
		gradeCounts[r.OverallGrade]++
		positionSizes[r.PositionSize]++
		if r.Checklist != nil {
			for i, e := range r.Checklist.Entries() {
				if e.Passed {
					criteriaPass[model.CriterionNames[i]]++
				}
			}
		}
	}

	pct := func(count int) float64 {
		if total == 0 {
			return 0
		}
		return float64(count) / float64(total) * 100
	}

	var b strings.Builder
	b.WriteString(rule("=") + "\n")
	b.WriteString("MINERVINI SEPA SCAN - SUMMARY REPORT\n")
	b.WriteString(rule("=") + "\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format("2006-01-02 15:04:05")))

	b.WriteString("📊 OVERALL STATISTICS\n")
	b.WriteString(rule("-") + "\n")
	b.WriteString(fmt.Sprintf("Total Stocks Scanned: %d\n", total))
	b.WriteString(fmt.Sprintf("Stocks Meeting Criteria: %d (%.1f%%)\n", meets, pct(meets)))
	b.WriteString(fmt.Sprintf("Stocks NOT Meeting Criteria: %d (%.1f%%)\n\n", total-meets, pct(total-meets)))

	b.WriteString("🎯 GRADE DISTRIBUTION\n")
	b.WriteString(rule("-") + "\n")
	for _, g := range []model.Grade{model.GradeAPlus, model.GradeA, model.GradeB, model.GradeC, model.GradeF} {
		count := gradeCounts[g]
		p := pct(count)
		b.WriteString(fmt.Sprintf("%-3s: %4d stocks (%5.1f%%) %s %s\n", g, count, p, bar(p), positionLabel(g)))
	}
	b.WriteString("\n")

	b.WriteString("💰 POSITION SIZE RECOMMENDATIONS\n")
	b.WriteString(rule("-") + "\n")
	for _, p := range []model.PositionSize{model.PositionFull, model.PositionHalf, model.PositionNone} {
		count := positionSizes[p]
		b.WriteString(fmt.Sprintf("%-6s: %4d stocks (%5.1f%%)\n", p, count, pct(count)))
	}
	b.WriteString("\n")

	b.WriteString("✅ CRITERIA PASS RATES\n")
	b.WriteString(rule("-") + "\n")
	for _, name := range model.CriterionNames {
		count := criteriaPass[name]
		p := pct(count)
		b.WriteString(fmt.Sprintf("%-25s: %4d stocks (%5.1f%%) %s\n", name, count, p, bar(p)))
	}
	b.WriteString("\n")

	b.WriteString("📈 TOP STOCKS BY GRADE\n")
	b.WriteString(rule("-") + "\n")
	for _, g := range []model.Grade{model.GradeAPlus, model.GradeA, model.GradeB, model.GradeC} {
		stocks := filterGrade(results, g)
		if len(stocks) == 0 {
			continue
		}
		// Closest to the 52-week high first.
		sort.SliceStable(stocks, func(i, j int) bool {
			return stocks[i].Analysis.PctFromHighPct < stocks[j].Analysis.PctFromHighPct
		})
		b.WriteString(fmt.Sprintf("\n%s Grade (%d stocks):\n", g, len(stocks)))
		for i, s := range stocks {
			if i >= 10 {
				break
			}
			if s.CompanyName != "" {
				b.WriteString(fmt.Sprintf("  %2d. %-12s (%s) - %.1f%% from 52W high\n",
					i+1, s.Ticker, truncate(s.CompanyName, 50), s.Analysis.PctFromHighPct))
			} else {
				b.WriteString(fmt.Sprintf("  %2d. %-12s - %.1f%% from 52W high\n",
					i+1, s.Ticker, s.Analysis.PctFromHighPct))
			}
		}
	}

	b.WriteString("\n" + rule("=") + "\n")
	return b.String()
}

// Detailed renders the per-stock report grouped by grade, each stock
// with its price context and criterion verdicts.
func Detailed(results []model.ScanResult, now time.Time) string {
	clean := make([]model.ScanResult, 0, len(results))
	for _, r := range results {
		if r.Err == "" {
			clean = append(clean, r)
		}
	}
	sort.SliceStable(clean, func(i, j int) bool {
		ri, rj := clean[i].OverallGrade.Rank(), clean[j].OverallGrade.Rank()
		if ri != rj {
			return ri < rj
		}
		return clean[i].Analysis.PctFromHighPct > clean[j].Analysis.PctFromHighPct
	})

	var b strings.Builder
	b.WriteString(rule("=") + "\n")
	b.WriteString("MINERVINI SEPA SCAN - DETAILED ANALYSIS\n")
	b.WriteString(rule("=") + "\n")
	b.WriteString(fmt.Sprintf("Generated: %s\n", now.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("Total Stocks: %d\n\n", len(clean)))

	for _, g := range []model.Grade{model.GradeAPlus, model.GradeA, model.GradeB, model.GradeC, model.GradeF} {
		stocks := filterGrade(clean, g)
		if len(stocks) == 0 {
			continue
		}
		b.WriteString(rule("#") + "\n")
		b.WriteString(fmt.Sprintf("# GRADE %s (%d stocks)\n", g, len(stocks)))
		b.WriteString(rule("#") + "\n\n")

		for _, s := range stocks {
			writeStock(&b, s)
		}
	}
	return b.String()
}

func writeStock(b *strings.Builder, r model.ScanResult) {
	b.WriteString(rule("=") + "\n")
	b.WriteString(stockHeader(r) + "\n")
	b.WriteString(rule("=") + "\n\n")

	a := r.Analysis
	b.WriteString("[PRICE INFO]\n")
	b.WriteString(fmt.Sprintf("  Current Price: $%.2f\n", a.CurrentPrice))
	b.WriteString(fmt.Sprintf("  52-Week High: $%.2f\n", a.High52w))
	b.WriteString(fmt.Sprintf("  52-Week Low: $%.2f\n", a.Low52w))
	b.WriteString(fmt.Sprintf("  From 52W High: %.1f%%\n", a.PctFromHighPct))
	b.WriteString(fmt.Sprintf("  From 52W Low: %.1f%%\n\n", a.PctFromLowPct))

	if r.Checklist == nil {
		b.WriteString("\n")
		return
	}
	for i, e := range r.Checklist.Entries() {
		status := "[FAIL]"
		if e.Passed {
			status = "[PASS]"
		}
		b.WriteString(rule("=") + "\n")
		b.WriteString(fmt.Sprintf("%s PART %d: %s\n", status, i+1, model.CriterionNames[i]))
		b.WriteString(rule("=") + "\n")
		if len(e.Failures) > 0 {
			b.WriteString("  Failures:\n")
			for j, f := range e.Failures {
				if j >= 3 {
					break
				}
				b.WriteString(fmt.Sprintf("    - %s\n", f))
			}
		}
		for _, w := range e.Warnings {
			b.WriteString(fmt.Sprintf("  ⚠ %s\n", w))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func stockHeader(r model.ScanResult) string {
	if r.CompanyName != "" {
		return fmt.Sprintf("STOCK: %s (%s) | Grade: %s | Meets Criteria: %t | Position Size: %s",
			r.Ticker, r.CompanyName, r.OverallGrade, r.MeetsCriteria, r.PositionSize)
	}
	return fmt.Sprintf("STOCK: %s | Grade: %s | Meets Criteria: %t | Position Size: %s",
		r.Ticker, r.OverallGrade, r.MeetsCriteria, r.PositionSize)
}

func filterGrade(results []model.ScanResult, g model.Grade) []model.ScanResult {
	var out []model.ScanResult
	for _, r := range results {
		if r.Err == "" && r.OverallGrade == g {
			out = append(out, r)
		}
	}
	return out
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
