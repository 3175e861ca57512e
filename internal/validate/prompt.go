package validate

import (
	"fmt"
	"strings"

	"SepaScreener/internal/model"
)

const systemPrompt = "You are an expert stock analyst specializing in Mark Minervini's SEPA methodology. " +
	"Provide detailed, accurate analysis of stocks based on technical analysis principles."

const promptHeader = `You are an expert stock analyst specializing in Mark Minervini's SEPA (Stock Exchange Price Action) methodology.

Analyze the following stocks that have been graded A+ or A by an automated Minervini scanner.

## FIRST: TOP 3 PICKS SUMMARY
Before the detailed analysis, start with a brief "TOP 3 PICKS" section that highlights your top 3 stock recommendations from the list. For each pick, provide:
- Ticker and company name
- Why it's your top pick (1-2 sentences)
- Suggested entry price and stop loss

## THEN: For each stock, provide detailed analysis:

1. **Overall Assessment**: Do you agree with the grade? Why or why not?
2. **A+ vs A Analysis**:
   - If the stock is graded A (not A+), explain SPECIFICALLY why it is not A+. What criteria are missing or what failures prevent it from being A+?
   - If the stock is graded A+, confirm that all criteria are met and explain why it deserves the A+ grade.
3. **Trend & Structure Analysis**: Is the stock in a proper Stage 2 uptrend?
4. **Base Quality Assessment**: Is the base pattern valid (3-8 weeks, <=25% depth)?
5. **Relative Strength Evaluation**: Is the stock showing strong relative strength?
6. **Volume Analysis**: Is volume contracting in base and expanding on breakout?
7. **Breakout Validation**: Is the stock breaking out properly?
8. **Risk Assessment**: What are the key risks for this stock?
9. **Recommendation**: Would you take a position? If yes, what size (Full/Half/None)?
10. What is the pivot price?
11. What is the buy price?
12. What is the stop loss?

IMPORTANT: For stocks graded A (not A+), you MUST clearly explain what specific criteria failures or issues prevent them from being A+ grade. Reference the detailed checklist data provided for each stock.

Provide your analysis in a clear, structured format for each stock.

STOCKS TO ANALYZE:
`

// check renders a boolean as the checkmark used in the prompt.
func check(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

// FormatStock renders one scan result into the text block the analyst
// model receives.
func FormatStock(r model.ScanResult) string {
	var b strings.Builder

	name := "N/A"
	if r.CompanyName != "" {
		name = r.CompanyName
	}
	b.WriteString(fmt.Sprintf("STOCK: %s (%s)\n", r.Ticker, name))
	b.WriteString(fmt.Sprintf("Grade: %s | Meets Criteria: %t | Position Size: %s\n",
		r.OverallGrade, r.MeetsCriteria, r.PositionSize))

	switch r.OverallGrade {
	case model.GradeA:
		b.WriteString("*** NOTE: This stock is A grade (not A+). Please explain what criteria failures prevent it from being A+. ***\n")
	case model.GradeAPlus:
		b.WriteString("*** NOTE: This stock is A+ grade. Please confirm all criteria are met. ***\n")
	}
	b.WriteString("\n")

	a := r.Analysis
	b.WriteString("PRICE INFORMATION:\n")
	b.WriteString(fmt.Sprintf("  Current Price: $%.2f\n", a.CurrentPrice))
	b.WriteString(fmt.Sprintf("  52-Week High: $%.2f\n", a.High52w))
	b.WriteString(fmt.Sprintf("  52-Week Low: $%.2f\n", a.Low52w))
	b.WriteString(fmt.Sprintf("  From 52W High: %.1f%%\n", a.PctFromHighPct))
	b.WriteString(fmt.Sprintf("  From 52W Low: %.1f%%\n\n", a.PctFromLowPct))

	if r.Checklist == nil {
		return b.String()
	}
	c := r.Checklist

	writePart(&b, 1, "TREND & STRUCTURE", c.TrendStructure, func(d model.Details) {
		b.WriteString(fmt.Sprintf("  Current Price: $%.2f\n", d.Float("current_price")))
		b.WriteString(fmt.Sprintf("  SMA 50: $%.2f | Above: %s\n", d.Float("sma_50"), check(d.Bool("above_50"))))
		b.WriteString(fmt.Sprintf("  SMA 150: $%.2f | Above: %s\n", d.Float("sma_150"), check(d.Bool("above_150"))))
		b.WriteString(fmt.Sprintf("  SMA 200: $%.2f | Above: %s\n", d.Float("sma_200"), check(d.Bool("above_200"))))
		b.WriteString(fmt.Sprintf("  SMA Order (50>150>200): %s\n", check(d.Bool("sma_order_correct"))))
		b.WriteString(fmt.Sprintf("  Price from 52W Low: %.1f%% (need >=30%%)\n", d.Float("price_from_52w_low_pct")))
		b.WriteString(fmt.Sprintf("  Price from 52W High: %.1f%% (need <=25%%)\n", d.Float("price_from_52w_high_pct")))
	})

	writePart(&b, 2, "BASE QUALITY", c.BaseQuality, func(d model.Details) {
		b.WriteString(fmt.Sprintf("  Base Length: %.1f weeks (need 3-8 weeks)\n", d.Float("base_length_weeks")))
		b.WriteString(fmt.Sprintf("  Base Depth: %.1f%% (need <=25%%, <=15%% is elite)\n", d.Float("base_depth_pct")))
		b.WriteString(fmt.Sprintf("  Base High: $%.2f\n", d.Float("base_high")))
		b.WriteString(fmt.Sprintf("  Base Low: $%.2f\n", d.Float("base_low")))
		b.WriteString(fmt.Sprintf("  Avg Close Position: %.1f%% (need >=60%%)\n", d.Float("avg_close_position_pct")))
		b.WriteString(fmt.Sprintf("  Volume Contraction: %.2fx (need <0.9x)\n", d.Float("volume_contraction")))
	})

	writePart(&b, 3, "RELATIVE STRENGTH", c.RelativeStrength, func(d model.Details) {
		b.WriteString(fmt.Sprintf("  RSI(14): %.1f (need >=60)\n", d.Float("rsi_14")))
		b.WriteString(fmt.Sprintf("  Relative Strength: %.4f (need >0)\n", d.Float("relative_strength")))
		b.WriteString(fmt.Sprintf("  RS Rating: %.1f\n", d.Float("rs_rating")))
		b.WriteString(fmt.Sprintf("  Stock Return: %.2f%%\n", d.Float("stock_return")*100))
		b.WriteString(fmt.Sprintf("  Benchmark Return: %.2f%%\n", d.Float("benchmark_return")*100))
		b.WriteString(fmt.Sprintf("  Outperforming: %s\n", check(d.Bool("outperforming"))))
	})

	writePart(&b, 4, "VOLUME SIGNATURE", c.VolumeSignature, func(d model.Details) {
		b.WriteString(fmt.Sprintf("  Base Avg Volume: %.0f\n", d.Float("base_avg_volume")))
		b.WriteString(fmt.Sprintf("  Pre-Base Volume: %.0f\n", d.Float("pre_base_volume")))
		b.WriteString(fmt.Sprintf("  Volume Contraction: %.2fx (need <0.9x)\n", d.Float("volume_contraction")))
		b.WriteString(fmt.Sprintf("  Recent Volume: %.0f\n", d.Float("recent_volume")))
		b.WriteString(fmt.Sprintf("  Avg Volume (20d): %.0f\n", d.Float("avg_volume_20d")))
		b.WriteString(fmt.Sprintf("  Volume Increase: %.2fx (need >=1.4x for breakout)\n", d.Float("volume_increase")))
		b.WriteString(fmt.Sprintf("  In Breakout: %s\n", check(d.Bool("in_breakout"))))
	})

	writePart(&b, 5, "BREAKOUT RULES", c.BreakoutRules, func(d model.Details) {
		b.WriteString(fmt.Sprintf("  Pivot Price (Base High): $%.2f\n", d.Float("pivot_price")))
		b.WriteString(fmt.Sprintf("  Current Price: $%.2f\n", d.Float("current_price")))
		b.WriteString(fmt.Sprintf("  Clears Pivot (>=2%% above): %s\n", check(d.Bool("clears_pivot"))))
		b.WriteString(fmt.Sprintf("  Close Position on Breakout: %.1f%% (need >=75%%)\n", d.Float("close_position_pct")))
		b.WriteString(fmt.Sprintf("  Volume Ratio: %.2fx (need >=1.4x)\n", d.Float("volume_ratio")))
		b.WriteString(fmt.Sprintf("  In Breakout: %s\n", check(d.Bool("in_breakout"))))
	})

	return b.String()
}

func writePart(b *strings.Builder, n int, name string, e model.ChecklistEntry, body func(model.Details)) {
	b.WriteString(fmt.Sprintf("PART %d: %s\n", n, name))
	b.WriteString(fmt.Sprintf("  Passed: %t\n", e.Passed))
	if e.Details != nil {
		body(e.Details)
	}
	if len(e.Failures) > 0 {
		b.WriteString(fmt.Sprintf("  Failures: %s\n", strings.Join(e.Failures, ", ")))
	}
	b.WriteString("\n")
}

// BuildPrompt assembles the full analysis prompt for a batch of stocks.
func BuildPrompt(stocks []string) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString("\n" + strings.Repeat("=", 80) + "\n")
	b.WriteString(strings.Join(stocks, "\n"))
	b.WriteString("\n" + strings.Repeat("=", 80) + "\n")
	b.WriteString("\nPlease provide your detailed analysis for each stock above.\n")
	return b.String()
}
