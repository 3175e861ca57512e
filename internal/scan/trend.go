package scan

import (
	"fmt"

	"SepaScreener/internal/indicator"
	"SepaScreener/internal/model"
)

// evalTrendStructure checks the non-negotiable trend criterion: price
// above the 50/150/200 SMA, correct SMA stacking, rising SMAs, and a
// 52-week position that is extended off the low but not too far off the
// high. Sub-checks are independent; several failures can accumulate from
// one evaluation.
func evalTrendStructure(s model.Series) model.ChecklistEntry {
	var findings []model.Finding
	details := model.Details{}

	closes := s.Closes()
	n := len(closes)
	current := closes[n-1]

	sma50 := indicator.SMASeries(closes, 50)
	sma150 := indicator.SMASeries(closes, 150)
	sma200 := indicator.SMASeries(closes, 200)

	cur50, cur150, cur200 := sma50[n-1], sma150[n-1], sma200[n-1]

	above50 := current > cur50
	above150 := current > cur150
	above200 := current > cur200
	if !above50 {
		findings = append(findings, model.Finding{Severity: model.Blocking, Message: "Price below 50 SMA"})
	}
	if !above150 {
		findings = append(findings, model.Finding{Severity: model.Blocking, Message: "Price below 150 SMA"})
	}
	if !above200 {
		findings = append(findings, model.Finding{Severity: model.Blocking, Message: "Price below 200 SMA"})
	}

	orderCorrect := cur50 > cur150 && cur150 > cur200
	if !orderCorrect {
		findings = append(findings, model.Finding{
			Severity: model.Blocking,
			Message:  "SMA order incorrect (50 SMA must be > 150 SMA > 200 SMA)",
		})
	}

	// Slope check: compare against the value 20 bars back when a full
	// 220-bar history exists, otherwise fall back to the 50 SMA over a
	// 10-bar span.
	if n >= 220 {
		if !(cur50 > sma50[n-20]) {
			findings = append(findings, model.Finding{Severity: model.Blocking, Message: "50 SMA not sloping up"})
		}
		if !(cur150 > sma150[n-20]) {
			findings = append(findings, model.Finding{Severity: model.Blocking, Message: "150 SMA not sloping up"})
		}
		if !(cur200 > sma200[n-20]) {
			findings = append(findings, model.Finding{Severity: model.Blocking, Message: "200 SMA not sloping up"})
		}
	} else if n >= 70 {
		if !(cur50 > sma50[n-10]) {
			findings = append(findings, model.Finding{Severity: model.Blocking, Message: "50 SMA not sloping up"})
		}
	}

	high52, low52 := s.HighLow(252)

	fromLow := indicator.PctAboveLow(current, low52)
	if fromLow < 30 {
		findings = append(findings, model.Finding{
			Severity: model.Blocking,
			Message:  fmt.Sprintf("Price only %.1f%% above 52W low (need >=30%%)", fromLow),
		})
	}

	fromHigh := indicator.PctBelowHigh(current, high52)
	if fromHigh > 15 {
		findings = append(findings, model.Finding{
			Severity: model.Blocking,
			Message:  fmt.Sprintf("Price %.1f%% below 52W high (need within 15%%)", fromHigh),
		})
	} else if fromHigh < 10 {
		findings = append(findings, model.Finding{
			Severity: model.Advisory,
			Message:  fmt.Sprintf("Price very close to 52W high (%.1f%%) - may be late stage", fromHigh),
		})
	}

	details["current_price"] = current
	details["sma_50"] = cur50
	details["sma_150"] = cur150
	details["sma_200"] = cur200
	details["above_50"] = above50
	details["above_150"] = above150
	details["above_200"] = above200
	details["sma_order_correct"] = orderCorrect
	details["52_week_high"] = high52
	details["52_week_low"] = low52
	details["price_from_52w_low_pct"] = fromLow
	details["price_from_52w_high_pct"] = fromHigh

	return model.NewEntry(findings, details)
}
