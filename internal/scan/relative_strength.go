package scan

import (
	"fmt"

	"SepaScreener/internal/indicator"
	"SepaScreener/internal/model"
)

const minCommonDates = 60

// evalRelativeStrength compares the stock against the benchmark index:
// RSI momentum, cumulative outperformance over the last 60 common
// sessions, and the position of the normalized RS line versus its own
// recent high.
func evalRelativeStrength(s model.Series, bench model.Series) model.ChecklistEntry {
	var findings []model.Finding
	details := model.Details{}

	rsi, err := indicator.RSI(s.Closes(), 14)
	if err != nil {
		rsi = 0
	}
	if rsi < 60 {
		findings = append(findings, model.Finding{
			Severity: model.Blocking,
			Message:  fmt.Sprintf("RSI(14) = %.1f (need >60)", rsi),
		})
	}
	details["rsi_14"] = rsi

	stockCloses, benchCloses := alignByDate(s, bench)
	if len(stockCloses) < minCommonDates+1 {
		findings = append(findings, model.Finding{
			Severity: model.Blocking,
			Message:  "Insufficient data for relative strength calculation",
		})
		return model.NewEntry(findings, details)
	}

	// Cumulative return differential over the last 60 common sessions.
	stockRet := indicator.PctChange(stockCloses)
	benchRet := indicator.PctChange(benchCloses)
	stockCum := indicator.CumulativeReturn(stockRet[len(stockRet)-minCommonDates:])
	benchCum := indicator.CumulativeReturn(benchRet[len(benchRet)-minCommonDates:])
	relStrength := stockCum - benchCum

	rsRating := 50 + relStrength*100
	if rsRating > 100 {
		rsRating = 100
	}
	if rsRating < 0 {
		rsRating = 0
	}

	if relStrength <= 0 {
		findings = append(findings, model.Finding{
			Severity: model.Blocking,
			Message:  "Stock not outperforming benchmark",
		})
	}

	// RS line: stock/benchmark price ratio rebased to 100 at the start
	// of the common window. Sitting well below its own recent high is a
	// warning, not a disqualifier.
	rsLine := make([]float64, len(stockCloses))
	first := stockCloses[0] / benchCloses[0]
	for i := range stockCloses {
		rsLine[i] = stockCloses[i] / benchCloses[i] / first * 100
	}
	currentRS := rsLine[len(rsLine)-1]
	tail := rsLine
	if len(tail) > minCommonDates {
		tail = tail[len(tail)-minCommonDates:]
	}
	rsHigh := tail[0]
	for _, v := range tail {
		if v > rsHigh {
			rsHigh = v
		}
	}
	if rsHigh > 0 {
		fromHigh := (rsHigh - currentRS) / rsHigh * 100
		if fromHigh > 5 {
			findings = append(findings, model.Finding{
				Severity: model.Advisory,
				Message:  fmt.Sprintf("RS line %.1f%% below recent high", fromHigh),
			})
		}
	}

	details["relative_strength"] = relStrength
	details["rs_rating"] = rsRating
	details["stock_return"] = stockCum
	details["benchmark_return"] = benchCum
	details["outperforming"] = relStrength > 0

	return model.NewEntry(findings, details)
}

// alignByDate intersects the two series on trading date and returns the
// paired close columns in chronological order.
func alignByDate(s, bench model.Series) (stock, benchmark []float64) {
	byDate := make(map[string]float64, bench.Len())
	for _, b := range bench.Bars {
		byDate[b.Date.Format("2006-01-02")] = b.Close
	}
	for _, b := range s.Bars {
		if bc, ok := byDate[b.Date.Format("2006-01-02")]; ok {
			stock = append(stock, b.Close)
			benchmark = append(benchmark, bc)
		}
	}
	return stock, benchmark
}
