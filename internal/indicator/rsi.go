package indicator

import "errors"

// RSI computes the Relative Strength Index over the trailing `period`
// price changes, using the ratio of the rolling mean gain to the rolling
// mean loss. Requires at least period+1 closes.
//
// When the loss average is zero (no down days inside the window) RSI is
// defined as 100.
func RSI(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(closes) < period+1 {
		return 0, errors.New("not enough data for RSI calculation")
	}

	var gainSum, lossSum float64
	for i := len(closes) - period; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gainSum += change
		} else {
			lossSum -= change
		}
	}
	avgGain := gainSum / float64(period)
	avgLoss := lossSum / float64(period)

	if avgLoss == 0 {
		return 100.0, nil
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs), nil
}
