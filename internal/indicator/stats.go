package indicator

import "math"

// PctChange returns the percentage change between consecutive values as
// fractions (0.01 = 1%). The result has len(values)-1 entries.
func PctChange(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			out[i-1] = 0
			continue
		}
		out[i-1] = (values[i] - values[i-1]) / values[i-1]
	}
	return out
}

// Mean returns the arithmetic mean, ignoring NaN entries. An input with
// no defined values yields NaN.
func Mean(values []float64) float64 {
	sum, n := 0.0, 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// StdDev returns the sample standard deviation (n-1 denominator),
// ignoring NaN entries. Fewer than two defined values yields NaN.
func StdDev(values []float64) float64 {
	mean := Mean(values)
	if math.IsNaN(mean) {
		return math.NaN()
	}
	var sq float64
	n := 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		d := v - mean
		sq += d * d
		n++
	}
	if n < 2 {
		return math.NaN()
	}
	return math.Sqrt(sq / float64(n-1))
}

// RollingStd computes the sample standard deviation over a trailing
// window at every index. Positions before window-1 are NaN.
func RollingStd(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		out[i] = math.NaN()
	}
	if window < 2 || len(values) < window {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		out[i] = StdDev(values[i-window+1 : i+1])
	}
	return out
}

// CumulativeReturn compounds a sequence of fractional returns into a
// single fractional return.
func CumulativeReturn(returns []float64) float64 {
	prod := 1.0
	for _, r := range returns {
		prod *= 1 + r
	}
	return prod - 1
}

// PctAboveLow returns how far price sits above a reference low, in
// percent of the low.
func PctAboveLow(price, low float64) float64 {
	if low == 0 {
		return 0
	}
	return (price - low) / low * 100
}

// PctBelowHigh returns how far price sits below a reference high, in
// percent of the high.
func PctBelowHigh(price, high float64) float64 {
	if high == 0 {
		return 0
	}
	return (high - price) / high * 100
}
