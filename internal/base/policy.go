package base

// Policy centralizes every threshold of the consolidation detector so
// tests can exercise boundary values precisely.
type Policy struct {
	Lookback        int     // bars scanned for a base
	VolWindow       int     // rolling volatility window
	LowVolRatio     float64 // "low volatility" cutoff as a fraction of mean volatility
	MinLowVolBars   int     // step 1: minimum low-volatility bars
	RecentWindow    int     // step 2: recent window size
	RecentLowVolPct float64 // step 2: required fraction of low-volatility bars
	MinRecentBars   int     // step 2: minimum bars in the recent window
	Range30MaxPct   float64 // step 3: max 30-bar range as percent of mean close
	Range60MaxPct   float64 // step 3: max 60-bar range
	MinBarsFor60    int     // step 3: minimum history for the 60-bar check
	MinWeeks        float64 // acceptance bounds for any candidate
	MaxWeeks        float64
	MaxDepthPct     float64
}

// DefaultPolicy returns the production thresholds.
func DefaultPolicy() Policy {
	return Policy{
		Lookback:        60,
		VolWindow:       10,
		LowVolRatio:     0.75,
		MinLowVolBars:   10,
		RecentWindow:    20,
		RecentLowVolPct: 0.60,
		MinRecentBars:   15,
		Range30MaxPct:   15,
		Range60MaxPct:   25,
		MinBarsFor60:    40,
		MinWeeks:        2,
		MaxWeeks:        12,
		MaxDepthPct:     35,
	}
}
