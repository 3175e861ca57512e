package model

// ConsolidationWindow describes a detected base: a contiguous sub-range
// of a series where price moved sideways after an advance. Derived per
// scan, never mutated once produced.
type ConsolidationWindow struct {
	Start       int // index into the scanned series
	End         int // inclusive
	High        float64
	Low         float64
	DepthPct    float64 // (high-low)/high * 100
	LengthWeeks float64 // bar count / 5.0
}

// Bars returns the number of bars covered by the window.
func (w ConsolidationWindow) Bars() int { return w.End - w.Start + 1 }
