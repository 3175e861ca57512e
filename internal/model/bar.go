package model

import (
	"fmt"
	"time"
)

// Bar represents a single daily OHLCV candlestick.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Validate checks the basic OHLCV invariants for one bar.
func (b Bar) Validate() error {
	if b.High < b.Open || b.High < b.Close || b.High < b.Low {
		return fmt.Errorf("bar %s: high %.4f below open/close/low", b.Date.Format("2006-01-02"), b.High)
	}
	if b.Low > b.Open || b.Low > b.Close {
		return fmt.Errorf("bar %s: low %.4f above open/close", b.Date.Format("2006-01-02"), b.Low)
	}
	if b.Volume < 0 {
		return fmt.Errorf("bar %s: negative volume", b.Date.Format("2006-01-02"))
	}
	return nil
}

// Series holds the ordered daily price history for one symbol.
// Bars are strictly increasing by date. A Series is treated as immutable
// once handed to the scanner.
type Series struct {
	Symbol string
	Bars   []Bar
}

// MinAnalyzableBars is the minimum history length required for a full
// scan (roughly one trading year, needed for 200 SMA and 52-week range).
const MinAnalyzableBars = 200

// NewSeries validates bar ordering and invariants and wraps the bars.
func NewSeries(symbol string, bars []Bar) (Series, error) {
	for i, b := range bars {
		if err := b.Validate(); err != nil {
			return Series{}, err
		}
		if i > 0 && !bars[i-1].Date.Before(b.Date) {
			return Series{}, fmt.Errorf("series %s: bars not strictly increasing at %s",
				symbol, b.Date.Format("2006-01-02"))
		}
	}
	return Series{Symbol: symbol, Bars: bars}, nil
}

// Len returns the number of bars.
func (s Series) Len() int { return len(s.Bars) }

// Last returns the most recent bar. Panics on an empty series; callers
// must check Len first.
func (s Series) Last() Bar { return s.Bars[len(s.Bars)-1] }

// Tail returns the trailing n bars (all bars if fewer are available).
// The returned slice aliases the series and must not be mutated.
func (s Series) Tail(n int) []Bar {
	if n >= len(s.Bars) {
		return s.Bars
	}
	return s.Bars[len(s.Bars)-n:]
}

// Closes extracts the close column.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Volumes extracts the volume column.
func (s Series) Volumes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Volume
	}
	return out
}

// HighLow returns the highest high and lowest low over the trailing n
// bars (all bars if fewer are available).
func (s Series) HighLow(n int) (high, low float64) {
	bars := s.Tail(n)
	if len(bars) == 0 {
		return 0, 0
	}
	high, low = bars[0].High, bars[0].Low
	for _, b := range bars[1:] {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low
}
