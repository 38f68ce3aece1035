package model

import "time"

// PricePoint is a single close-price observation at a UTC instant.
type PricePoint struct {
	Time  time.Time
	Close float64
}

// Signal is the categorical directional forecast for one ticker.
type Signal string

const (
	SignalUp   Signal = "UP"
	SignalDown Signal = "DOWN"
	SignalHold Signal = "HOLD"
)

// TickerResult holds everything one pipeline run produced for one ticker.
// Series is ordered ascending by time and never empty.
type TickerResult struct {
	Ticker    string
	Series    []PricePoint
	LastPoint PricePoint
	Signal    Signal
}

// Closes extracts the close prices from the series in order.
func (r *TickerResult) Closes() []float64 {
	closes := make([]float64, len(r.Series))
	for i, p := range r.Series {
		closes[i] = p.Close
	}
	return closes
}
