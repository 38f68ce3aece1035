package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SeriesPoint is one serialized price observation.
type SeriesPoint struct {
	TsUTC string  `json:"ts_utc"`
	Close float64 `json:"close"`
}

// LatestPoint mirrors the final observation of a ticker's series.
type LatestPoint struct {
	LastTsUTC string  `json:"last_ts_utc"`
	LastClose float64 `json:"last_close"`
}

// PricesDocument is the full prices.json payload for one run.
type PricesDocument struct {
	GeneratedAtUTC string    `json:"generated_at_utc"`
	Interval       string    `json:"interval"`
	Period         string    `json:"period"`
	Series         SeriesMap `json:"series"`
	Latest         LatestMap `json:"latest"`
}

// PredictionDocument is the full prediction.json payload for one run.
type PredictionDocument struct {
	GeneratedAtUTC string        `json:"generated_at_utc"`
	Predictions    PredictionMap `json:"next_1h_prediction"`
	Method         string        `json:"method"`
	Note           string        `json:"note"`
}

// SeriesMap maps ticker to its serialized series. It marshals as a JSON
// object preserving insertion order; encoding/json would sort map keys.
type SeriesMap struct {
	Tickers []string
	Points  map[string][]SeriesPoint
}

// Add appends a ticker's series, keeping insertion order.
func (m *SeriesMap) Add(ticker string, points []SeriesPoint) {
	if m.Points == nil {
		m.Points = make(map[string][]SeriesPoint)
	}
	if _, ok := m.Points[ticker]; !ok {
		m.Tickers = append(m.Tickers, ticker)
	}
	m.Points[ticker] = points
}

func (m SeriesMap) MarshalJSON() ([]byte, error) {
	return marshalOrdered(m.Tickers, func(t string) interface{} { return m.Points[t] })
}

// LatestMap maps ticker to its latest observation, insertion-ordered.
type LatestMap struct {
	Tickers []string
	Latest  map[string]LatestPoint
}

func (m *LatestMap) Add(ticker string, latest LatestPoint) {
	if m.Latest == nil {
		m.Latest = make(map[string]LatestPoint)
	}
	if _, ok := m.Latest[ticker]; !ok {
		m.Tickers = append(m.Tickers, ticker)
	}
	m.Latest[ticker] = latest
}

func (m LatestMap) MarshalJSON() ([]byte, error) {
	return marshalOrdered(m.Tickers, func(t string) interface{} { return m.Latest[t] })
}

// PredictionMap maps ticker to its signal, insertion-ordered.
type PredictionMap struct {
	Tickers []string
	Signals map[string]Signal
}

func (m *PredictionMap) Add(ticker string, sig Signal) {
	if m.Signals == nil {
		m.Signals = make(map[string]Signal)
	}
	if _, ok := m.Signals[ticker]; !ok {
		m.Tickers = append(m.Tickers, ticker)
	}
	m.Signals[ticker] = sig
}

func (m PredictionMap) MarshalJSON() ([]byte, error) {
	return marshalOrdered(m.Tickers, func(t string) interface{} { return m.Signals[t] })
}

// marshalOrdered writes a JSON object whose keys appear in the given order.
func marshalOrdered(keys []string, value func(string) interface{}) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(value(k))
		if err != nil {
			return nil, fmt.Errorf("marshal value for %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
