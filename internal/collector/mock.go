package collector

import (
	"fmt"
	"time"

	"PricePulse/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	BasePrice float64
	Series    map[string][]model.PricePoint // per-ticker override
	Err       error                         // forced failure
	Calls     int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Fetch(ticker, period, interval string) ([]model.PricePoint, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if s, ok := m.Series[ticker]; ok {
		return normalizeOrErr(ticker, s)
	}
	hours, err := periodHours(period)
	if err != nil {
		return nil, fmt.Errorf("mock: %w", err)
	}
	base := m.BasePrice
	if base == 0 {
		base = 100
	}
	return generateMockSeries(base, hours), nil
}

func normalizeOrErr(ticker string, points []model.PricePoint) ([]model.PricePoint, error) {
	series, err := normalize(points)
	if err != nil {
		return nil, fmt.Errorf("mock %s: %w", ticker, err)
	}
	return series, nil
}

func generateMockSeries(basePrice float64, count int) []model.PricePoint {
	now := time.Now().UTC().Truncate(time.Hour)
	points := make([]model.PricePoint, count)
	for i := 0; i < count; i++ {
		points[i] = model.PricePoint{
			Time:  now.Add(-time.Duration(count-i) * time.Hour),
			Close: basePrice * (1 + float64(i-count/2)*0.001),
		}
	}
	return points
}
