// Package report assembles the prices and prediction documents from
// per-ticker pipeline results.
package report

import (
	"time"

	"PricePulse/internal/model"
)

const (
	// Method labels the fixed signal rule in prediction.json.
	Method = "momentum_or_close_gt_SMA12"
	// Note is the fixed human-readable description in prediction.json.
	Note = "Simple rule-based signal using last-hour momentum and SMA(12)."
)

// Build assembles both output documents for one run. Tickers supplies the
// configured order; both documents carry the same generatedAt instant.
// Pure transformation: no I/O, no clock reads.
func Build(tickers []string, results map[string]*model.TickerResult, generatedAt time.Time, period, interval string) (*model.PricesDocument, *model.PredictionDocument) {
	now := generatedAt.UTC().Format(time.RFC3339)

	prices := &model.PricesDocument{
		GeneratedAtUTC: now,
		Interval:       interval,
		Period:         period,
	}
	prediction := &model.PredictionDocument{
		GeneratedAtUTC: now,
		Method:         Method,
		Note:           Note,
	}

	for _, ticker := range tickers {
		res, ok := results[ticker]
		if !ok {
			continue
		}
		points := make([]model.SeriesPoint, len(res.Series))
		for i, p := range res.Series {
			points[i] = model.SeriesPoint{
				TsUTC: p.Time.UTC().Format(time.RFC3339),
				Close: p.Close,
			}
		}
		prices.Series.Add(ticker, points)
		prices.Latest.Add(ticker, model.LatestPoint{
			LastTsUTC: res.LastPoint.Time.UTC().Format(time.RFC3339),
			LastClose: res.LastPoint.Close,
		})
		prediction.Predictions.Add(ticker, res.Signal)
	}
	return prices, prediction
}
