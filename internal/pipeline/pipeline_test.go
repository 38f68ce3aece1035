package pipeline

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"PricePulse/internal/collector"
	"PricePulse/internal/model"
	"PricePulse/internal/recorder"
)

// scriptedFetcher serves canned series per ticker and counts calls.
type scriptedFetcher struct {
	series map[string][]model.PricePoint
	errs   map[string]error
	calls  map[string]int
}

func newScriptedFetcher() *scriptedFetcher {
	return &scriptedFetcher{
		series: map[string][]model.PricePoint{},
		errs:   map[string]error{},
		calls:  map[string]int{},
	}
}

func (f *scriptedFetcher) Name() string { return "scripted" }

func (f *scriptedFetcher) Fetch(ticker, period, interval string) ([]model.PricePoint, error) {
	f.calls[ticker]++
	if err, ok := f.errs[ticker]; ok {
		return nil, err
	}
	return f.series[ticker], nil
}

// captureSink records whether and what it was asked to write.
type captureSink struct {
	writes     int
	prices     *model.PricesDocument
	prediction *model.PredictionDocument
}

func (s *captureSink) Write(p *model.PricesDocument, pr *model.PredictionDocument) error {
	s.writes++
	s.prices = p
	s.prediction = pr
	return nil
}

func hourlySeries(start time.Time, closes ...float64) []model.PricePoint {
	pts := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		pts[i] = model.PricePoint{Time: start.Add(time.Duration(i) * time.Hour), Close: c}
	}
	return pts
}

func testPipeline(f collector.Fetcher, s *captureSink) *Pipeline {
	return &Pipeline{
		Fetcher:  f,
		Sink:     s,
		Recorder: recorder.NewNoopRecorder(),
		Opts: Options{
			Tickers:     []string{"A-USD", "B-USD"},
			Period:      "7d",
			Interval:    "1h",
			MaxAttempts: 3,
			BaseDelay:   time.Second,
			TickerPause: 0,
		},
		Sleep: func(time.Duration) {},
		Now:   func() time.Time { return time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC) },
	}
}

func TestRun_Success(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	f := newScriptedFetcher()
	f.series["A-USD"] = hourlySeries(start, 100, 101, 99, 102, 98, 103, 97, 104, 96, 105, 95, 106, 94)
	f.series["B-USD"] = hourlySeries(start, 100, 101, 99, 102, 98, 103, 97, 104, 96, 105, 95, 106, 94, 130)
	s := &captureSink{}

	if err := testPipeline(f, s).Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.writes != 1 {
		t.Fatalf("expected exactly one sink write, got %d", s.writes)
	}
	if got := s.prediction.Predictions.Signals["A-USD"]; got != model.SignalDown {
		t.Errorf("A-USD: expected DOWN, got %s", got)
	}
	if got := s.prediction.Predictions.Signals["B-USD"]; got != model.SignalUp {
		t.Errorf("B-USD: expected UP, got %s", got)
	}
	if s.prices.GeneratedAtUTC != s.prediction.GeneratedAtUTC {
		t.Error("documents must share one generated_at")
	}
	if f.calls["A-USD"] != 1 || f.calls["B-USD"] != 1 {
		t.Errorf("expected one fetch per ticker, got %v", f.calls)
	}
}

func TestRun_AllOrNothing(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	f := newScriptedFetcher()
	f.series["A-USD"] = hourlySeries(start, 100, 101, 99, 102, 98, 103, 97, 104, 96, 105, 95, 106, 94)
	f.errs["B-USD"] = fmt.Errorf("b is down: %w", collector.ErrRequest)
	s := &captureSink{}

	err := testPipeline(f, s).Run()
	if err == nil {
		t.Fatal("expected run failure")
	}
	if s.writes != 0 {
		t.Fatalf("no output may be written when a ticker fails, got %d writes", s.writes)
	}
	if f.calls["B-USD"] != 3 {
		t.Errorf("expected 3 attempts for failing ticker, got %d", f.calls["B-USD"])
	}
	if !errors.Is(err, collector.ErrRequest) {
		t.Errorf("expected underlying request error to surface, got %v", err)
	}
}

func TestRun_ShapeErrorNotRetried(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	f := newScriptedFetcher()
	f.series["A-USD"] = hourlySeries(start, 100, 101, 102)
	f.errs["B-USD"] = fmt.Errorf("no close column: %w", collector.ErrBadShape)
	s := &captureSink{}

	err := testPipeline(f, s).Run()
	if err == nil {
		t.Fatal("expected run failure")
	}
	if f.calls["B-USD"] != 1 {
		t.Errorf("shape errors must not be retried, got %d attempts", f.calls["B-USD"])
	}
	if s.writes != 0 {
		t.Error("no output may be written on shape failure")
	}
}

func TestRun_EmptyResultRetriedLikeRequestFailure(t *testing.T) {
	f := newScriptedFetcher()
	f.errs["A-USD"] = fmt.Errorf("nothing usable: %w", collector.ErrEmpty)
	s := &captureSink{}

	p := testPipeline(f, s)
	p.Opts.Tickers = []string{"A-USD"}

	if err := p.Run(); err == nil {
		t.Fatal("expected run failure")
	}
	if f.calls["A-USD"] != 3 {
		t.Errorf("empty results count against attempts like request failures, got %d", f.calls["A-USD"])
	}
}

func TestRun_InterTickerPause(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	f := newScriptedFetcher()
	f.series["A-USD"] = hourlySeries(start, 100, 101, 102)
	f.series["B-USD"] = hourlySeries(start, 200, 201, 202)
	s := &captureSink{}

	var slept []time.Duration
	p := testPipeline(f, s)
	p.Opts.TickerPause = 3 * time.Second
	p.Sleep = func(d time.Duration) { slept = append(slept, d) }

	if err := p.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// One pause between two tickers, none before the first.
	if len(slept) != 1 || slept[0] != 3*time.Second {
		t.Errorf("expected a single 3s pause, got %v", slept)
	}
}

func TestRun_ShortSeriesProducesHold(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	f := newScriptedFetcher()
	f.series["A-USD"] = hourlySeries(start, 100, 101, 102)
	f.series["B-USD"] = hourlySeries(start, 200, 201, 202)
	s := &captureSink{}

	if err := testPipeline(f, s).Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, ticker := range []string{"A-USD", "B-USD"} {
		if got := s.prediction.Predictions.Signals[ticker]; got != model.SignalHold {
			t.Errorf("%s: expected HOLD for short series, got %s", ticker, got)
		}
	}
}
