// Package pipeline orchestrates one run: fetch every configured ticker
// through the retry policy, compute signals, build the two report documents
// and hand them to the output sink. A run is all-or-nothing: any ticker
// failure aborts before anything is written.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"PricePulse/internal/collector"
	"PricePulse/internal/model"
	"PricePulse/internal/notifier"
	"PricePulse/internal/recorder"
	"PricePulse/internal/report"
	"PricePulse/internal/retry"
	"PricePulse/internal/sink"
	"PricePulse/internal/strategy"
)

// Options carries the run configuration supplied by the caller.
type Options struct {
	Tickers     []string
	Period      string
	Interval    string
	MaxAttempts int
	BaseDelay   time.Duration
	TickerPause time.Duration
}

// Pipeline executes runs sequentially, one ticker at a time.
type Pipeline struct {
	Fetcher  collector.Fetcher
	Sink     sink.Sink
	Recorder recorder.Recorder
	Notifier Notifier
	Opts     Options
	Ctx      context.Context

	// Sleep and Now are injectable for tests; nil means the real thing.
	Sleep func(time.Duration)
	Now   func() time.Time
}

// Notifier receives a summary after a successful run. Optional.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// New creates a pipeline with real clock and sleep.
func New(ctx context.Context, fetcher collector.Fetcher, out sink.Sink, rec recorder.Recorder, opts Options) *Pipeline {
	return &Pipeline{
		Fetcher:  fetcher,
		Sink:     out,
		Recorder: rec,
		Opts:     opts,
		Ctx:      ctx,
		Sleep:    time.Sleep,
		Now:      time.Now,
	}
}

// Run processes every configured ticker in order and writes both documents.
// Returns the first failure without writing any output.
func (p *Pipeline) Run() error {
	opts := p.Opts
	log.Printf("[INFO] run starting: tickers=%v period=%s interval=%s source=%s",
		opts.Tickers, opts.Period, opts.Interval, p.Fetcher.Name())

	results := make(map[string]*model.TickerResult, len(opts.Tickers))
	for i, ticker := range opts.Tickers {
		if i > 0 && opts.TickerPause > 0 {
			log.Printf("[INFO] pausing %v before next ticker", opts.TickerPause)
			p.sleep(opts.TickerPause)
		}
		log.Printf("[INFO] [%d/%d] processing %s", i+1, len(opts.Tickers), ticker)

		res, err := p.processTicker(ticker)
		if err != nil {
			return fmt.Errorf("process %s: %w", ticker, err)
		}
		results[ticker] = res
		log.Printf("[INFO] %s: %d points, last %.2f @ %s, prediction %s",
			ticker, len(res.Series), res.LastPoint.Close,
			res.LastPoint.Time.UTC().Format(time.RFC3339), res.Signal)
	}

	generatedAt := p.now()
	prices, prediction := report.Build(opts.Tickers, results, generatedAt, opts.Period, opts.Interval)
	if err := p.Sink.Write(prices, prediction); err != nil {
		return fmt.Errorf("write reports: %w", err)
	}

	p.record(generatedAt, results)
	p.notify(prices, prediction)
	log.Printf("[INFO] run complete at %s", prices.GeneratedAtUTC)
	return nil
}

func (p *Pipeline) processTicker(ticker string) (*model.TickerResult, error) {
	policy := retry.Policy{
		MaxAttempts: p.Opts.MaxAttempts,
		BaseDelay:   p.Opts.BaseDelay,
		Sleep:       p.sleep,
		Transient:   collector.IsTransient,
	}

	var series []model.PricePoint
	err := policy.Do(func() error {
		s, err := p.Fetcher.Fetch(ticker, p.Opts.Period, p.Opts.Interval)
		if err != nil {
			return err
		}
		series = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	res := &model.TickerResult{
		Ticker:    ticker,
		Series:    series,
		LastPoint: series[len(series)-1],
	}
	sig, err := strategy.Evaluate(res.Closes())
	if err != nil {
		return nil, err
	}
	res.Signal = sig
	return res, nil
}

// record persists run history. Failures are logged, never fatal: the run's
// contract is about the two output files, not the history database.
func (p *Pipeline) record(generatedAt time.Time, results map[string]*model.TickerResult) {
	if p.Recorder == nil {
		return
	}
	rec := &recorder.RunRecord{
		GeneratedAt: generatedAt,
		Provider:    p.Fetcher.Name(),
	}
	for _, ticker := range p.Opts.Tickers {
		res := results[ticker]
		rec.Outcomes = append(rec.Outcomes, recorder.TickerOutcome{
			Ticker:    ticker,
			Points:    len(res.Series),
			LastTime:  res.LastPoint.Time,
			LastClose: res.LastPoint.Close,
			Signal:    res.Signal,
		})
	}
	if err := p.Recorder.RecordRun(rec); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
}

func (p *Pipeline) notify(prices *model.PricesDocument, prediction *model.PredictionDocument) {
	if p.Notifier == nil {
		return
	}
	ctx := p.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	summary := notifier.FormatRunSummary(prices, prediction)
	if err := p.Notifier.SendWithRetry(ctx, summary, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}

func (p *Pipeline) sleep(d time.Duration) {
	if p.Sleep != nil {
		p.Sleep(d)
		return
	}
	time.Sleep(d)
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}
