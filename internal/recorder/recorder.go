package recorder

import (
	"time"

	"PricePulse/internal/model"
)

// TickerOutcome is one ticker's result inside a recorded run.
type TickerOutcome struct {
	Ticker    string
	Points    int
	LastTime  time.Time
	LastClose float64
	Signal    model.Signal
}

// RunRecord holds everything worth keeping about one successful run.
type RunRecord struct {
	GeneratedAt time.Time
	Provider    string
	Outcomes    []TickerOutcome
}

// Recorder persists run history for later analysis.
type Recorder interface {
	RecordRun(rec *RunRecord) error
	Close() error
}
