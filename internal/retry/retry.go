// Package retry provides a bounded retry loop with linear backoff,
// decoupled from any specific upstream adapter.
package retry

import (
	"fmt"
	"log"
	"time"
)

// ExhaustedError wraps the last failure after all attempts were spent.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all %d attempts exhausted: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

// Policy re-invokes an operation up to MaxAttempts times, sleeping
// BaseDelay * attempt between attempts (attempts are 1-based). No jitter,
// no sleep after the final attempt.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Sleep       func(time.Duration) // nil means time.Sleep
	Transient   func(error) bool    // nil means retry every failure
}

// Do runs op until it succeeds, fails permanently, or attempts run out.
// A non-transient failure is returned as-is; exhausted attempts return an
// *ExhaustedError wrapping the last failure.
func (p Policy) Do(op func() error) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		if p.Transient != nil && !p.Transient(err) {
			return err
		}
		lastErr = err
		if attempt < p.MaxAttempts {
			backoff := p.BaseDelay * time.Duration(attempt)
			log.Printf("[WARN] attempt %d/%d failed: %v, retrying in %v", attempt, p.MaxAttempts, err, backoff)
			sleep(backoff)
		}
	}
	return &ExhaustedError{Attempts: p.MaxAttempts, Err: lastErr}
}
