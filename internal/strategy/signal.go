// Package strategy implements the rule-based directional signal: hourly
// momentum or close above the 12-hour simple moving average.
package strategy

import (
	"errors"
	"fmt"
	"math"

	"PricePulse/internal/calculator"
	"PricePulse/internal/model"
)

const (
	// minPoints is the shortest series that produces a non-HOLD signal.
	minPoints = 13
	// smaWindow is the moving-average window, inclusive of the latest close.
	smaWindow = 12
)

// ErrInvalidInput marks a precondition violation: a scored series contained
// a non-positive or non-finite close, which indicates corrupt upstream data.
var ErrInvalidInput = errors.New("invalid close-price input")

// Evaluate computes the signal for an ordered close-price series.
// Fewer than 13 points is always HOLD. Otherwise UP when momentum is
// positive or the last close sits above SMA(12), else DOWN. Zero momentum
// is not positive and falls through to the SMA comparison.
func Evaluate(closes []float64) (model.Signal, error) {
	if len(closes) < minPoints {
		return model.SignalHold, nil
	}
	for i, c := range closes {
		if math.IsNaN(c) || math.IsInf(c, 0) || c <= 0 {
			return "", fmt.Errorf("close[%d] = %v: %w", i, c, ErrInvalidInput)
		}
	}

	momentum, err := calculator.Momentum(closes)
	if err != nil {
		return "", fmt.Errorf("momentum: %v: %w", err, ErrInvalidInput)
	}
	sma, err := calculator.SMA(closes, smaWindow)
	if err != nil {
		return "", fmt.Errorf("sma: %v: %w", err, ErrInvalidInput)
	}

	last := closes[len(closes)-1]
	if momentum > 0 || last > sma {
		return model.SignalUp, nil
	}
	return model.SignalDown, nil
}
