package calculator

import "errors"

// SMA computes the simple moving average of the last period prices.
func SMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// Momentum returns the relative change between the two most recent prices.
func Momentum(prices []float64) (float64, error) {
	if len(prices) < 2 {
		return 0, errors.New("not enough data for momentum calculation")
	}
	prev := prices[len(prices)-2]
	if prev == 0 {
		return 0, errors.New("zero previous price")
	}
	return prices[len(prices)-1]/prev - 1, nil
}
