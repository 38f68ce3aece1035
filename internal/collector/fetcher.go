package collector

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"PricePulse/internal/model"
)

// Fetcher defines the interface for fetching an hourly close-price series
// from one upstream provider. Implementations return the series sorted
// ascending by timestamp with unusable records dropped.
type Fetcher interface {
	Fetch(ticker, period, interval string) ([]model.PricePoint, error)
	Name() string
}

// Upstream failure kinds. Request and empty failures are transient and worth
// retrying; a shape failure means the same malformed response would recur.
var (
	ErrRequest  = errors.New("upstream request failed")
	ErrEmpty    = errors.New("upstream returned no usable data")
	ErrBadShape = errors.New("upstream response missing expected fields")
)

// IsTransient reports whether err is worth retrying against the same upstream.
func IsTransient(err error) bool {
	return errors.Is(err, ErrRequest) || errors.Is(err, ErrEmpty)
}

// normalize drops records with NaN or non-positive closes, sorts ascending by
// timestamp and deduplicates equal timestamps keeping the last record.
// Returns ErrEmpty when nothing usable remains.
func normalize(points []model.PricePoint) ([]model.PricePoint, error) {
	kept := make([]model.PricePoint, 0, len(points))
	for _, p := range points {
		if math.IsNaN(p.Close) || math.IsInf(p.Close, 0) || p.Close <= 0 {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return nil, ErrEmpty
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Time.Before(kept[j].Time) })

	out := kept[:0]
	for _, p := range kept {
		if n := len(out); n > 0 && out[n-1].Time.Equal(p.Time) {
			out[n-1] = p // later record wins on duplicate timestamps
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// unixAuto converts an epoch value that may be in seconds or milliseconds
// into a UTC time. Millisecond epochs for any modern date exceed 1e12.
func unixAuto(ts int64) time.Time {
	if ts > 1e12 {
		return time.UnixMilli(ts).UTC()
	}
	return time.Unix(ts, 0).UTC()
}

// parsePeriod parses a lookback window like "7d", "24h" or "30m".
func parsePeriod(period string) (time.Duration, error) {
	s := strings.TrimSpace(strings.ToLower(period))
	if s == "" {
		return 0, fmt.Errorf("empty period")
	}
	unit := s[len(s)-1]
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid period %q", period)
	}
	switch unit {
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	case 'h':
		return time.Duration(n) * time.Hour, nil
	case 'm':
		return time.Duration(n) * time.Minute, nil
	default:
		return 0, fmt.Errorf("invalid period unit %q", period)
	}
}

// periodDays returns the lookback window rounded up to whole days.
func periodDays(period string) (int, error) {
	d, err := parsePeriod(period)
	if err != nil {
		return 0, err
	}
	return int((d + 24*time.Hour - 1) / (24 * time.Hour)), nil
}

// periodHours returns the lookback window rounded up to whole hours.
func periodHours(period string) (int, error) {
	d, err := parsePeriod(period)
	if err != nil {
		return 0, err
	}
	return int((d + time.Hour - 1) / time.Hour), nil
}
