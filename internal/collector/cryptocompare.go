package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"PricePulse/internal/model"
)

const cryptoCompareBaseURL = "https://min-api.cryptocompare.com"

// CryptoCompareFetcher implements Fetcher using the CryptoCompare histohour
// API. Records are objects with epoch-second timestamps keyed either "time"
// or "timestamp" depending on endpoint version.
type CryptoCompareFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewCryptoCompareFetcher creates a new fetcher with optional API key and proxy.
func NewCryptoCompareFetcher(apiKey, proxyURL string) *CryptoCompareFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &CryptoCompareFetcher{
		BaseURL: cryptoCompareBaseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *CryptoCompareFetcher) Name() string { return "cryptocompare" }

// splitPair maps "BTC-USD" to fsym "BTC", tsym "USD".
func splitPair(ticker string) (string, string) {
	base, quote, ok := strings.Cut(ticker, "-")
	if !ok || quote == "" {
		return strings.ToUpper(ticker), "USD"
	}
	return strings.ToUpper(base), strings.ToUpper(quote)
}

type ccBar struct {
	Time      int64    `json:"time"`
	Timestamp int64    `json:"timestamp"`
	Close     *float64 `json:"close"`
}

func (b ccBar) epoch() int64 {
	if b.Time != 0 {
		return b.Time
	}
	return b.Timestamp
}

type ccResponse struct {
	Response string `json:"Response"`
	Message  string `json:"Message"`
	Data     struct {
		Data []ccBar `json:"Data"`
	} `json:"Data"`
}

// Fetch retrieves the hourly close series for one ticker. The lookback
// period is converted to an hour limit; interval must be hour-based.
func (f *CryptoCompareFetcher) Fetch(ticker, period, interval string) ([]model.PricePoint, error) {
	hours, err := periodHours(period)
	if err != nil {
		return nil, fmt.Errorf("cryptocompare: %w", err)
	}
	fsym, tsym := splitPair(ticker)
	u := fmt.Sprintf("%s/data/v2/histohour?fsym=%s&tsym=%s&limit=%d",
		f.BaseURL, url.QueryEscape(fsym), url.QueryEscape(tsym), hours)

	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return nil, fmt.Errorf("cryptocompare request: %w", err)
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Apikey "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cryptocompare fetch %s: %v: %w", ticker, err, ErrRequest)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("cryptocompare: status %d, body: %s: %w", resp.StatusCode, string(body), ErrRequest)
	}

	var cc ccResponse
	if err := json.NewDecoder(resp.Body).Decode(&cc); err != nil {
		return nil, fmt.Errorf("cryptocompare decode: %v: %w", err, ErrBadShape)
	}
	if cc.Response == "Error" {
		return nil, fmt.Errorf("cryptocompare api error: %s: %w", cc.Message, ErrRequest)
	}
	if len(cc.Data.Data) == 0 {
		return nil, fmt.Errorf("cryptocompare %s: %w", ticker, ErrEmpty)
	}

	points := make([]model.PricePoint, 0, len(cc.Data.Data))
	sawTimestamp, sawClose := false, false
	for _, bar := range cc.Data.Data {
		if bar.epoch() == 0 {
			continue
		}
		sawTimestamp = true
		if bar.Close == nil {
			continue
		}
		sawClose = true
		points = append(points, model.PricePoint{Time: unixAuto(bar.epoch()), Close: *bar.Close})
	}
	if !sawTimestamp {
		return nil, fmt.Errorf("cryptocompare %s: no time or timestamp field: %w", ticker, ErrBadShape)
	}
	if !sawClose {
		return nil, fmt.Errorf("cryptocompare %s: no close field: %w", ticker, ErrBadShape)
	}
	series, err := normalize(points)
	if err != nil {
		return nil, fmt.Errorf("cryptocompare %s: %w", ticker, err)
	}
	return series, nil
}
