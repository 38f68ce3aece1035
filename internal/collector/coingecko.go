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

const coinGeckoBaseURL = "https://api.coingecko.com"

// CoinGeckoFetcher implements Fetcher using the CoinGecko market_chart API.
// CoinGecko returns prices as [timestamp_ms, price] pairs and picks hourly
// granularity automatically for lookbacks between 2 and 90 days.
type CoinGeckoFetcher struct {
	BaseURL string
	Client  *http.Client
	IDMap   map[string]string // maps internal ticker to CoinGecko coin id
}

// NewCoinGeckoFetcher creates a new CoinGecko fetcher.
func NewCoinGeckoFetcher(proxyURL string) *CoinGeckoFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &CoinGeckoFetcher{
		BaseURL: coinGeckoBaseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		IDMap: map[string]string{
			"BTC-USD": "bitcoin",
			"ETH-USD": "ethereum",
			"SOL-USD": "solana",
		},
	}
}

func (f *CoinGeckoFetcher) Name() string { return "coingecko" }

func (f *CoinGeckoFetcher) coinID(ticker string) string {
	if id, ok := f.IDMap[ticker]; ok {
		return id
	}
	// Fallback: "XYZ-USD" -> "xyz"
	base, _, _ := strings.Cut(ticker, "-")
	return strings.ToLower(base)
}

func (f *CoinGeckoFetcher) vsCurrency(ticker string) string {
	if _, quote, ok := strings.Cut(ticker, "-"); ok && quote != "" {
		return strings.ToLower(quote)
	}
	return "usd"
}

// geckoChart is the market_chart response; Prices entries are
// [timestamp_ms, price] pairs.
type geckoChart struct {
	Prices [][]float64 `json:"prices"`
}

// Fetch retrieves the close series for one ticker. The interval argument is
// not sent upstream: granularity is implied by the day count.
func (f *CoinGeckoFetcher) Fetch(ticker, period, interval string) ([]model.PricePoint, error) {
	days, err := periodDays(period)
	if err != nil {
		return nil, fmt.Errorf("coingecko: %w", err)
	}
	u := fmt.Sprintf("%s/api/v3/coins/%s/market_chart?vs_currency=%s&days=%d",
		f.BaseURL, url.PathEscape(f.coinID(ticker)), url.QueryEscape(f.vsCurrency(ticker)), days)

	resp, err := f.Client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("coingecko fetch %s: %v: %w", ticker, err, ErrRequest)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("coingecko: status %d, body: %s: %w", resp.StatusCode, string(body), ErrRequest)
	}

	var chart geckoChart
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("coingecko decode: %v: %w", err, ErrBadShape)
	}
	if chart.Prices == nil {
		return nil, fmt.Errorf("coingecko %s: no prices field: %w", ticker, ErrBadShape)
	}
	if len(chart.Prices) == 0 {
		return nil, fmt.Errorf("coingecko %s: %w", ticker, ErrEmpty)
	}

	points := make([]model.PricePoint, 0, len(chart.Prices))
	for _, pair := range chart.Prices {
		if len(pair) != 2 {
			return nil, fmt.Errorf("coingecko %s: malformed price pair: %w", ticker, ErrBadShape)
		}
		points = append(points, model.PricePoint{Time: unixAuto(int64(pair[0])), Close: pair[1]})
	}
	series, err := normalize(points)
	if err != nil {
		return nil, fmt.Errorf("coingecko %s: %w", ticker, err)
	}
	return series, nil
}
