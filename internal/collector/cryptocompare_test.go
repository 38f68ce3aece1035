package collector

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newCCTestFetcher(handler http.HandlerFunc) (*CryptoCompareFetcher, *httptest.Server) {
	srv := httptest.NewServer(handler)
	f := NewCryptoCompareFetcher("", "")
	f.BaseURL = srv.URL
	return f, srv
}

func TestCryptoCompareFetch_TimeField(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	body := fmt.Sprintf(`{"Response":"Success","Data":{"Data":[
		{"time":%d,"close":100.5},
		{"time":%d,"close":101.25}
	]}}`, t0.Unix(), t0.Add(time.Hour).Unix())

	f, srv := newCCTestFetcher(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("fsym") != "BTC" || q.Get("tsym") != "USD" {
			t.Errorf("unexpected pair: fsym=%q tsym=%q", q.Get("fsym"), q.Get("tsym"))
		}
		if q.Get("limit") != "168" {
			t.Errorf("expected limit=168 for 7d, got %q", q.Get("limit"))
		}
		fmt.Fprint(w, body)
	})
	defer srv.Close()

	series, err := f.Fetch("BTC-USD", "7d", "1h")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("expected 2 points, got %d", len(series))
	}
	if !series[0].Time.Equal(t0) {
		t.Errorf("expected epoch-second decode, got %v", series[0].Time)
	}
}

func TestCryptoCompareFetch_TimestampFieldVariant(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	f, srv := newCCTestFetcher(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"Response":"Success","Data":{"Data":[{"timestamp":%d,"close":99.5}]}}`, t0.Unix())
	})
	defer srv.Close()

	series, err := f.Fetch("ETH-USD", "7d", "1h")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 1 || !series[0].Time.Equal(t0) {
		t.Fatalf("expected timestamp field to be recognized, got %+v", series)
	}
}

func TestCryptoCompareFetch_MissingCloseField(t *testing.T) {
	f, srv := newCCTestFetcher(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"Response":"Success","Data":{"Data":[{"time":%d,"high":100}]}}`, time.Now().Unix())
	})
	defer srv.Close()

	if _, err := f.Fetch("BTC-USD", "7d", "1h"); !errors.Is(err, ErrBadShape) {
		t.Fatalf("expected ErrBadShape, got %v", err)
	}
}

func TestCryptoCompareFetch_MissingTimestamps(t *testing.T) {
	f, srv := newCCTestFetcher(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Response":"Success","Data":{"Data":[{"close":100.0}]}}`)
	})
	defer srv.Close()

	if _, err := f.Fetch("BTC-USD", "7d", "1h"); !errors.Is(err, ErrBadShape) {
		t.Fatalf("expected ErrBadShape, got %v", err)
	}
}

func TestCryptoCompareFetch_APIError(t *testing.T) {
	f, srv := newCCTestFetcher(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Response":"Error","Message":"limit is larger than max value."}`)
	})
	defer srv.Close()

	if _, err := f.Fetch("BTC-USD", "7d", "1h"); !errors.Is(err, ErrRequest) {
		t.Fatalf("expected ErrRequest, got %v", err)
	}
}

func TestCryptoCompareFetch_EmptyData(t *testing.T) {
	f, srv := newCCTestFetcher(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"Response":"Success","Data":{"Data":[]}}`)
	})
	defer srv.Close()

	if _, err := f.Fetch("BTC-USD", "7d", "1h"); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestSplitPair(t *testing.T) {
	cases := []struct {
		in, fsym, tsym string
	}{
		{"BTC-USD", "BTC", "USD"},
		{"eth-eur", "ETH", "EUR"},
		{"SOL", "SOL", "USD"},
	}
	for _, c := range cases {
		fsym, tsym := splitPair(c.in)
		if fsym != c.fsym || tsym != c.tsym {
			t.Errorf("%q: expected %s/%s, got %s/%s", c.in, c.fsym, c.tsym, fsym, tsym)
		}
	}
}
