package coingecko

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"SmartTrade/internal/service/cache"
	"SmartTrade/pkg/metrics"
)

const marketsBody = `[
 {"id":"bitcoin","symbol":"btc","name":"Bitcoin","current_price":67842.5,"market_cap":1340000000000,
  "price_change_percentage_24h":2.1,"price_change_percentage_7d_in_currency":5.5,"total_volume":31000000000,
  "high_24h":68200,"low_24h":66100,"ath":73000},
 {"id":"ethereum","symbol":"eth","name":"Ethereum","current_price":3500,"market_cap":420000000000,
  "price_change_percentage_24h":null,"total_volume":15000000000,"high_24h":3550,"low_24h":3400}
]`

func newTestClient(t *testing.T, url, key string, c cache.BytesCache) *Client {
	t.Helper()
	return New(Config{BaseURL: url, APIKey: key, MinInterval: time.Millisecond}, c, metrics.Nop{}, nil)
}

func TestTopCryptosNormalizesAndCaches(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/coins/markets" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("per_page") != "20" || q.Get("price_change_percentage") != "1h,24h,7d" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(marketsBody))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "", nil)
	quotes, err := c.TopCryptos(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(quotes) != 2 {
		t.Fatalf("expected 2 quotes, got %d", len(quotes))
	}
	if quotes[0].Symbol != "BTC" || quotes[0].Price != 67842.5 || quotes[0].ChangePercent7 != 5.5 {
		t.Fatalf("unexpected first quote %+v", quotes[0])
	}
	if quotes[1].Symbol != "ETH" || quotes[1].ChangePercent != 0 {
		t.Fatalf("unexpected second quote %+v", quotes[1])
	}

	if _, err := c.TopCryptos(context.Background()); err != nil {
		t.Fatalf("unexpected error on cached call: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected a single upstream call, got %d", got)
	}
}

func TestTopCryptosRateLimitedWithoutCacheReturnsFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	quotes, err := newTestClient(t, srv.URL, "", nil).TopCryptos(context.Background())
	if err != nil {
		t.Fatalf("expected fallback, got error %v", err)
	}
	if len(quotes) != 8 || quotes[0].Symbol != "BTC" || quotes[7].Symbol != "ADA" {
		t.Fatalf("unexpected fallback %+v", quotes)
	}
}

func TestTopCryptosRateLimitedServesStaleCopy(t *testing.T) {
	var limited atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if limited.Load() {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(marketsBody))
	}))
	defer srv.Close()

	now := time.Unix(1_700_000_000, 0)
	store := cache.NewTTLCache().WithClock(func() time.Time { return now })
	c := newTestClient(t, srv.URL, "", store)

	if _, err := c.TopCryptos(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now = now.Add(2 * time.Minute)
	limited.Store(true)

	quotes, err := c.TopCryptos(context.Background())
	if err != nil {
		t.Fatalf("expected stale copy, got %v", err)
	}
	if len(quotes) != 2 || quotes[0].Symbol != "BTC" {
		t.Fatalf("expected stale live data, got %+v", quotes)
	}
}

func TestRejectedKeyRetriesOnceWithoutKey(t *testing.T) {
	var withKey, withoutKey int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(apiKeyHdr) != "" {
			atomic.AddInt32(&withKey, 1)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		atomic.AddInt32(&withoutKey, 1)
		_, _ = w.Write([]byte(`{"data":{"total_market_cap":{"usd":2.5e12},"total_volume":{"usd":9e10},
			"market_cap_change_percentage_24h_usd":4.0,"active_cryptocurrencies":13000}}`))
	}))
	defer srv.Close()

	stats, err := newTestClient(t, srv.URL, "demo-key", nil).MarketStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if atomic.LoadInt32(&withKey) != 1 || atomic.LoadInt32(&withoutKey) != 1 {
		t.Fatalf("expected one keyed and one keyless call, got %d/%d", withKey, withoutKey)
	}
	if stats.TotalMarketCap != 2.5e12 || stats.MarketCapChangePct24h != 4.0 || stats.ActiveCryptocurrencies != 13000 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestServerErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := newTestClient(t, srv.URL, "", nil).MarketStats(context.Background()); err == nil {
		t.Fatalf("expected error for 502")
	}
}

func TestServerErrorMentioning429IsNotRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream node 429 unreachable"))
	}))
	defer srv.Close()

	coins, err := newTestClient(t, srv.URL, "", nil).TopCryptos(context.Background())
	if err == nil {
		t.Fatalf("expected 502 to propagate, got %d fallback coins", len(coins))
	}
}

func TestIsRateLimited(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{fmt.Errorf("fetch: %w", ErrRateLimited), true},
		{errors.New("Too Many Requests"), true},
		{errors.New("rate limit exceeded"), true},
		{errors.New("GET /coins/markets?page=429: bad gateway"), false},
		{errors.New("unexpected status 502 Bad Gateway: took 4290ms"), false},
	}
	for _, c := range cases {
		if got := isRateLimited(c.err); got != c.want {
			t.Fatalf("isRateLimited(%q) = %v, want %v", c.err, got, c.want)
		}
	}
}

func TestRequestsAreSpaced(t *testing.T) {
	var last atomic.Int64
	var minGap atomic.Int64
	minGap.Store(int64(time.Hour))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UnixNano()
		if prev := last.Swap(now); prev != 0 && now-prev < minGap.Load() {
			minGap.Store(now - prev)
		}
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, MinInterval: 50 * time.Millisecond, CacheTTL: time.Nanosecond}, nil, nil, nil)
	for i := 0; i < 3; i++ {
		if _, err := c.MarketStats(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		time.Sleep(time.Millisecond)
	}
	if gap := time.Duration(minGap.Load()); gap < 40*time.Millisecond {
		t.Fatalf("requests not spaced, min gap %v", gap)
	}
}
