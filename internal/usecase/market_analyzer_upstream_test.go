package usecase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"SmartTrade/internal/service/alphavantage"
	"SmartTrade/internal/service/coingecko"
	"SmartTrade/internal/service/openrouter"
	"SmartTrade/pkg/metrics"
)

func tooManyRequests() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
}

func TestAnalyzeWithRateLimitedMarketsAndSlowRecommender(t *testing.T) {
	cgSrv := tooManyRequests()
	defer cgSrv.Close()
	avSrv := tooManyRequests()
	defer avSrv.Close()

	release := make(chan struct{})
	orSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer orSrv.Close()
	defer close(release)

	cg := coingecko.New(coingecko.Config{BaseURL: cgSrv.URL, MinInterval: time.Millisecond}, nil, metrics.Nop{}, nil)
	av, err := alphavantage.New(alphavantage.Config{BaseURL: avSrv.URL, APIKey: "k", Symbols: []string{"AAPL"}},
		nil, metrics.Nop{}, nil)
	if err != nil {
		t.Fatalf("alphavantage client: %v", err)
	}
	or, err := openrouter.New(openrouter.Config{BaseURL: orSrv.URL, APIKey: "k", Timeout: 20 * time.Millisecond},
		metrics.Nop{}, nil)
	if err != nil {
		t.Fatalf("openrouter client: %v", err)
	}

	res, err := NewMarketAnalyzer(cg, av, or).Analyze(context.Background(), analyzeReq)
	if err != nil {
		t.Fatalf("degraded upstreams must not fail analyze: %v", err)
	}
	if len(res.Crypto) != 2 || len(res.Stocks) != 2 {
		t.Fatalf("expected 2 crypto and 2 stock fallback picks, got %d/%d", len(res.Crypto), len(res.Stocks))
	}
	for _, r := range append(res.Crypto, res.Stocks...) {
		if r.Score < 0 || r.Score > 100 {
			t.Fatalf("score out of range for %s: %d", r.Symbol, r.Score)
		}
	}
}
