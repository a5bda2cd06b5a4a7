package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"SmartTrade/internal/domain/models"
	"SmartTrade/pkg/metrics"
)

func completion(content string) string {
	b, _ := json.Marshal(map[string]interface{}{
		"id":      "gen-1",
		"object":  "chat.completion",
		"created": 1720000000,
		"model":   "openai/gpt-4o",
		"choices": []map[string]interface{}{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]string{"role": "assistant", "content": content},
		}},
	})
	return string(b)
}

func newTestClient(t *testing.T, url string, timeout time.Duration) *Client {
	t.Helper()
	c, err := New(Config{
		BaseURL:     url,
		APIKey:      "sk-test",
		Temperature: 0.3,
		Timeout:     timeout,
		Referer:     "app.example.dev",
	}, metrics.Nop{}, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

var testContext = models.MarketContext{
	Crypto:    []models.Quote{{Symbol: "BTC", Name: "Bitcoin", Price: 67842.5}},
	Stocks:    []models.Quote{{Symbol: "AAPL", Name: "Apple Inc.", Price: 189.98}},
	Timeframe: "1D",
	RiskLevel: "medium",
	UserQuery: "best swing trades this week",
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(Config{}, nil, nil); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestRecommendationsSendsRequestAndCoerces(t *testing.T) {
	content := `{"recommendations":[
		{"symbol":"sol","name":"Solana","type":"crypto","currentPrice":"165.5","targetPrice":180,"stopLoss":158,
		 "entry":164,"exit":180,"trend":"bearish","projectedReturn":"8.7","explanation":"Breakout","volatility":0.2,
		 "marketCap":88000000000},
		{"symbol":"nvda","type":"stock","currentPrice":"n/a","trend":"sideways"},
		"garbage"
	]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", got)
		}
		if r.Header.Get("HTTP-Referer") != "app.example.dev" || r.Header.Get("X-Title") != "SmartTrade AI" {
			t.Errorf("missing attribution headers: %v", r.Header)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body["model"] != "openai/gpt-4o" || body["max_tokens"] != float64(2000) {
			t.Errorf("unexpected model/max_tokens in %v", body)
		}
		if rf, _ := body["response_format"].(map[string]interface{}); rf["type"] != "json_object" {
			t.Errorf("expected json_object response format, got %v", body["response_format"])
		}
		msgs, _ := body["messages"].([]interface{})
		if len(msgs) != 2 {
			t.Errorf("expected system and user messages, got %d", len(msgs))
		} else if user, _ := msgs[1].(map[string]interface{}); !strings.Contains(user["content"].(string), "best swing trades this week") {
			t.Errorf("user query missing from prompt")
		}
		_, _ = w.Write([]byte(completion(content)))
	}))
	defer srv.Close()

	recs, err := newTestClient(t, srv.URL, time.Second).Recommendations(context.Background(), testContext)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}

	sol := recs[0]
	if sol.Symbol != "SOL" || sol.CurrentPrice != 165.5 || sol.ProjectedReturn != 8.7 || sol.Trend != models.TrendBearish {
		t.Fatalf("unexpected SOL %+v", sol)
	}
	if sol.MarketCap != 88e9 || sol.Volatility != 0.2 {
		t.Fatalf("unexpected SOL market cap/volatility %+v", sol)
	}

	nvda := recs[1]
	if nvda.Type != models.AssetStock || nvda.CurrentPrice != 0 || nvda.Trend != "sideways" {
		t.Fatalf("unexpected NVDA %+v", nvda)
	}
	if nvda.Volatility != defaultVolatility || nvda.Explanation != defaultExplanation {
		t.Fatalf("expected defaults on NVDA, got %+v", nvda)
	}
}

func TestRecommendationsInvalidFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(completion(`{"recommendations":{"symbol":"BTC"}}`)))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, time.Second).Recommendations(context.Background(), testContext)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestRecommendationsUnparsableContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(completion(`Sure! Here are my picks:`)))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, time.Second).Recommendations(context.Background(), testContext)
	if err == nil || errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestRecommendationsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream exploded","type":"server_error"}}`))
	}))
	defer srv.Close()

	if _, err := newTestClient(t, srv.URL, time.Second).Recommendations(context.Background(), testContext); err == nil {
		t.Fatalf("expected error for 500")
	}
}

func TestRecommendationsEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"gen-1","object":"chat.completion","choices":[]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, time.Second).Recommendations(context.Background(), testContext)
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestRecommendationsTimeoutReturnsFallback(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	recs, err := newTestClient(t, srv.URL, 20*time.Millisecond).Recommendations(context.Background(), testContext)
	if err != nil {
		t.Fatalf("expected fallback, got %v", err)
	}
	var crypto, stocks int
	for _, r := range recs {
		switch r.Type {
		case models.AssetCrypto:
			crypto++
		case models.AssetStock:
			stocks++
		}
	}
	if crypto != 2 || stocks != 2 {
		t.Fatalf("expected 2 crypto and 2 stock fallbacks, got %d/%d", crypto, stocks)
	}
}

func TestCoerceNumbers(t *testing.T) {
	cases := []struct {
		in   interface{}
		def  float64
		want float64
	}{
		{12.5, 0, 12.5},
		{"12.5", 0, 12.5},
		{" 3 ", 0, 3},
		{"abc", 0, 0},
		{nil, 0.1, 0.1},
		{0.0, 0.1, 0.1},
		{"0", 0.1, 0.1},
		{true, 0, 0},
		{-4.0, 0, -4},
	}
	for _, c := range cases {
		if got := num(c.in, c.def); got != c.want {
			t.Fatalf("num(%v, %v) = %v, want %v", c.in, c.def, got, c.want)
		}
	}
}

func TestCoerceKeepsTrendAsGiven(t *testing.T) {
	cases := map[string]models.Trend{
		`{"recommendations":[{"trend":"neutral"}]}`: "neutral",
		`{"recommendations":[{"trend":"Bullish"}]}`: "Bullish",
		`{"recommendations":[{"trend":"bearish"}]}`: models.TrendBearish,
		`{"recommendations":[{"trend":""}]}`:        models.TrendBullish,
		`{"recommendations":[{"trend":7}]}`:         models.TrendBullish,
		`{"recommendations":[{}]}`:                  models.TrendBullish,
	}
	for content, want := range cases {
		recs, err := parseRecommendations(content)
		if err != nil || len(recs) != 1 {
			t.Fatalf("%s: unexpected result %v %v", content, recs, err)
		}
		if recs[0].Trend != want {
			t.Fatalf("%s: trend %q, want %q", content, recs[0].Trend, want)
		}
	}
}

func TestParseRecommendationsTopLevelShape(t *testing.T) {
	for _, content := range []string{`[]`, `"text"`, `{}`, `{"recommendations":null}`} {
		if _, err := parseRecommendations(content); !errors.Is(err, ErrInvalidFormat) {
			t.Fatalf("content %s: expected ErrInvalidFormat, got %v", content, err)
		}
	}
	recs, err := parseRecommendations(`{"recommendations":[{}]}`)
	if err != nil || len(recs) != 1 {
		t.Fatalf("expected one defaulted entry, got %v %v", recs, err)
	}
	if recs[0].Type != models.AssetCrypto || recs[0].Trend != models.TrendBullish {
		t.Fatalf("unexpected defaults %+v", recs[0])
	}
}
