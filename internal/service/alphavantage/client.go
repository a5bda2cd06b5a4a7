package alphavantage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"SmartTrade/internal/domain/models"
	"SmartTrade/internal/domain/repository"
	"SmartTrade/internal/service/cache"
	xhttp "SmartTrade/pkg/http"
	applogger "SmartTrade/pkg/logger"
	"SmartTrade/pkg/util"

	"golang.org/x/time/rate"
)

const (
	source = "alphavantage"

	keyTopStocks   = "top_stocks"
	keyMarketStats = "market_stats"
)

var (
	ErrMissingAPIKey = errors.New("alpha vantage API key is required")
	ErrRateLimited   = errors.New("alpha vantage: API rate limit exceeded")
	ErrInvalidFormat = errors.New("alpha vantage: invalid response format")
)

var defaultSymbols = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "NVDA", "META", "NFLX"}

type Config struct {
	BaseURL   string
	APIKey    string
	Symbols   []string
	Benchmark string
	// QuoteTimeout bounds each GLOBAL_QUOTE call.
	QuoteTimeout time.Duration
	// RequestInterval spaces symbol fetches unless FailFast is set.
	RequestInterval time.Duration
	// FailFast stops iterating symbols on the first failure.
	FailFast bool
	Timeout  time.Duration
	CacheTTL time.Duration
}

// Client reads equity quotes from Alpha Vantage, one GLOBAL_QUOTE per symbol.
type Client struct {
	cfg     Config
	http    *xhttp.Client
	limiter *rate.Limiter
	cache   cache.BytesCache
	metrics repository.Metrics
	logger  *applogger.Logger
}

func New(cfg Config, c cache.BytesCache, m repository.Metrics, l *applogger.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.alphavantage.co/query"
	}
	if len(cfg.Symbols) == 0 {
		cfg.Symbols = defaultSymbols
	}
	if cfg.Benchmark == "" {
		cfg.Benchmark = "SPY"
	}
	if cfg.QuoteTimeout <= 0 {
		cfg.QuoteTimeout = 5 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	limit := rate.Inf
	if cfg.RequestInterval > 0 && !cfg.FailFast {
		limit = rate.Every(cfg.RequestInterval)
	}
	if c == nil {
		c = cache.NewTTLCache()
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &Client{
		cfg:     cfg,
		http:    xhttp.NewClient(xhttp.WithTimeout(cfg.Timeout)),
		limiter: rate.NewLimiter(limit, 1),
		cache:   c,
		metrics: m,
		logger:  l.With(source),
	}, nil
}

type quoteResponse struct {
	GlobalQuote  *globalQuote `json:"Global Quote"`
	Note         string       `json:"Note"`
	Information  string       `json:"Information"`
	ErrorMessage string       `json:"Error Message"`
}

type globalQuote struct {
	Symbol        string `json:"01. symbol"`
	Open          string `json:"02. open"`
	High          string `json:"03. high"`
	Low           string `json:"04. low"`
	Price         string `json:"05. price"`
	Volume        string `json:"06. volume"`
	PreviousClose string `json:"08. previous close"`
	Change        string `json:"09. change"`
	ChangePercent string `json:"10. change percent"`
}

// TopStocks fetches the configured symbols one by one. Per-symbol failures are
// logged; if nothing could be fetched the static fallback list is returned.
// It never returns an error.
func (c *Client) TopStocks(ctx context.Context) ([]models.Quote, error) {
	var cached []models.Quote
	ok, err := cache.GetJSON(ctx, c.cache, cache.Key(source, keyTopStocks), &cached)
	if err != nil {
		c.logger.Warn("cache read failed", applogger.String("key", keyTopStocks), applogger.Error(err))
	}
	c.recordCache(keyTopStocks, ok)
	if ok {
		return cached, nil
	}

	quotes := make([]models.Quote, 0, len(c.cfg.Symbols))
	stopped := false
	for _, sym := range c.cfg.Symbols {
		if err := c.limiter.Wait(ctx); err != nil {
			c.logger.Warn("stopped fetching stocks", applogger.Error(err))
			stopped = true
			break
		}
		q, err := c.raceQuote(ctx, sym)
		if err != nil {
			c.logger.Warn("failed to fetch quote", applogger.String("symbol", sym), applogger.Error(err))
			if c.cfg.FailFast {
				break
			}
			continue
		}
		quotes = append(quotes, q)
	}

	if len(quotes) == 0 {
		c.logger.Warn("no stock quotes fetched, serving fallback data")
		c.recordFallback("static")
		return fallbackTopStocks(), nil
	}

	// A cancelled or expiring context leaves a partial list; serve it but don't cache it.
	if stopped || ctx.Err() != nil {
		return quotes, nil
	}
	if err := cache.SetJSON(ctx, c.cache, cache.Key(source, keyTopStocks), quotes, c.cfg.CacheTTL); err != nil {
		c.logger.Warn("cache write failed", applogger.String("key", keyTopStocks), applogger.Error(err))
	}
	return quotes, nil
}

// MarketStats maps the benchmark quote into market stats. On failure it returns
// zeroed stats for the benchmark and no error.
func (c *Client) MarketStats(ctx context.Context) (models.EquityMarketStats, error) {
	var stats models.EquityMarketStats
	ok, err := cache.GetJSON(ctx, c.cache, cache.Key(source, keyMarketStats), &stats)
	if err != nil {
		c.logger.Warn("cache read failed", applogger.String("key", keyMarketStats), applogger.Error(err))
	}
	c.recordCache(keyMarketStats, ok)
	if ok {
		return stats, nil
	}

	q, err := c.raceQuote(ctx, c.cfg.Benchmark)
	if err != nil {
		c.logger.Warn("benchmark quote failed, using defaults",
			applogger.String("symbol", c.cfg.Benchmark), applogger.Error(err))
		c.recordFallback("zeroed")
		return models.EquityMarketStats{BenchmarkSymbol: c.cfg.Benchmark}, nil
	}

	stats = models.EquityMarketStats{
		BenchmarkSymbol:  q.Symbol,
		BenchmarkPrice:   q.Price,
		ChangePercentage: q.ChangePercent,
		Volume:           q.Volume,
	}
	if err := cache.SetJSON(ctx, c.cache, cache.Key(source, keyMarketStats), stats, c.cfg.CacheTTL); err != nil {
		c.logger.Warn("cache write failed", applogger.String("key", keyMarketStats), applogger.Error(err))
	}
	return stats, nil
}

// raceQuote races one quote fetch against QuoteTimeout. A late response is discarded.
func (c *Client) raceQuote(ctx context.Context, symbol string) (models.Quote, error) {
	start := time.Now()
	q, err := util.RaceTimeout(ctx, c.cfg.QuoteTimeout, func(ctx context.Context) (models.Quote, error) {
		return c.quote(ctx, symbol)
	})
	if c.metrics != nil {
		c.metrics.RecordUpstreamCall(source, "global_quote", time.Since(start).Seconds(), err)
	}
	return q, err
}

func (c *Client) quote(ctx context.Context, symbol string) (models.Quote, error) {
	var resp quoteResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.cfg.BaseURL,
		QueryParams: map[string][]string{
			"function": {"GLOBAL_QUOTE"},
			"symbol":   {symbol},
			"apikey":   {c.cfg.APIKey},
		},
	}, &resp)
	if err != nil {
		var se *xhttp.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusTooManyRequests {
			return models.Quote{}, fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
		return models.Quote{}, fmt.Errorf("quote %s: %w", symbol, err)
	}

	switch {
	case resp.ErrorMessage != "":
		return models.Quote{}, fmt.Errorf("quote %s: %s", symbol, resp.ErrorMessage)
	case resp.Note != "" || resp.Information != "":
		return models.Quote{}, fmt.Errorf("quote %s: %w", symbol, ErrRateLimited)
	case resp.GlobalQuote == nil || resp.GlobalQuote.Symbol == "":
		return models.Quote{}, fmt.Errorf("quote %s: %w", symbol, ErrInvalidFormat)
	}
	return resp.GlobalQuote.toQuote(), nil
}

func (g *globalQuote) toQuote() models.Quote {
	sym := strings.ToUpper(g.Symbol)
	return models.Quote{
		Symbol:        sym,
		Name:          CompanyName(sym),
		Price:         util.ParseFloatDefault(g.Price, 0),
		Change:        util.ParseFloatDefault(g.Change, 0),
		ChangePercent: util.ParsePercent(g.ChangePercent),
		Volume:        float64(util.ParseIntDefault(g.Volume, 0)),
		Open:          util.ParseFloatDefault(g.Open, 0),
		High:          util.ParseFloatDefault(g.High, 0),
		Low:           util.ParseFloatDefault(g.Low, 0),
		PreviousClose: util.ParseFloatDefault(g.PreviousClose, 0),
	}
}

func (c *Client) recordCache(key string, hit bool) {
	if c.metrics != nil {
		c.metrics.RecordCache(source, key, hit)
	}
}

func (c *Client) recordFallback(reason string) {
	if c.metrics != nil {
		c.metrics.RecordFallback(source, reason)
	}
}
