package coingecko

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"SmartTrade/internal/domain/models"
	"SmartTrade/internal/domain/repository"
	"SmartTrade/internal/service/cache"
	xhttp "SmartTrade/pkg/http"
	applogger "SmartTrade/pkg/logger"

	"golang.org/x/time/rate"
)

const (
	source    = "coingecko"
	apiKeyHdr = "x-cg-demo-api-key"

	keyTopCryptos  = "top_cryptos"
	keyMarketStats = "market_stats"
)

// ErrRateLimited marks an upstream 429.
var ErrRateLimited = errors.New("coingecko: rate limited")

type Config struct {
	BaseURL     string
	APIKey      string
	PerPage     int
	MinInterval time.Duration
	Timeout     time.Duration
	CacheTTL    time.Duration
}

// Client reads CoinGecko market data. Fresh results are cached for CacheTTL and a
// stale copy is kept without expiry to answer while the API is rate limiting us.
type Client struct {
	cfg     Config
	http    *xhttp.Client
	limiter *rate.Limiter
	cache   cache.BytesCache
	metrics repository.Metrics
	logger  *applogger.Logger
}

func New(cfg Config, c cache.BytesCache, m repository.Metrics, l *applogger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if cfg.PerPage <= 0 {
		cfg.PerPage = 20
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
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
	}
}

type marketCoin struct {
	ID                    string  `json:"id"`
	Symbol                string  `json:"symbol"`
	Name                  string  `json:"name"`
	CurrentPrice          float64 `json:"current_price"`
	MarketCap             float64 `json:"market_cap"`
	PriceChangePct24h     float64 `json:"price_change_percentage_24h"`
	PriceChangePct7dInCur float64 `json:"price_change_percentage_7d_in_currency"`
	TotalVolume           float64 `json:"total_volume"`
	High24h               float64 `json:"high_24h"`
	Low24h                float64 `json:"low_24h"`
}

type globalResponse struct {
	Data struct {
		TotalMarketCap         map[string]float64 `json:"total_market_cap"`
		TotalVolume            map[string]float64 `json:"total_volume"`
		MarketCapChangePct24h  float64            `json:"market_cap_change_percentage_24h_usd"`
		ActiveCryptocurrencies int                `json:"active_cryptocurrencies"`
	} `json:"data"`
}

// TopCryptos returns the top coins by market cap.
func (c *Client) TopCryptos(ctx context.Context) ([]models.Quote, error) {
	quotes, err := fetchCached(ctx, c, keyTopCryptos, fallbackTopCryptos, func(ctx context.Context) ([]models.Quote, error) {
		var coins []marketCoin
		err := c.get(ctx, "/coins/markets", map[string][]string{
			"vs_currency":             {"usd"},
			"order":                   {"market_cap_desc"},
			"per_page":                {strconv.Itoa(c.cfg.PerPage)},
			"page":                    {"1"},
			"sparkline":               {"false"},
			"price_change_percentage": {"1h,24h,7d"},
		}, &coins)
		if err != nil {
			return nil, err
		}
		out := make([]models.Quote, 0, len(coins))
		for _, coin := range coins {
			out = append(out, coin.toQuote())
		}
		return out, nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch crypto data: %w", err)
	}
	return quotes, nil
}

// MarketStats returns global crypto market figures.
func (c *Client) MarketStats(ctx context.Context) (models.CryptoMarketStats, error) {
	stats, err := fetchCached(ctx, c, keyMarketStats, fallbackMarketStats, func(ctx context.Context) (models.CryptoMarketStats, error) {
		var g globalResponse
		if err := c.get(ctx, "/global", nil, &g); err != nil {
			return models.CryptoMarketStats{}, err
		}
		return models.CryptoMarketStats{
			TotalMarketCap:         g.Data.TotalMarketCap["usd"],
			TotalVolume:            g.Data.TotalVolume["usd"],
			MarketCapChangePct24h:  g.Data.MarketCapChangePct24h,
			ActiveCryptocurrencies: g.Data.ActiveCryptocurrencies,
		}, nil
	})
	if err != nil {
		return models.CryptoMarketStats{}, fmt.Errorf("fetch crypto market stats: %w", err)
	}
	return stats, nil
}

// fetchCached serves key from the fresh cache, else calls fetch. On a rate-limit
// failure it answers from the stale copy, else from the static fallback.
func fetchCached[T any](ctx context.Context, c *Client, key string, fallback func() T, fetch func(context.Context) (T, error)) (T, error) {
	var out T
	ok, err := cache.GetJSON(ctx, c.cache, cache.Key(source, key), &out)
	if err != nil {
		c.logger.Warn("cache read failed", applogger.String("key", key), applogger.Error(err))
	}
	c.recordCache(key, ok)
	if ok {
		return out, nil
	}

	start := time.Now()
	out, err = fetch(ctx)
	if c.metrics != nil {
		c.metrics.RecordUpstreamCall(source, key, time.Since(start).Seconds(), err)
	}
	if err == nil {
		c.store(ctx, key, out)
		return out, nil
	}

	var zero T
	if !isRateLimited(err) {
		return zero, err
	}

	var stale T
	if ok, _ := cache.GetJSON(ctx, c.cache, cache.Key(source, "stale", key), &stale); ok {
		c.logger.Warn("rate limited, serving cached data", applogger.String("key", key))
		c.recordFallback("stale")
		return stale, nil
	}
	c.logger.Warn("rate limited, serving fallback data", applogger.String("key", key))
	c.recordFallback("static")
	return fallback(), nil
}

func (c *Client) store(ctx context.Context, key string, v interface{}) {
	if err := cache.SetJSON(ctx, c.cache, cache.Key(source, key), v, c.cfg.CacheTTL); err != nil {
		c.logger.Warn("cache write failed", applogger.String("key", key), applogger.Error(err))
		return
	}
	if err := cache.SetJSON(ctx, c.cache, cache.Key(source, "stale", key), v, 0); err != nil {
		c.logger.Warn("stale cache write failed", applogger.String("key", key), applogger.Error(err))
	}
}

// get performs one spaced GET. With an API key configured, a 401/403 is retried
// exactly once without the key header.
func (c *Client) get(ctx context.Context, path string, query map[string][]string, dest interface{}) error {
	opts := &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         strings.TrimRight(c.cfg.BaseURL, "/") + path,
		QueryParams: query,
		Headers:     map[string]string{},
	}
	if c.cfg.APIKey != "" {
		opts.Headers[apiKeyHdr] = c.cfg.APIKey
	}

	err := c.send(ctx, opts, dest)
	var se *xhttp.StatusError
	if c.cfg.APIKey != "" && errors.As(err, &se) &&
		(se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden) {
		c.logger.Warn("api key rejected, retrying without key", applogger.Int("status", se.StatusCode))
		delete(opts.Headers, apiKeyHdr)
		err = c.send(ctx, opts, dest)
	}

	if errors.As(err, &se) && se.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	return err
}

func (c *Client) send(ctx context.Context, opts *xhttp.RequestOptions, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("wait for request slot: %w", err)
	}
	return c.http.SendAndParse(ctx, opts, dest)
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

func isRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests")
}

func (m marketCoin) toQuote() models.Quote {
	return models.Quote{
		Symbol:         strings.ToUpper(m.Symbol),
		Name:           m.Name,
		Price:          m.CurrentPrice,
		ChangePercent:  m.PriceChangePct24h,
		ChangePercent7: m.PriceChangePct7dInCur,
		Volume:         m.TotalVolume,
		MarketCap:      m.MarketCap,
		High:           m.High24h,
		Low:            m.Low24h,
	}
}
