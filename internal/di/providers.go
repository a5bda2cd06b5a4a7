package di

import (
	"context"
	"fmt"
	"time"

	"SmartTrade/internal/domain/repository"
	"SmartTrade/internal/domain/service"
	"SmartTrade/internal/handler/api"
	internalrepo "SmartTrade/internal/repository"
	"SmartTrade/internal/service/alphavantage"
	"SmartTrade/internal/service/cache"
	"SmartTrade/internal/service/coingecko"
	"SmartTrade/internal/service/openrouter"
	"SmartTrade/internal/service/ratelimit"
	"SmartTrade/internal/usecase"
	"SmartTrade/pkg/config"
	xhttp "SmartTrade/pkg/http"
	pkgkafka "SmartTrade/pkg/kafka"
	applogger "SmartTrade/pkg/logger"
	"SmartTrade/pkg/metrics"
	"SmartTrade/pkg/server"
)

// l1TTL bounds how long a replica trusts its in-process copy of a Redis value.
const l1TTL = 5 * time.Second

// ProvideLogger creates the root application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache returns the in-process TTL cache, fronting Redis when enabled.
func ProvideCache(cfg *config.Config, l *applogger.Logger) (cache.BytesCache, func(), error) {
	mem := cache.NewTTLCache()
	if !cfg.Cache.Redis.Enabled {
		return mem, func() {}, nil
	}

	rc := cache.NewRedisCache(cache.RedisConfig{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   cfg.Cache.Redis.Prefix,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		_ = rc.Close()
		return nil, nil, fmt.Errorf("redis cache: %w", err)
	}
	l.Info("redis cache connected", applogger.String("addr", cfg.Cache.Redis.Addr))

	cleanup := func() {
		if err := rc.Close(); err != nil {
			l.Warn("redis close error", applogger.Error(err))
		}
	}
	return cache.NewLayered(mem, rc, l1TTL), cleanup, nil
}

// ProvideCryptoMarket creates the CoinGecko client.
func ProvideCryptoMarket(cfg *config.Config, c cache.BytesCache, m repository.Metrics, l *applogger.Logger) service.CryptoMarket {
	return coingecko.New(coingecko.Config{
		BaseURL:     cfg.CoinGecko.BaseURL,
		APIKey:      cfg.CoinGecko.APIKey,
		PerPage:     cfg.CoinGecko.PerPage,
		MinInterval: cfg.CoinGecko.MinInterval,
		Timeout:     cfg.CoinGecko.Timeout,
		CacheTTL:    cfg.Cache.TTL,
	}, c, m, l)
}

// ProvideEquityMarket creates the Alpha Vantage client.
func ProvideEquityMarket(cfg *config.Config, c cache.BytesCache, m repository.Metrics, l *applogger.Logger) (service.EquityMarket, error) {
	client, err := alphavantage.New(alphavantage.Config{
		BaseURL:         cfg.AlphaVantage.BaseURL,
		APIKey:          cfg.AlphaVantage.APIKey,
		Symbols:         cfg.AlphaVantage.Symbols,
		Benchmark:       cfg.AlphaVantage.Benchmark,
		QuoteTimeout:    cfg.AlphaVantage.QuoteTimeout,
		RequestInterval: cfg.AlphaVantage.RequestInterval,
		FailFast:        cfg.AlphaVantage.FailFast,
		Timeout:         cfg.AlphaVantage.Timeout,
		CacheTTL:        cfg.Cache.TTL,
	}, c, m, l)
	if err != nil {
		return nil, fmt.Errorf("alpha vantage client: %w", err)
	}
	return client, nil
}

// ProvideRecommender creates the OpenRouter client.
func ProvideRecommender(cfg *config.Config, m repository.Metrics, l *applogger.Logger) (service.Recommender, error) {
	client, err := openrouter.New(openrouter.Config{
		BaseURL:     cfg.OpenRouter.BaseURL,
		APIKey:      cfg.OpenRouter.APIKey,
		Model:       cfg.OpenRouter.Model,
		Temperature: cfg.OpenRouter.Temperature,
		MaxTokens:   cfg.OpenRouter.MaxTokens,
		Timeout:     cfg.OpenRouter.Timeout,
		HTTPTimeout: cfg.OpenRouter.HTTPTimeout,
		Referer:     cfg.OpenRouter.Referer,
		Title:       cfg.OpenRouter.Title,
	}, m, l)
	if err != nil {
		return nil, fmt.Errorf("openrouter client: %w", err)
	}
	return client, nil
}

// ProvideEventPublisher creates the Kafka publisher, or nil when Kafka is disabled.
func ProvideEventPublisher(cfg *config.Config) (*internalrepo.KafkaPublisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
		pkgkafka.WithAutoCreateTopics(cfg.Kafka.AutoCreate),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideMarketAnalyzer creates the analysis use case.
func ProvideMarketAnalyzer(
	crypto service.CryptoMarket,
	equity service.EquityMarket,
	rec service.Recommender,
	pub *internalrepo.KafkaPublisher,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.MarketAnalyzer {
	opts := []usecase.AnalyzerOption{usecase.WithLogger(l), usecase.WithMetrics(m)}
	if pub != nil {
		opts = append(opts, usecase.WithEventPublisher(pub))
	}
	return usecase.NewMarketAnalyzer(crypto, equity, rec, opts...)
}

// ProvideRateLimiter creates the per-client limiter for analysis requests.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.Server.RateLimit.Burst, cfg.Server.RateLimit.PerSecond)
}

// ProvideHTTPHandler creates the market routes.
func ProvideHTTPHandler(
	cfg *config.Config,
	l *applogger.Logger,
	analyzer *usecase.MarketAnalyzer,
	limiter *ratelimit.Limiter,
	c cache.BytesCache,
) xhttp.Handler {
	return api.NewMarketEchoHandler(l, analyzer,
		api.WithRateLimiter(limiter),
		api.WithOverviewCache(c, cfg.Cache.OverviewTTL),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	limiter *ratelimit.Limiter,
	pub *internalrepo.KafkaPublisher,
) *server.App {
	app := server.New(cfg, l, handler, limiter)
	if pub != nil {
		app.SetEventPublisher(pub)
	}
	return app
}
