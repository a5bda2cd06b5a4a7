package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SmartTrade/internal/repository"
	"SmartTrade/internal/service/ratelimit"
	"SmartTrade/pkg/config"
	xhttp "SmartTrade/pkg/http"
	applogger "SmartTrade/pkg/logger"
)

const (
	sweepInterval = time.Minute
	// Buckets idle this long have long since refilled.
	bucketIdle = 10 * time.Minute
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	handler    xhttp.Handler
	limiter    *ratelimit.Limiter
	publisher  *repository.KafkaPublisher
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, l *applogger.Logger, handler xhttp.Handler, limiter *ratelimit.Limiter) *App {
	if l == nil {
		l = applogger.Nop()
	}
	return &App{
		cfg:     cfg,
		logger:  l,
		handler: handler,
		limiter: limiter,
	}
}

// SetEventPublisher enables analysis events and error-log shipping to Kafka.
func (a *App) SetEventPublisher(p *repository.KafkaPublisher) { a.publisher = p }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.publisher != nil {
		a.logger.AddCollector(&applogger.CollectionConfig{
			Topic:     a.cfg.Kafka.LogTopic,
			Publisher: a.publisher,
		})
		a.logger.Info("kafka publishing enabled",
			applogger.Strings("brokers", a.cfg.Kafka.Brokers),
			applogger.String("topic", a.cfg.Kafka.Topic),
			applogger.String("log_topic", a.cfg.Kafka.LogTopic))
	}

	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
	}
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithHost(a.cfg.Server.Host),
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithSlowRequest(a.cfg.Server.SlowRequest),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithLogger(a.logger),
	)

	if a.limiter != nil {
		go a.sweepLimiter(ctx)
	}

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("smarttrade started",
		applogger.String("env", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
		applogger.Bool("metrics", a.cfg.Metrics.Enabled),
		applogger.Strings("symbols", a.cfg.AlphaVantage.Symbols))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	cancel()
	return a.shutdown()
}

func (a *App) sweepLimiter(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.limiter.Sweep(bucketIdle); n > 0 {
				a.logger.Debug("rate limiter swept", applogger.Int("buckets", n))
			}
		}
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	a.logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.publisher != nil {
		a.logger.RemoveCollector()
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("kafka publisher close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
