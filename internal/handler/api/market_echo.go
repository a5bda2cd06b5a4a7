package api

import (
	"context"
	"time"

	"SmartTrade/internal/domain/models"
	"SmartTrade/internal/service/cache"
	"SmartTrade/internal/service/metrics"
	"SmartTrade/internal/service/ratelimit"
	xhttp "SmartTrade/pkg/http"
	xlogger "SmartTrade/pkg/logger"

	"github.com/labstack/echo/v4"
)

const (
	endpointAnalyze  = "analyze"
	endpointOverview = "market_overview"
)

var overviewKey = cache.Key("market", "overview")

// MarketService is the analyzer surface the routes depend on.
type MarketService interface {
	Analyze(ctx context.Context, req models.AnalyzeRequest) (models.AnalysisResult, error)
	Overview(ctx context.Context) (models.MarketOverview, error)
}

// MarketEchoHandler serves the dashboard's analysis and overview routes.
type MarketEchoHandler struct {
	logger      *xlogger.Logger
	svc         MarketService
	limiter     *ratelimit.Limiter
	cache       cache.BytesCache
	overviewTTL time.Duration
}

type HandlerOption func(*MarketEchoHandler)

// WithRateLimiter throttles POST /api/analyze per client IP.
func WithRateLimiter(l *ratelimit.Limiter) HandlerOption {
	return func(h *MarketEchoHandler) { h.limiter = l }
}

// WithOverviewCache caches successful overview responses for ttl.
func WithOverviewCache(c cache.BytesCache, ttl time.Duration) HandlerOption {
	return func(h *MarketEchoHandler) {
		h.cache = c
		h.overviewTTL = ttl
	}
}

func NewMarketEchoHandler(logger *xlogger.Logger, svc MarketService, opts ...HandlerOption) *MarketEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	h := &MarketEchoHandler{logger: logger.With("market_handler"), svc: svc}
	for _, opt := range opts {
		opt(h)
	}
	metrics.Register()
	return h
}

func (h *MarketEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/analyze", h.Analyze)
	g.GET("/market-overview", h.Overview)
}

func (h *MarketEchoHandler) Analyze(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.EndpointLatency.WithLabelValues(endpointAnalyze).Observe(time.Since(start).Seconds())
	}()

	if h.limiter != nil && !h.limiter.Allow(c.RealIP()) {
		metrics.EndpointErrors.WithLabelValues(endpointAnalyze, "rate_limited").Inc()
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("Too many requests"))
	}

	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		h.logger.Debug("invalid analyze request", xlogger.Any("errors", verr))
		metrics.EndpointErrors.WithLabelValues(endpointAnalyze, "validation").Inc()
		return xhttp.ValidationErrorResponse(c, "Invalid request data", verr)
	}

	res, err := h.svc.Analyze(c.Request().Context(), *req)
	if err != nil {
		h.logger.Error("analyze failed", xlogger.Error(err))
		metrics.EndpointErrors.WithLabelValues(endpointAnalyze, "upstream").Inc()
		return xhttp.AppErrorResponse(c, xhttp.InternalError("Failed to analyze market data").WithError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *MarketEchoHandler) Overview(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.EndpointLatency.WithLabelValues(endpointOverview).Observe(time.Since(start).Seconds())
	}()
	ctx := c.Request().Context()

	if h.cache != nil {
		var cached models.MarketOverview
		if ok, err := cache.GetJSON(ctx, h.cache, overviewKey, &cached); err != nil {
			h.logger.Warn("overview cache read failed", xlogger.Error(err))
		} else if ok {
			metrics.OverviewCache.WithLabelValues("hit").Inc()
			return xhttp.SuccessResponse(c, cached)
		}
		metrics.OverviewCache.WithLabelValues("miss").Inc()
	}

	ov, err := h.svc.Overview(ctx)
	if err != nil {
		h.logger.Error("market overview failed", xlogger.Error(err))
		metrics.EndpointErrors.WithLabelValues(endpointOverview, "upstream").Inc()
		return xhttp.AppErrorResponse(c, xhttp.InternalError("Failed to fetch market overview").WithError(err))
	}

	if h.cache != nil {
		if err := cache.SetJSON(ctx, h.cache, overviewKey, ov, h.overviewTTL); err != nil {
			h.logger.Warn("overview cache write failed", xlogger.Error(err))
		}
	}
	return xhttp.SuccessResponse(c, ov)
}
