package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"SmartTrade/internal/domain/models"
	"SmartTrade/internal/domain/repository"
	"SmartTrade/internal/domain/service"
	applogger "SmartTrade/pkg/logger"

	"golang.org/x/sync/errgroup"
)

const (
	maxPerSide = 4

	activeTrades = 8
	successRate  = 87.5
	totalReturn  = 24.7
)

var ErrInvalidRequest = errors.New("invalid analyze request")

// MarketAnalyzer combines market snapshots with model recommendations.
type MarketAnalyzer struct {
	crypto      service.CryptoMarket
	equity      service.EquityMarket
	recommender service.Recommender

	publisher repository.EventPublisher
	metrics   repository.Metrics
	logger    *applogger.Logger
	now       func() time.Time
}

type AnalyzerOption func(*MarketAnalyzer)

// WithEventPublisher ships every completed analysis; failures are only logged.
func WithEventPublisher(p repository.EventPublisher) AnalyzerOption {
	return func(a *MarketAnalyzer) { a.publisher = p }
}

func WithLogger(l *applogger.Logger) AnalyzerOption {
	return func(a *MarketAnalyzer) { a.logger = l }
}

func WithMetrics(m repository.Metrics) AnalyzerOption {
	return func(a *MarketAnalyzer) { a.metrics = m }
}

func WithClock(now func() time.Time) AnalyzerOption {
	return func(a *MarketAnalyzer) { a.now = now }
}

func NewMarketAnalyzer(crypto service.CryptoMarket, equity service.EquityMarket, rec service.Recommender, opts ...AnalyzerOption) *MarketAnalyzer {
	a := &MarketAnalyzer{
		crypto:      crypto,
		equity:      equity,
		recommender: rec,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = applogger.Nop()
	}
	a.logger = a.logger.With("market_analyzer")
	return a
}

// Analyze fetches both markets, asks for recommendations and scores them.
func (a *MarketAnalyzer) Analyze(ctx context.Context, req models.AnalyzeRequest) (models.AnalysisResult, error) {
	if err := checkRequest(req); err != nil {
		return models.AnalysisResult{}, err
	}

	var cryptos, stocks []models.Quote

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cryptos, err = a.crypto.TopCryptos(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stocks, err = a.equity.TopStocks(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.AnalysisResult{}, fmt.Errorf("analyze market: %w", err)
	}

	raw, err := a.recommender.Recommendations(ctx, models.MarketContext{
		Crypto:    cryptos,
		Stocks:    stocks,
		Timeframe: req.Timeframe,
		RiskLevel: req.RiskLevel,
		UserQuery: req.Prompt,
	})
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("analyze market: %w", err)
	}

	res := a.partition(a.score(raw, req.Timeframe))
	if a.metrics != nil {
		a.metrics.RecordRecommendations(string(models.AssetCrypto), len(res.Crypto))
		a.metrics.RecordRecommendations(string(models.AssetStock), len(res.Stocks))
	}

	a.logger.Info("analysis complete",
		applogger.String("timeframe", req.Timeframe),
		applogger.String("risk_level", req.RiskLevel),
		applogger.Int("received", len(raw)),
		applogger.Int("crypto", len(res.Crypto)),
		applogger.Int("stocks", len(res.Stocks)))

	if a.publisher != nil {
		if err := a.publisher.PublishAnalysis(ctx, req, res); err != nil {
			a.logger.Warn("publish analysis failed", applogger.Error(err))
		}
	}
	return res, nil
}

// checkRequest repeats the route-level validation for callers that skip it.
func checkRequest(req models.AnalyzeRequest) error {
	switch {
	case req.Prompt == "":
		return fmt.Errorf("%w: empty prompt", ErrInvalidRequest)
	case !repository.IsValidTimeframe(repository.Timeframe(req.Timeframe)):
		return fmt.Errorf("%w: timeframe %q", ErrInvalidRequest, req.Timeframe)
	case !repository.IsValidRiskLevel(req.RiskLevel):
		return fmt.Errorf("%w: risk level %q", ErrInvalidRequest, req.RiskLevel)
	}
	return nil
}

func (a *MarketAnalyzer) score(raw []models.RawRecommendation, timeframe string) []models.ScoredRecommendation {
	created := a.now()
	out := make([]models.ScoredRecommendation, 0, len(raw))
	for _, r := range raw {
		out = append(out, models.ScoredRecommendation{
			RawRecommendation: r,
			Score:             Score(r),
			RiskLevel:         Risk(r.Volatility),
			Timeframe:         timeframe,
			CreatedAt:         created,
		})
	}
	return out
}

// partition keeps received order and the first four of each type.
func (a *MarketAnalyzer) partition(recs []models.ScoredRecommendation) models.AnalysisResult {
	res := models.AnalysisResult{
		Crypto: make([]models.ScoredRecommendation, 0, maxPerSide),
		Stocks: make([]models.ScoredRecommendation, 0, maxPerSide),
	}
	for _, r := range recs {
		switch r.Type {
		case models.AssetCrypto:
			if len(res.Crypto) < maxPerSide {
				res.Crypto = append(res.Crypto, r)
			}
		case models.AssetStock:
			if len(res.Stocks) < maxPerSide {
				res.Stocks = append(res.Stocks, r)
			}
		}
	}
	return res
}

// Overview reports a sentiment from the average of both markets' daily change.
func (a *MarketAnalyzer) Overview(ctx context.Context) (models.MarketOverview, error) {
	var cs models.CryptoMarketStats
	var es models.EquityMarketStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cs, err = a.crypto.MarketStats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		es, err = a.equity.MarketStats(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.MarketOverview{}, fmt.Errorf("market overview: %w", err)
	}

	avg := (cs.MarketCapChangePct24h + es.ChangePercentage) / 2
	a.logger.Debug("overview computed",
		applogger.Float64("crypto_change", cs.MarketCapChangePct24h),
		applogger.Float64("equity_change", es.ChangePercentage))
	sentiment := models.SentimentBearish
	sign := ""
	if avg > 0 {
		sentiment = models.SentimentBullish
		sign = "+"
	}

	return models.MarketOverview{
		Sentiment:       sentiment,
		SentimentChange: fmt.Sprintf("%s%.1f%% vs yesterday", sign, avg),
		ActiveTrades:    activeTrades,
		SuccessRate:     successRate,
		TotalReturn:     totalReturn,
	}, nil
}
