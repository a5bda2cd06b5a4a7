package service

import (
	"context"

	"SmartTrade/internal/domain/models"
)

// CryptoMarket serves crypto quotes and aggregate market stats.
type CryptoMarket interface {
	TopCryptos(ctx context.Context) ([]models.Quote, error)
	MarketStats(ctx context.Context) (models.CryptoMarketStats, error)
}

// EquityMarket serves equity quotes and benchmark stats.
type EquityMarket interface {
	TopStocks(ctx context.Context) ([]models.Quote, error)
	MarketStats(ctx context.Context) (models.EquityMarketStats, error)
}

// Recommender turns a market context into trade suggestions.
type Recommender interface {
	Recommendations(ctx context.Context, mc models.MarketContext) ([]models.RawRecommendation, error)
}
