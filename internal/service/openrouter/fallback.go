package openrouter

import "SmartTrade/internal/domain/models"

func fallbackRecommendations() []models.RawRecommendation {
	return []models.RawRecommendation{
		{
			Symbol: "BTC", Name: "Bitcoin", Type: models.AssetCrypto,
			CurrentPrice: 118000, TargetPrice: 125000, StopLoss: 115000, Entry: 117500, Exit: 125000,
			Trend: models.TrendBullish, ProjectedReturn: 6.4, Volatility: 0.12,
			Explanation: "Strong institutional adoption and technical breakout above key resistance levels",
		},
		{
			Symbol: "ETH", Name: "Ethereum", Type: models.AssetCrypto,
			CurrentPrice: 3100, TargetPrice: 3400, StopLoss: 2950, Entry: 3080, Exit: 3400,
			Trend: models.TrendBullish, ProjectedReturn: 9.7, Volatility: 0.15,
			Explanation: "Ethereum 2.0 upgrades and DeFi growth driving demand",
		},
		{
			Symbol: "AAPL", Name: "Apple Inc.", Type: models.AssetStock,
			CurrentPrice: 225.5, TargetPrice: 240, StopLoss: 218, Entry: 224, Exit: 240,
			Trend: models.TrendBullish, ProjectedReturn: 6.4, Volatility: 0.08,
			Explanation: "Strong iPhone sales and services growth momentum",
		},
		{
			Symbol: "MSFT", Name: "Microsoft Corp.", Type: models.AssetStock,
			CurrentPrice: 465.2, TargetPrice: 485, StopLoss: 450, Entry: 463, Exit: 485,
			Trend: models.TrendBullish, ProjectedReturn: 4.3, Volatility: 0.06,
			Explanation: "Cloud computing growth and AI integration driving value",
		},
	}
}
