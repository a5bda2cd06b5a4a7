package usecase

import (
	"math"

	"SmartTrade/internal/domain/models"
)

const (
	weightProfit   = 0.4
	weightSecurity = 0.3
	weightTrend    = 0.3

	largeCapThreshold = 1e9
	missingVolatility = 0.1
)

// Score blends projected return, market-cap security and trend into [0, 100].
func Score(r models.RawRecommendation) int {
	profit := math.Min(100, r.ProjectedReturn/50*100)

	security := 70.0
	if r.MarketCap > largeCapThreshold {
		security = 90
	}

	trend := 60.0
	if r.Trend == models.TrendBullish {
		trend = 85
	}

	s := math.Floor(profit*weightProfit + security*weightSecurity + trend*weightTrend + 0.5)
	switch {
	case math.IsNaN(s), s < 0:
		return 0
	case s > 100:
		return 100
	}
	return int(s)
}

// Risk buckets volatility; zero means the model gave none.
func Risk(volatility float64) models.RiskLevel {
	if volatility == 0 {
		volatility = missingVolatility
	}
	switch {
	case volatility < 0.05:
		return models.RiskLow
	case volatility < 0.15:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}
