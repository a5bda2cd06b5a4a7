package models

import "time"

type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RawRecommendation is one model suggestion after coercion at the client boundary.
type RawRecommendation struct {
	Symbol          string    `json:"symbol"`
	Name            string    `json:"name"`
	Type            AssetType `json:"type"`
	CurrentPrice    float64   `json:"currentPrice"`
	TargetPrice     float64   `json:"targetPrice"`
	StopLoss        float64   `json:"stopLoss"`
	Entry           float64   `json:"entry"`
	Exit            float64   `json:"exit"`
	Trend           Trend     `json:"trend"`
	ProjectedReturn float64   `json:"projectedReturn"`
	Explanation     string    `json:"explanation"`
	Volatility      float64   `json:"volatility"`
	MarketCap       float64   `json:"marketCap,omitempty"`
}

// ScoredRecommendation is a RawRecommendation tagged by the analyzer.
type ScoredRecommendation struct {
	RawRecommendation
	Score     int       `json:"score"`
	RiskLevel RiskLevel `json:"riskLevel"`
	Timeframe string    `json:"timeframe"`
	CreatedAt time.Time `json:"createdAt"`
}
