package models

const (
	SentimentBullish = "Bullish"
	SentimentBearish = "Bearish"
)

type MarketOverview struct {
	Sentiment       string  `json:"sentiment"`
	SentimentChange string  `json:"sentimentChange"`
	ActiveTrades    int     `json:"activeTrades"`
	SuccessRate     float64 `json:"successRate"`
	TotalReturn     float64 `json:"totalReturn"`
}

// AnalysisResult holds the partitioned recommendations, at most four per side.
type AnalysisResult struct {
	Crypto []ScoredRecommendation `json:"crypto"`
	Stocks []ScoredRecommendation `json:"stocks"`
}
