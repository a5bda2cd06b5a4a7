package models

// Requests for market HTTP endpoints. The analyzer re-checks them.

type AnalyzeRequest struct {
	Prompt    string `json:"prompt" validate:"required,min=1"`
	Timeframe string `json:"timeframe" validate:"required,oneof=1min 5min 15min 30min 1H 4H 1D 1W 1M"`
	RiskLevel string `json:"riskLevel" validate:"required,oneof=low medium high"`
}
