package repository

// Timeframe is the holding horizon a user asks recommendations for.
type Timeframe string

const (
	TF1Min  Timeframe = "1min"
	TF5Min  Timeframe = "5min"
	TF15Min Timeframe = "15min"
	TF30Min Timeframe = "30min"
	TF1H    Timeframe = "1H"
	TF4H    Timeframe = "4H"
	TF1D    Timeframe = "1D"
	TF1W    Timeframe = "1W"
	TF1M    Timeframe = "1M"
)

// IsValidTimeframe returns true if tf is a supported timeframe.
// Matching is case-sensitive: "1M" is a month, "1min" a minute.
func IsValidTimeframe(tf Timeframe) bool {
	switch tf {
	case TF1Min, TF5Min, TF15Min, TF30Min, TF1H, TF4H, TF1D, TF1W, TF1M:
		return true
	default:
		return false
	}
}

// IsValidRiskLevel returns true for low, medium and high.
func IsValidRiskLevel(s string) bool {
	switch s {
	case "low", "medium", "high":
		return true
	default:
		return false
	}
}
