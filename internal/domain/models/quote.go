package models

// AssetType discriminates crypto and equity instruments.
type AssetType string

const (
	AssetCrypto AssetType = "crypto"
	AssetStock  AssetType = "stock"
)

// Quote is a point-in-time snapshot of one instrument.
// Crypto-only and equity-only fields are left zero for the other kind.
type Quote struct {
	Symbol         string  `json:"symbol"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	Change         float64 `json:"change,omitempty"`
	ChangePercent  float64 `json:"changePercent"`
	ChangePercent7 float64 `json:"changePercent7d,omitempty"`
	Volume         float64 `json:"volume"`
	MarketCap      float64 `json:"marketCap,omitempty"`
	High           float64 `json:"high"`
	Low            float64 `json:"low"`
	Open           float64 `json:"open,omitempty"`
	PreviousClose  float64 `json:"previousClose,omitempty"`
}

type CryptoMarketStats struct {
	TotalMarketCap         float64 `json:"totalMarketCap"`
	TotalVolume            float64 `json:"totalVolume"`
	MarketCapChangePct24h  float64 `json:"marketCapChangePct24h"`
	ActiveCryptocurrencies int     `json:"activeCryptocurrencies"`
}

type EquityMarketStats struct {
	BenchmarkSymbol  string  `json:"benchmarkSymbol"`
	BenchmarkPrice   float64 `json:"benchmarkPrice"`
	ChangePercentage float64 `json:"changePercentage"`
	Volume           float64 `json:"volume"`
}

// MarketContext is everything the recommender sees for one analysis.
type MarketContext struct {
	Crypto    []Quote `json:"crypto"`
	Stocks    []Quote `json:"stocks"`
	Timeframe string  `json:"timeframe"`
	RiskLevel string  `json:"riskLevel"`
	UserQuery string  `json:"userQuery"`
}
