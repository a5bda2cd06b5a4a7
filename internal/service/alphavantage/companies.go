package alphavantage

var companyNames = map[string]string{
	"AAPL":  "Apple Inc.",
	"MSFT":  "Microsoft Corp.",
	"GOOGL": "Alphabet Inc.",
	"AMZN":  "Amazon.com Inc.",
	"TSLA":  "Tesla Inc.",
	"NVDA":  "NVIDIA Corp.",
	"META":  "Meta Platforms Inc.",
	"NFLX":  "Netflix Inc.",
	"SPY":   "SPDR S&P 500 ETF Trust",
}

// CompanyName returns the display name for symbol, or the symbol itself.
func CompanyName(symbol string) string {
	if name, ok := companyNames[symbol]; ok {
		return name
	}
	return symbol
}
