package alphavantage

import "SmartTrade/internal/domain/models"

func fallbackTopStocks() []models.Quote {
	return []models.Quote{
		{Symbol: "AAPL", Name: "Apple Inc.", Price: 225.5, Change: 1.85, ChangePercent: 0.83, Volume: 52_000_000, Open: 223.9, High: 226.4, Low: 223.1, PreviousClose: 223.65},
		{Symbol: "MSFT", Name: "Microsoft Corp.", Price: 465.2, Change: 2.4, ChangePercent: 0.52, Volume: 19_000_000, Open: 462.5, High: 466.8, Low: 461.9, PreviousClose: 462.8},
		{Symbol: "GOOGL", Name: "Alphabet Inc.", Price: 185.3, Change: -0.9, ChangePercent: -0.48, Volume: 24_000_000, Open: 186.1, High: 187.0, Low: 184.6, PreviousClose: 186.2},
		{Symbol: "NVDA", Name: "NVIDIA Corp.", Price: 172.4, Change: 3.1, ChangePercent: 1.83, Volume: 210_000_000, Open: 169.8, High: 173.5, Low: 169.2, PreviousClose: 169.3},
	}
}
