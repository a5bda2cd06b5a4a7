package coingecko

import "SmartTrade/internal/domain/models"

// Static snapshots served when the API is rate limiting and nothing is cached.

func fallbackTopCryptos() []models.Quote {
	return []models.Quote{
		{Symbol: "BTC", Name: "Bitcoin", Price: 118000, ChangePercent: 1.2, ChangePercent7: 3.4, Volume: 32_000_000_000, MarketCap: 2_340_000_000_000, High: 119200, Low: 116500},
		{Symbol: "ETH", Name: "Ethereum", Price: 3100, ChangePercent: 0.8, ChangePercent7: 5.1, Volume: 15_000_000_000, MarketCap: 373_000_000_000, High: 3150, Low: 3040},
		{Symbol: "USDT", Name: "Tether", Price: 1, ChangePercent: 0.01, Volume: 48_000_000_000, MarketCap: 160_000_000_000, High: 1.001, Low: 0.999},
		{Symbol: "BNB", Name: "BNB", Price: 690, ChangePercent: 0.5, ChangePercent7: 1.9, Volume: 1_800_000_000, MarketCap: 100_000_000_000, High: 698, Low: 681},
		{Symbol: "SOL", Name: "Solana", Price: 165, ChangePercent: 2.3, ChangePercent7: 6.8, Volume: 3_400_000_000, MarketCap: 88_000_000_000, High: 168.5, Low: 160.2},
		{Symbol: "XRP", Name: "XRP", Price: 2.9, ChangePercent: -0.7, ChangePercent7: 4.2, Volume: 4_100_000_000, MarketCap: 171_000_000_000, High: 2.97, Low: 2.84},
		{Symbol: "USDC", Name: "USDC", Price: 1, ChangePercent: 0, Volume: 7_900_000_000, MarketCap: 64_000_000_000, High: 1.001, Low: 0.999},
		{Symbol: "ADA", Name: "Cardano", Price: 0.78, ChangePercent: -1.1, ChangePercent7: 2.6, Volume: 900_000_000, MarketCap: 28_000_000_000, High: 0.8, Low: 0.76},
	}
}

func fallbackMarketStats() models.CryptoMarketStats {
	return models.CryptoMarketStats{
		TotalMarketCap:         3_900_000_000_000,
		TotalVolume:            150_000_000_000,
		MarketCapChangePct24h:  0,
		ActiveCryptocurrencies: 17_000,
	}
}
