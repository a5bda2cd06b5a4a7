package openrouter

import (
	"encoding/json"
	"fmt"

	"SmartTrade/internal/domain/models"
)

const systemPrompt = "You are a professional trading analyst with expertise in cryptocurrency and stock markets. " +
	"Provide accurate, data-driven trading recommendations based on technical analysis and market conditions."

const promptTemplate = `
Analyze the following market data and provide trading recommendations in JSON format.

Market Context:
- User Query: %q
- Timeframe: %s
- Risk Level: %s
- Crypto Data: %s
- Stock Data: %s

Please provide exactly 4 cryptocurrency and 4 stock recommendations in this JSON format:
{
  "recommendations": [
    {
      "symbol": "BTC",
      "name": "Bitcoin",
      "type": "crypto",
      "currentPrice": 67842.50,
      "targetPrice": 72500.00,
      "stopLoss": 64200.00,
      "entry": 67800.00,
      "exit": 72500.00,
      "trend": "bullish",
      "projectedReturn": 6.9,
      "explanation": "Strong institutional buying and technical breakout above $67K resistance. RSI shows healthy momentum.",
      "volatility": 0.08,
      "marketCap": 1340000000000
    }
  ]
}

Use "type": "stock" for equities. Focus on:
1. Technical indicators (RSI, MACD, Volume, Moving Averages)
2. Market sentiment and news impact
3. Risk-adjusted returns based on user's risk preference
4. Clear entry/exit strategies
5. Realistic price targets based on support/resistance levels

Ensure all recommendations are actionable and include specific price points.
`

func buildPrompt(mc models.MarketContext) (string, error) {
	crypto, err := json.Marshal(nonNil(mc.Crypto))
	if err != nil {
		return "", fmt.Errorf("encode crypto data: %w", err)
	}
	stocks, err := json.Marshal(nonNil(mc.Stocks))
	if err != nil {
		return "", fmt.Errorf("encode stock data: %w", err)
	}
	return fmt.Sprintf(promptTemplate, mc.UserQuery, mc.Timeframe, mc.RiskLevel, crypto, stocks), nil
}

func nonNil(q []models.Quote) []models.Quote {
	if q == nil {
		return []models.Quote{}
	}
	return q
}
