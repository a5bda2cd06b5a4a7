package openrouter

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"SmartTrade/internal/domain/models"
	"SmartTrade/pkg/util"
)

const (
	defaultExplanation = "No explanation provided"
	defaultVolatility  = 0.1
)

var ErrInvalidFormat = errors.New("invalid AI response format")

// parseRecommendations decodes the model's message content. Content that is not
// JSON is a parse error; JSON without a recommendations array is ErrInvalidFormat.
// Entries that are not objects are skipped.
func parseRecommendations(content string) ([]models.RawRecommendation, error) {
	var top interface{}
	if err := json.Unmarshal([]byte(content), &top); err != nil {
		return nil, fmt.Errorf("parse AI response: %w", err)
	}

	obj, ok := top.(map[string]interface{})
	if !ok {
		return nil, ErrInvalidFormat
	}
	items, ok := obj["recommendations"].([]interface{})
	if !ok {
		return nil, ErrInvalidFormat
	}

	out := make([]models.RawRecommendation, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		out = append(out, coerce(m))
	}
	return out, nil
}

// coerce maps one untyped entry onto RawRecommendation. Missing, non-numeric
// and zero numbers fall back to their defaults.
func coerce(m map[string]interface{}) models.RawRecommendation {
	rec := models.RawRecommendation{
		Symbol:          strings.ToUpper(str(m["symbol"])),
		Name:            str(m["name"]),
		Type:            models.AssetType(strings.ToLower(strings.TrimSpace(str(m["type"])))),
		CurrentPrice:    num(m["currentPrice"], 0),
		TargetPrice:     num(m["targetPrice"], 0),
		StopLoss:        num(m["stopLoss"], 0),
		Entry:           num(m["entry"], 0),
		Exit:            num(m["exit"], 0),
		Trend:           models.Trend(str(m["trend"])),
		ProjectedReturn: num(m["projectedReturn"], 0),
		Explanation:     str(m["explanation"]),
		Volatility:      num(m["volatility"], defaultVolatility),
		MarketCap:       num(m["marketCap"], 0),
	}
	if rec.Type == "" {
		rec.Type = models.AssetCrypto
	}
	if rec.Trend == "" {
		rec.Trend = models.TrendBullish
	}
	if rec.Explanation == "" {
		rec.Explanation = defaultExplanation
	}
	return rec
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}

func num(v interface{}, def float64) float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case string:
		f = util.ParseFloatDefault(x, 0)
	default:
		return def
	}
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}
