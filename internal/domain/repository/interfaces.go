package repository

import (
	"context"

	"SmartTrade/internal/domain/models"
)

// EventPublisher ships completed analyses to an event bus.
type EventPublisher interface {
	PublishAnalysis(ctx context.Context, req models.AnalyzeRequest, res models.AnalysisResult) error
	Close() error
}

type Metrics interface {
	RecordUpstreamCall(source, op string, seconds float64, err error)
	RecordCache(source, key string, hit bool)
	RecordFallback(source, reason string)
	RecordRecommendations(assetType string, n int)
}
