package repository

import (
	"context"
	"time"

	"SmartTrade/internal/domain/models"
	"SmartTrade/internal/domain/repository"
	pkgkafka "SmartTrade/pkg/kafka"
)

type producer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// AnalysisEvent is the message written for every completed analysis.
type AnalysisEvent struct {
	Prompt      string                        `json:"prompt"`
	Timeframe   string                        `json:"timeframe"`
	RiskLevel   string                        `json:"riskLevel"`
	Crypto      []models.ScoredRecommendation `json:"crypto"`
	Stocks      []models.ScoredRecommendation `json:"stocks"`
	PublishedAt time.Time                     `json:"publishedAt"`
}

// KafkaPublisher ships analyses, and aggregated logs, to Kafka.
type KafkaPublisher struct {
	producer producer
	topic    string
	now      func() time.Time
}

var _ repository.EventPublisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher creates Kafka publisher.
func NewKafkaPublisher(p *pkgkafka.Producer, topic string) *KafkaPublisher {
	return newKafkaPublisher(p, topic)
}

func newKafkaPublisher(p producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: p, topic: topic, now: time.Now}
}

// PublishAnalysis keys the event by timeframe so one horizon stays ordered.
func (p *KafkaPublisher) PublishAnalysis(ctx context.Context, req models.AnalyzeRequest, res models.AnalysisResult) error {
	return p.producer.Publish(ctx, p.topic, []byte(req.Timeframe), AnalysisEvent{
		Prompt:      req.Prompt,
		Timeframe:   req.Timeframe,
		RiskLevel:   req.RiskLevel,
		Crypto:      res.Crypto,
		Stocks:      res.Stocks,
		PublishedAt: p.now().UTC(),
	})
}

// PublishMessage lets the log collector reuse the same producer.
func (p *KafkaPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return p.producer.Publish(ctx, topic, nil, payload)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
