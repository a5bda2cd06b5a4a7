package repository

import (
	"context"
	"testing"
	"time"

	"SmartTrade/internal/domain/models"
)

type sent struct {
	topic string
	key   []byte
	value interface{}
}

type fakeProducer struct {
	sent   []sent
	closed bool
}

func (f *fakeProducer) Publish(_ context.Context, topic string, key []byte, value interface{}) error {
	f.sent = append(f.sent, sent{topic, key, value})
	return nil
}

func (f *fakeProducer) Close() error {
	f.closed = true
	return nil
}

func TestPublishAnalysis(t *testing.T) {
	fp := &fakeProducer{}
	p := newKafkaPublisher(fp, "smarttrade.analyses")
	fixed := time.Date(2025, 7, 18, 9, 30, 0, 0, time.FixedZone("EST", -5*3600))
	p.now = func() time.Time { return fixed }

	req := models.AnalyzeRequest{Prompt: "hedges", Timeframe: "4H", RiskLevel: "low"}
	res := models.AnalysisResult{
		Crypto: []models.ScoredRecommendation{{RawRecommendation: models.RawRecommendation{Symbol: "BTC"}}},
		Stocks: []models.ScoredRecommendation{},
	}
	if err := p.PublishAnalysis(context.Background(), req, res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fp.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(fp.sent))
	}
	msg := fp.sent[0]
	if msg.topic != "smarttrade.analyses" || string(msg.key) != "4H" {
		t.Fatalf("unexpected routing %s/%s", msg.topic, msg.key)
	}
	ev, ok := msg.value.(AnalysisEvent)
	if !ok {
		t.Fatalf("unexpected payload type %T", msg.value)
	}
	if ev.Prompt != "hedges" || len(ev.Crypto) != 1 || ev.PublishedAt.Location() != time.UTC || !ev.PublishedAt.Equal(fixed) {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestPublishMessageAndClose(t *testing.T) {
	fp := &fakeProducer{}
	p := newKafkaPublisher(fp, "ignored")
	if err := p.PublishMessage(context.Background(), "smarttrade.logs", []string{"a"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fp.sent[0].topic != "smarttrade.logs" || fp.sent[0].key != nil {
		t.Fatalf("unexpected message %+v", fp.sent[0])
	}
	if err := p.Close(); err != nil || !fp.closed {
		t.Fatalf("expected producer closed")
	}
}
