package openrouter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"SmartTrade/internal/domain/models"
	"SmartTrade/internal/domain/repository"
	applogger "SmartTrade/pkg/logger"
	"SmartTrade/pkg/util"

	"github.com/sashabaranov/go-openai"
)

const source = "openrouter"

var (
	ErrMissingAPIKey = errors.New("openrouter API key is required")
	ErrEmptyResponse = errors.New("AI response has no choices")
)

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
	// Timeout is the race deadline after which the static fallback is served.
	Timeout time.Duration
	// HTTPTimeout bounds the underlying request, which outlives a lost race.
	HTTPTimeout time.Duration
	Referer     string
	Title       string
}

// Client asks an OpenAI-compatible chat completion API for trade recommendations.
type Client struct {
	cfg     Config
	api     *openai.Client
	metrics repository.Metrics
	logger  *applogger.Logger
}

func New(cfg Config, m repository.Metrics, l *applogger.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "openai/gpt-4o"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2000
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 60 * time.Second
	}
	if cfg.Referer == "" {
		cfg.Referer = "http://localhost:5000"
	}
	if cfg.Title == "" {
		cfg.Title = "SmartTrade AI"
	}
	if l == nil {
		l = applogger.Nop()
	}

	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = cfg.BaseURL
	oc.HTTPClient = &http.Client{
		Timeout: cfg.HTTPTimeout,
		Transport: &headerTransport{
			base: http.DefaultTransport,
			headers: map[string]string{
				"HTTP-Referer": cfg.Referer,
				"X-Title":      cfg.Title,
			},
		},
	}

	return &Client{
		cfg:     cfg,
		api:     openai.NewClientWithConfig(oc),
		metrics: m,
		logger:  l.With(source),
	}, nil
}

// Recommendations sends the market context to the model and coerces its JSON reply.
// When the race deadline wins, the static fallback set is returned without error.
func (c *Client) Recommendations(ctx context.Context, mc models.MarketContext) ([]models.RawRecommendation, error) {
	prompt, err := buildPrompt(mc)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	start := time.Now()
	resp, err := util.RaceTimeout(ctx, c.cfg.Timeout, func(ctx context.Context) (openai.ChatCompletionResponse, error) {
		return c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.cfg.Model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Temperature: c.cfg.Temperature,
			MaxTokens:   c.cfg.MaxTokens,
		})
	})
	if c.metrics != nil {
		c.metrics.RecordUpstreamCall(source, "chat_completion", time.Since(start).Seconds(), err)
	}

	if errors.Is(err, util.ErrTimeout) {
		c.logger.Warn("recommendation request timed out, serving fallback",
			applogger.Duration("timeout_ms", c.cfg.Timeout))
		if c.metrics != nil {
			c.metrics.RecordFallback(source, "timeout")
		}
		return fallbackRecommendations(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get AI recommendations: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("get AI recommendations: %w", ErrEmptyResponse)
	}

	recs, err := parseRecommendations(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("get AI recommendations: %w", err)
	}
	c.logger.Debug("recommendations received",
		applogger.Int("count", len(recs)),
		applogger.String("model", resp.Model))
	return recs, nil
}

// headerTransport stamps fixed headers on every outgoing request.
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		r.Header.Set(k, v)
	}
	return t.base.RoundTrip(r)
}
