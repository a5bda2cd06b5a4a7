package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"SmartTrade/pkg/util"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Server      struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"5000"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"120s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		SlowRequest     time.Duration `yaml:"slow_request" default:"20s"`
		RateLimit       struct {
			Burst     float64 `yaml:"burst" default:"5"`
			PerSecond float64 `yaml:"per_second" default:"1"`
		} `yaml:"rate_limit"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Cache struct {
		TTL         time.Duration `yaml:"ttl" default:"60s"`
		OverviewTTL time.Duration `yaml:"overview_ttl" default:"15s"`
		Redis       struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"smarttrade"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	CoinGecko struct {
		BaseURL     string        `yaml:"base_url" default:"https://api.coingecko.com/api/v3"`
		APIKey      string        `yaml:"api_key"`
		PerPage     int           `yaml:"per_page" default:"20"`
		MinInterval time.Duration `yaml:"min_interval" default:"1s"`
		Timeout     time.Duration `yaml:"timeout" default:"10s"`
	} `yaml:"coingecko"`
	AlphaVantage struct {
		BaseURL         string        `yaml:"base_url" default:"https://www.alphavantage.co/query"`
		APIKey          string        `yaml:"api_key"`
		Symbols         []string      `yaml:"symbols" default:"[\"AAPL\",\"MSFT\",\"GOOGL\",\"AMZN\",\"TSLA\",\"NVDA\",\"META\",\"NFLX\"]"`
		Benchmark       string        `yaml:"benchmark" default:"SPY"`
		QuoteTimeout    time.Duration `yaml:"quote_timeout" default:"5s"`
		RequestInterval time.Duration `yaml:"request_interval" default:"12s"`
		FailFast        bool          `yaml:"fail_fast"`
		Timeout         time.Duration `yaml:"timeout" default:"10s"`
	} `yaml:"alphavantage"`
	OpenRouter struct {
		BaseURL     string        `yaml:"base_url" default:"https://openrouter.ai/api/v1"`
		APIKey      string        `yaml:"api_key"`
		Model       string        `yaml:"model" default:"openai/gpt-4o"`
		Temperature float32       `yaml:"temperature" default:"0.3"`
		MaxTokens   int           `yaml:"max_tokens" default:"2000"`
		Timeout     time.Duration `yaml:"timeout" default:"15s"`
		HTTPTimeout time.Duration `yaml:"http_timeout" default:"60s"`
		Referer     string        `yaml:"referer" default:"http://localhost:5000"`
		Title       string        `yaml:"title" default:"SmartTrade AI"`
	} `yaml:"openrouter"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"smarttrade.analyses"`
		LogTopic     string   `yaml:"log_topic" default:"smarttrade.logs"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip"`
		AutoCreate   bool     `yaml:"auto_create_topics"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"1s"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
}

// envOverrides holds the process environment consulted after the YAML file.
// Aliased keys are resolved in applyEnv.
type envOverrides struct {
	CoinGeckoAPIKey       string   `envconfig:"COINGECKO_API_KEY"`
	AlphaVantageAPIKey    string   `envconfig:"ALPHA_VANTAGE_API_KEY"`
	AlphaVantageAPIKeyAlt string   `envconfig:"ALPHAVANTAGE_API_KEY"`
	OpenRouterAPIKey      string   `envconfig:"OPENROUTER_API_KEY"`
	OpenAIAPIKey          string   `envconfig:"OPENAI_API_KEY"`
	Domains               []string `envconfig:"REPLIT_DOMAINS"`
	Port                  int      `envconfig:"PORT"`
	LogLevel              string   `envconfig:"LOG_LEVEL"`
	RedisAddr             string   `envconfig:"REDIS_ADDR"`
	KafkaBrokers          []string `envconfig:"KAFKA_BROKERS"`
	KafkaTopic            string   `envconfig:"KAFKA_TOPIC"`
	Symbols               []string `envconfig:"SYMBOLS"`
}

// Load reads and parses a YAML configuration file and fills unset fields with defaults.
// A missing file yields a pure-defaults config.
func Load(path string) (*Config, error) {
	var c Config

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML, then .env, then environment variables, and validates it.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}

	if env.CoinGeckoAPIKey != "" {
		c.CoinGecko.APIKey = env.CoinGeckoAPIKey
	}
	if v := util.FirstNonEmpty(env.AlphaVantageAPIKey, env.AlphaVantageAPIKeyAlt); v != "" {
		c.AlphaVantage.APIKey = v
	}
	if v := util.FirstNonEmpty(env.OpenRouterAPIKey, env.OpenAIAPIKey); v != "" {
		c.OpenRouter.APIKey = v
	}
	if len(env.Domains) > 0 {
		if d := util.FirstNonEmpty(env.Domains[0]); d != "" {
			c.OpenRouter.Referer = d
		}
	}
	if env.Port != 0 {
		c.Server.Port = env.Port
	}
	if env.LogLevel != "" {
		c.Log.Level = env.LogLevel
	}
	if env.RedisAddr != "" {
		c.Cache.Redis.Addr = env.RedisAddr
		c.Cache.Redis.Enabled = true
	}
	if len(env.KafkaBrokers) > 0 {
		c.Kafka.Brokers = env.KafkaBrokers
	}
	if env.KafkaTopic != "" {
		c.Kafka.Topic = env.KafkaTopic
	}
	if len(env.Symbols) > 0 {
		c.AlphaVantage.Symbols = env.Symbols
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	if c.AlphaVantage.APIKey == "" {
		return fmt.Errorf("alphavantage.api_key is required (ALPHA_VANTAGE_API_KEY or ALPHAVANTAGE_API_KEY)")
	}
	if c.OpenRouter.APIKey == "" {
		return fmt.Errorf("openrouter.api_key is required (OPENROUTER_API_KEY or OPENAI_API_KEY)")
	}
	if len(c.AlphaVantage.Symbols) == 0 {
		return fmt.Errorf("alphavantage.symbols cannot be empty")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers required when kafka.enabled")
	}
	return nil
}
