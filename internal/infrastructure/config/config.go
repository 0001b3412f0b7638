package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Anthropic  AnthropicConfig
	OpenRouter OpenRouterConfig
	Logging    LogConfig
	RateLimit  RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// AnthropicConfig holds the text-generation provider configuration.
type AnthropicConfig struct {
	APIKey    string        `envconfig:"ANTHROPIC_API_KEY"`
	BaseURL   string        `envconfig:"ANTHROPIC_BASE_URL" default:"https://api.anthropic.com"`
	Model     string        `envconfig:"ANTHROPIC_MODEL" default:"claude-3-5-sonnet-20241022"`
	MaxTokens int           `envconfig:"ANTHROPIC_MAX_TOKENS" default:"2048"`
	Timeout   time.Duration `envconfig:"ANTHROPIC_TIMEOUT" default:"60s"`
}

// OpenRouterConfig holds the image-understanding / image-generation provider
// configuration. ImageMode selects how image generation is requested:
// "images" uses the images API, "chat" extracts a URL from a chat completion.
type OpenRouterConfig struct {
	APIKey      string        `envconfig:"OPENROUTER_API_KEY"`
	BaseURL     string        `envconfig:"OPENROUTER_BASE_URL" default:"https://openrouter.ai/api/v1"`
	VisionModel string        `envconfig:"OPENROUTER_VISION_MODEL" default:"google/gemini-2.5-flash-image-preview:free"`
	ImageModel  string        `envconfig:"OPENROUTER_IMAGE_MODEL" default:"openai/dall-e-3"`
	ImageMode   string        `envconfig:"OPENROUTER_IMAGE_MODE" default:"images"`
	SiteURL     string        `envconfig:"SITE_URL" default:"http://localhost:3000"`
	SiteTitle   string        `envconfig:"SITE_TITLE" default:"EUREKA AI Creative Studio"`
	Timeout     time.Duration `envconfig:"OPENROUTER_TIMEOUT" default:"60s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration. Credentials have no default: the
// affected gateway operations fail fast until they are configured.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Anthropic: AnthropicConfig{
			BaseURL:   "https://api.anthropic.com",
			Model:     "claude-3-5-sonnet-20241022",
			MaxTokens: 2048,
			Timeout:   60 * time.Second,
		},
		OpenRouter: OpenRouterConfig{
			BaseURL:     "https://openrouter.ai/api/v1",
			VisionModel: "google/gemini-2.5-flash-image-preview:free",
			ImageModel:  "openai/dall-e-3",
			ImageMode:   "images",
			SiteURL:     "http://localhost:3000",
			SiteTitle:   "EUREKA AI Creative Studio",
			Timeout:     60 * time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
