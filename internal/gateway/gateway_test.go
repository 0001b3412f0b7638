package gateway

import (
	"time"

	"github.com/eurekastudio/creative-backend/internal/infrastructure/config"
	"github.com/eurekastudio/creative-backend/internal/infrastructure/logging"
	"github.com/eurekastudio/creative-backend/internal/infrastructure/monitoring"
)

// Prometheus collectors register globally, so the whole package shares one
// metrics instance.
var testMetrics = monitoring.NewMetrics()

func testAnthropic(baseURL string) *Anthropic {
	return NewAnthropic(config.AnthropicConfig{
		APIKey:    "test-key",
		BaseURL:   baseURL,
		Model:     "claude-3-5-sonnet-20241022",
		MaxTokens: 2048,
		Timeout:   5 * time.Second,
	}, logging.NewNop(), testMetrics)
}

func testOpenRouter(baseURL, imageMode string) *OpenRouter {
	o := NewOpenRouter(config.OpenRouterConfig{
		APIKey:      "test-key",
		BaseURL:     baseURL,
		VisionModel: "google/gemini-2.5-flash-image-preview:free",
		ImageModel:  "openai/dall-e-3",
		ImageMode:   imageMode,
		SiteURL:     "http://localhost:3000",
		SiteTitle:   "Test Studio",
		Timeout:     5 * time.Second,
	}, logging.NewNop(), testMetrics)
	o.statsDelay = func() {}
	return o
}
