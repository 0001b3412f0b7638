package gateway

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/eurekastudio/creative-backend/internal/gateway/httpx"
	"github.com/eurekastudio/creative-backend/internal/infrastructure/config"
	"github.com/eurekastudio/creative-backend/internal/infrastructure/logging"
	"github.com/eurekastudio/creative-backend/internal/infrastructure/monitoring"
	"github.com/eurekastudio/creative-backend/internal/shared/apperr"
)

const anthropicVersion = "2023-06-01"

// Anthropic is the text-generation provider client (Messages API).
type Anthropic struct {
	cfg     config.AnthropicConfig
	client  *httpx.Client
	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// NewAnthropic creates an Anthropic client with its own circuit breaker.
func NewAnthropic(cfg config.AnthropicConfig, logger *logging.Logger, metrics *monitoring.Metrics) *Anthropic {
	return &Anthropic{
		cfg:     cfg,
		client:  httpx.New("anthropic", httpx.Config{Timeout: cfg.Timeout}),
		logger:  logger,
		metrics: metrics,
	}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type anthropicResponse struct {
	Type    string                  `json:"type"`
	Model   string                  `json:"model"`
	Content []anthropicContentBlock `json:"content"`
	Usage   anthropicUsage          `json:"usage"`
	Error   *anthropicError         `json:"error"`
}

type anthropicError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Chat requests a bounded, non-streamed completion and returns the first
// text content block.
func (a *Anthropic) Chat(ctx context.Context, prompt string) (*Result, error) {
	if a.cfg.APIKey == "" {
		a.metrics.RecordProviderError("anthropic", "chat", string(apperr.KindConfiguration))
		return nil, apperr.Configuration("Anthropic API key not configured")
	}

	payload, err := sonic.Marshal(anthropicRequest{
		Model:     a.cfg.Model,
		MaxTokens: a.cfg.MaxTokens,
		Messages:  []anthropicMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, apperr.Unexpected(err)
	}

	timer := monitoring.NewTimer(a.metrics, "anthropic", "chat")

	req, err := a.client.Request(ctx)
	if err != nil {
		timer.Stop("error")
		a.metrics.RecordProviderError("anthropic", "chat", string(apperr.KindProvider))
		return nil, apperr.Provider(err.Error())
	}

	resp, err := a.client.Execute(func() (*resty.Response, error) {
		return req.
			SetHeader("x-api-key", a.cfg.APIKey).
			SetHeader("anthropic-version", anthropicVersion).
			SetHeader("Content-Type", "application/json").
			SetBody(payload).
			Post(a.cfg.BaseURL + "/v1/messages")
	})
	if err != nil {
		timer.Stop("error")
		a.metrics.RecordProviderError("anthropic", "chat", string(apperr.KindProvider))
		a.logger.Error("anthropic chat call failed", zap.Error(err))
		return nil, apperr.Provider(err.Error())
	}

	raw := resp.Body()

	var parsed anthropicResponse
	if err := sonic.Unmarshal(raw, &parsed); err != nil {
		timer.Stop("error")
		a.metrics.RecordProviderError("anthropic", "chat", string(apperr.KindProvider))
		return nil, apperr.Provider("failed to decode provider response").WithStatus(resp.StatusCode()).WithRaw(raw)
	}

	if resp.StatusCode() >= 400 || parsed.Type == "error" {
		timer.Stop("error")
		a.metrics.RecordProviderError("anthropic", "chat", string(apperr.KindProvider))

		msg := resp.Status()
		code := ""
		if parsed.Error != nil {
			msg = parsed.Error.Message
			code = parsed.Error.Type
		}
		a.logger.Error("anthropic chat error",
			zap.Int("status", resp.StatusCode()),
			zap.String("code", code),
			zap.String("message", msg),
		)
		return nil, apperr.Provider(msg).WithCode(code).WithStatus(resp.StatusCode()).WithRaw(raw)
	}

	text, ok := firstTextBlock(parsed.Content)
	if !ok {
		timer.Stop("error")
		a.metrics.RecordProviderError("anthropic", "chat", string(apperr.KindProvider))
		return nil, apperr.Provider("response contains no text content").WithRaw(raw)
	}

	timer.Stop("success")
	a.metrics.RecordTokens("anthropic", parsed.Usage.InputTokens, parsed.Usage.OutputTokens)
	a.logger.Info("anthropic chat completed",
		zap.String("model", parsed.Model),
		zap.Int("input_tokens", parsed.Usage.InputTokens),
		zap.Int("output_tokens", parsed.Usage.OutputTokens),
	)

	return &Result{
		Text:  text,
		Model: parsed.Model,
		Usage: Usage{
			PromptTokens:     parsed.Usage.InputTokens,
			CompletionTokens: parsed.Usage.OutputTokens,
			TotalTokens:      parsed.Usage.InputTokens + parsed.Usage.OutputTokens,
		},
		Raw: raw,
	}, nil
}

func firstTextBlock(blocks []anthropicContentBlock) (string, bool) {
	for _, b := range blocks {
		if b.Type == "text" {
			return b.Text, true
		}
	}
	return "", false
}
