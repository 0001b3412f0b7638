package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/eurekastudio/creative-backend/internal/gateway/httpx"
	"github.com/eurekastudio/creative-backend/internal/infrastructure/config"
	"github.com/eurekastudio/creative-backend/internal/infrastructure/logging"
	"github.com/eurekastudio/creative-backend/internal/infrastructure/monitoring"
	"github.com/eurekastudio/creative-backend/internal/shared/apperr"
)

// analysisPrompt frames the vision request around the user's message.
const analysisPrompt = `Analyze this image and provide creative insights. User request: %s.

Please provide a comprehensive analysis covering:

**Visual Analysis:**
- Composition and layout structure
- Color palette and color usage patterns
- Lighting and shadow effects
- Depth and perspective

**Artistic Elements:**
- Style and artistic techniques used
- Visual elements and subject matter
- Mood and emotional impact
- Cultural or artistic references

**Technical Assessment:**
- Image quality and resolution
- Technical execution details
- Professional vs. amateur characteristics

**Creative Insights:**
- What makes this image effective
- Areas for potential improvement
- Creative suggestions for iteration
- Style transfer possibilities

Please be specific and provide actionable creative feedback.`

// generationPrompt decorates the user prompt for chat-mode image generation.
const generationPrompt = `Generate a creative image based on this description: %s. Please create a high-quality, artistic image that perfectly captures the essence of this prompt.`

// noAnalysisFallback is returned when the vision model replies with an empty
// message despite a successful call.
const noAnalysisFallback = "Image analysis completed but no detailed response received."

// OpenRouter is the image-understanding / image-generation provider client.
type OpenRouter struct {
	cfg     config.OpenRouterConfig
	client  *httpx.Client
	logger  *logging.Logger
	metrics *monitoring.Metrics

	statsDelay statsDelayFunc
}

// NewOpenRouter creates an OpenRouter client with its own circuit breaker.
func NewOpenRouter(cfg config.OpenRouterConfig, logger *logging.Logger, metrics *monitoring.Metrics) *OpenRouter {
	return &OpenRouter{
		cfg:        cfg,
		client:     httpx.New("openrouter", httpx.Config{Timeout: cfg.Timeout}),
		logger:     logger,
		metrics:    metrics,
		statsDelay: defaultStatsDelay,
	}
}

type orContentBlock struct {
	Type     string      `json:"type"`
	Text     string      `json:"text,omitempty"`
	ImageURL *orImageURL `json:"image_url,omitempty"`
}

type orImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type orMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type orChatRequest struct {
	Model       string      `json:"model"`
	Messages    []orMessage `json:"messages"`
	MaxTokens   int         `json:"max_tokens,omitempty"`
	Temperature float64     `json:"temperature,omitempty"`
	TopP        float64     `json:"top_p,omitempty"`
	Stream      bool        `json:"stream"`
}

type orError struct {
	Code    json.RawMessage `json:"code"`
	Message string          `json:"message"`
	Type    string          `json:"type"`
}

type orChoice struct {
	FinishReason string `json:"finish_reason"`
	Message      struct {
		Content json.RawMessage `json:"content"`
	} `json:"message"`
	Error *orError `json:"error"`
}

type orChatResponse struct {
	ID      string     `json:"id"`
	Model   string     `json:"model"`
	Choices []orChoice `json:"choices"`
	Usage   Usage      `json:"usage"`
	Error   *orError   `json:"error"`
}

type orImagesRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	Quality        string `json:"quality"`
	ResponseFormat string `json:"response_format"`
}

type orImagesResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
	Error *orError `json:"error"`
}

// DescribeImage sends the base64 image inline to the vision model and
// returns its free-text analysis. On success a detached cost-accounting
// lookup is scheduled; it never affects this call's result.
func (o *OpenRouter) DescribeImage(ctx context.Context, imageBase64, contextMessage string) (*Result, error) {
	if o.cfg.APIKey == "" {
		o.metrics.RecordProviderError("openrouter", "describe_image", string(apperr.KindConfiguration))
		return nil, apperr.Configuration("OpenRouter API key not configured for image analysis")
	}
	if imageBase64 == "" {
		return nil, apperr.Validation("image data is required")
	}

	body := orChatRequest{
		Model: o.cfg.VisionModel,
		Messages: []orMessage{{
			Role: "user",
			Content: []orContentBlock{
				{Type: "text", Text: fmt.Sprintf(analysisPrompt, contextMessage)},
				{Type: "image_url", ImageURL: &orImageURL{
					URL:    "data:image/jpeg;base64," + imageBase64,
					Detail: "high",
				}},
			},
		}},
		MaxTokens:   1500,
		Temperature: 0.7,
		TopP:        0.9,
		Stream:      false,
	}

	parsed, raw, err := o.chatCompletion(ctx, "describe_image", body)
	if err != nil {
		return nil, err
	}

	choice := parsed.Choices[0]
	switch choice.FinishReason {
	case "length":
		o.logger.Warn("image analysis truncated by length limit")
	case "content_filter":
		o.logger.Warn("image analysis filtered by content policy")
	}

	o.metrics.RecordTokens("openrouter", parsed.Usage.PromptTokens, parsed.Usage.CompletionTokens)
	o.logger.Info("image analysis completed",
		zap.String("model", parsed.Model),
		zap.Int("prompt_tokens", parsed.Usage.PromptTokens),
		zap.Int("completion_tokens", parsed.Usage.CompletionTokens),
		zap.Int("total_tokens", parsed.Usage.TotalTokens),
	)

	// Detailed per-generation cost stats lag behind the response; fetch them
	// out of band.
	if parsed.ID != "" {
		o.scheduleGenerationStats(parsed.ID)
	}

	text := contentText(choice.Message.Content)
	if text == "" {
		text = noAnalysisFallback
	}

	return &Result{Text: text, Model: parsed.Model, Usage: parsed.Usage, Raw: raw}, nil
}

// GenerateImage produces an image and returns its URL in Result.Text. In
// "images" mode the images API is used; in "chat" mode a completion is
// requested and the URL extracted from its content blocks.
func (o *OpenRouter) GenerateImage(ctx context.Context, prompt string) (*Result, error) {
	if o.cfg.APIKey == "" {
		o.metrics.RecordProviderError("openrouter", "generate_image", string(apperr.KindConfiguration))
		return nil, apperr.Configuration("OpenRouter API key not configured")
	}
	if prompt == "" {
		return nil, apperr.Validation("prompt is required")
	}

	if o.cfg.ImageMode == "chat" {
		return o.generateViaChat(ctx, prompt)
	}
	return o.generateViaImagesAPI(ctx, prompt)
}

func (o *OpenRouter) generateViaImagesAPI(ctx context.Context, prompt string) (*Result, error) {
	payload, err := sonic.Marshal(orImagesRequest{
		Model:          o.cfg.ImageModel,
		Prompt:         prompt,
		N:              1,
		Size:           "1024x1024",
		Quality:        "standard",
		ResponseFormat: "url",
	})
	if err != nil {
		return nil, apperr.Unexpected(err)
	}

	resp, raw, err := o.post(ctx, "generate_image", "/images/generations", payload)
	if err != nil {
		return nil, err
	}

	var parsed orImagesResponse
	if uerr := sonic.Unmarshal(raw, &parsed); uerr != nil {
		o.metrics.RecordProviderError("openrouter", "generate_image", string(apperr.KindProvider))
		return nil, apperr.Provider("failed to decode provider response").WithStatus(resp.StatusCode()).WithRaw(raw)
	}

	if resp.StatusCode() >= 400 || parsed.Error != nil {
		return nil, o.providerError("generate_image", resp.StatusCode(), resp.Status(), parsed.Error, raw)
	}

	if len(parsed.Data) == 0 || parsed.Data[0].URL == "" {
		o.metrics.RecordProviderError("openrouter", "generate_image", string(apperr.KindProvider))
		return nil, apperr.Provider("no image generated in response").WithCode("unparseable-response").WithRaw(raw)
	}

	o.metrics.IncImagesGenerated()
	o.logger.Info("image generated", zap.String("model", o.cfg.ImageModel))

	return &Result{Text: parsed.Data[0].URL, Model: o.cfg.ImageModel, Raw: raw}, nil
}

func (o *OpenRouter) generateViaChat(ctx context.Context, prompt string) (*Result, error) {
	body := orChatRequest{
		Model: o.cfg.ImageModel,
		Messages: []orMessage{{
			Role:    "user",
			Content: []orContentBlock{{Type: "text", Text: fmt.Sprintf(generationPrompt, prompt)}},
		}},
		MaxTokens:   2048,
		Temperature: 0.8,
		TopP:        0.9,
	}

	parsed, raw, err := o.chatCompletion(ctx, "generate_image", body)
	if err != nil {
		return nil, err
	}

	url := extractImageURL(parsed.Choices[0].Message.Content)
	if url == "" {
		o.metrics.RecordProviderError("openrouter", "generate_image", string(apperr.KindProvider))
		return nil, apperr.Provider("no image generated in response; the configured model may analyze rather than generate images").
			WithCode("unparseable-response").
			WithRaw(raw)
	}

	o.metrics.IncImagesGenerated()
	o.metrics.RecordTokens("openrouter", parsed.Usage.PromptTokens, parsed.Usage.CompletionTokens)
	o.logger.Info("image generated", zap.String("model", parsed.Model))

	return &Result{Text: url, Model: parsed.Model, Usage: parsed.Usage, Raw: raw}, nil
}

// chatCompletion posts to /chat/completions and normalizes transport errors,
// HTTP error statuses, and errors embedded inside 2xx payloads.
func (o *OpenRouter) chatCompletion(ctx context.Context, operation string, body orChatRequest) (*orChatResponse, []byte, error) {
	payload, err := sonic.Marshal(body)
	if err != nil {
		return nil, nil, apperr.Unexpected(err)
	}

	resp, raw, err := o.post(ctx, operation, "/chat/completions", payload)
	if err != nil {
		return nil, nil, err
	}

	var parsed orChatResponse
	if uerr := sonic.Unmarshal(raw, &parsed); uerr != nil {
		o.metrics.RecordProviderError("openrouter", operation, string(apperr.KindProvider))
		return nil, nil, apperr.Provider("failed to decode provider response").WithStatus(resp.StatusCode()).WithRaw(raw)
	}

	if resp.StatusCode() >= 400 || parsed.Error != nil {
		return nil, nil, o.providerError(operation, resp.StatusCode(), resp.Status(), parsed.Error, raw)
	}

	if len(parsed.Choices) == 0 {
		o.metrics.RecordProviderError("openrouter", operation, string(apperr.KindProvider))
		return nil, nil, apperr.Provider("response contains no choices").WithRaw(raw)
	}

	// A 2xx payload can still carry a per-choice error object.
	if cerr := parsed.Choices[0].Error; cerr != nil {
		o.metrics.RecordProviderError("openrouter", operation, string(apperr.KindProvider))
		o.logger.Error("provider returned embedded error",
			zap.String("operation", operation),
			zap.String("message", cerr.Message),
			zap.String("code", rawString(cerr.Code)),
		)
		return nil, nil, apperr.Provider(cerr.Message).WithCode(rawString(cerr.Code)).WithRaw(raw)
	}

	return &parsed, raw, nil
}

func (o *OpenRouter) post(ctx context.Context, operation, path string, payload []byte) (*resty.Response, []byte, error) {
	timer := monitoring.NewTimer(o.metrics, "openrouter", operation)

	req, err := o.client.Request(ctx)
	if err != nil {
		timer.Stop("error")
		o.metrics.RecordProviderError("openrouter", operation, string(apperr.KindProvider))
		return nil, nil, apperr.Provider(err.Error())
	}

	resp, err := o.client.Execute(func() (*resty.Response, error) {
		return req.
			SetHeader("Authorization", "Bearer "+o.cfg.APIKey).
			SetHeader("Content-Type", "application/json").
			SetHeader("HTTP-Referer", o.cfg.SiteURL).
			SetHeader("X-Title", o.cfg.SiteTitle).
			SetBody(payload).
			Post(o.cfg.BaseURL + path)
	})
	if err != nil {
		timer.Stop("error")
		o.metrics.RecordProviderError("openrouter", operation, string(apperr.KindProvider))
		o.logger.Error("openrouter call failed", zap.String("operation", operation), zap.Error(err))
		return nil, nil, apperr.Provider(err.Error())
	}

	if resp.StatusCode() >= 400 {
		timer.Stop("error")
	} else {
		timer.Stop("success")
	}

	return resp, resp.Body(), nil
}

func (o *OpenRouter) providerError(operation string, status int, statusText string, e *orError, raw []byte) error {
	o.metrics.RecordProviderError("openrouter", operation, string(apperr.KindProvider))

	msg := statusText
	code := ""
	if e != nil {
		msg = e.Message
		code = rawString(e.Code)
	}
	o.logger.Error("openrouter error",
		zap.String("operation", operation),
		zap.Int("status", status),
		zap.String("code", code),
		zap.String("message", msg),
	)
	return apperr.Provider(msg).WithCode(code).WithStatus(status).WithRaw(raw)
}
