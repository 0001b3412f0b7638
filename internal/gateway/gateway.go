package gateway

import "context"

// Usage carries provider-reported token accounting for one call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Result is the normalized outcome of a successful provider call. For image
// generation, Text holds the resolvable image URL. Raw keeps the provider's
// payload for diagnostics.
type Result struct {
	Text  string
	Model string
	Usage Usage
	Raw   []byte
}

// Gateway is the uniform interface over the external AI capabilities. Each
// operation performs exactly one outbound HTTP call and normalizes its
// result; a missing credential fails immediately with a configuration error
// before any network I/O.
type Gateway interface {
	// DescribeImage analyzes a base64-encoded image in the context of the
	// user's message and returns the provider's free-text analysis.
	DescribeImage(ctx context.Context, imageBase64, contextMessage string) (*Result, error)

	// Chat requests a bounded-length, non-streamed completion and returns
	// the first text content block.
	Chat(ctx context.Context, prompt string) (*Result, error)

	// GenerateImage produces an image from a prompt and returns its URL in
	// Result.Text.
	GenerateImage(ctx context.Context, prompt string) (*Result, error)
}

// Multi composes the per-provider clients into one Gateway: Anthropic for
// text generation, OpenRouter for image understanding and generation.
type Multi struct {
	text   *Anthropic
	images *OpenRouter
}

// NewMulti creates a gateway over the given provider clients.
func NewMulti(text *Anthropic, images *OpenRouter) *Multi {
	return &Multi{text: text, images: images}
}

func (m *Multi) Chat(ctx context.Context, prompt string) (*Result, error) {
	return m.text.Chat(ctx, prompt)
}

func (m *Multi) DescribeImage(ctx context.Context, imageBase64, contextMessage string) (*Result, error) {
	return m.images.DescribeImage(ctx, imageBase64, contextMessage)
}

func (m *Multi) GenerateImage(ctx context.Context, prompt string) (*Result, error) {
	return m.images.GenerateImage(ctx, prompt)
}
