package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eurekastudio/creative-backend/internal/gateway"
	"github.com/eurekastudio/creative-backend/internal/infrastructure/logging"
	"github.com/eurekastudio/creative-backend/internal/shared/apperr"
	"github.com/eurekastudio/creative-backend/internal/shared/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeResponder struct {
	resp   *types.ChatResponse
	err    error
	called bool
}

func (f *fakeResponder) Respond(_ context.Context, _ types.ChatRequest) (*types.ChatResponse, error) {
	f.called = true
	return f.resp, f.err
}

type fakeImages struct {
	res *gateway.Result
	err error
}

func (f *fakeImages) GenerateImage(_ context.Context, _ string) (*gateway.Result, error) {
	return f.res, f.err
}

func newRouter(chat Responder, images ImageGenerator) *gin.Engine {
	h := NewHandler(chat, images, logging.NewNop())
	r := gin.New()
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.POST("/chat", h.Chat)
	r.POST("/generate-image", h.GenerateImage)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestChatSuccess(t *testing.T) {
	url := "https://img.example.com/a.png"
	chat := &fakeResponder{resp: &types.ChatResponse{Content: "narration", ImageURL: &url, Success: true}}
	r := newRouter(chat, &fakeImages{})

	w := doJSON(t, r, http.MethodPost, "/chat", gin.H{"message": "generate a sunset"})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp types.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "narration", resp.Content)
	require.NotNil(t, resp.ImageURL)
	assert.Equal(t, url, *resp.ImageURL)
	assert.True(t, resp.Success)
}

func TestChatNullImageURLSerialized(t *testing.T) {
	chat := &fakeResponder{resp: &types.ChatResponse{Content: "hi", Success: true}}
	r := newRouter(chat, &fakeImages{})

	w := doJSON(t, r, http.MethodPost, "/chat", gin.H{"message": "hello"})
	assert.Equal(t, http.StatusOK, w.Code)
	// imageUrl must be an explicit null, not omitted.
	assert.Contains(t, w.Body.String(), `"imageUrl":null`)
}

func TestChatMissingMessage(t *testing.T) {
	chat := &fakeResponder{}
	r := newRouter(chat, &fakeImages{})

	w := doJSON(t, r, http.MethodPost, "/chat", gin.H{"referenceImage": "aGVsbG8="})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Message is required")
	assert.False(t, chat.called)
}

func TestChatConfigurationError(t *testing.T) {
	chat := &fakeResponder{err: apperr.Configuration("Anthropic API key not configured")}
	r := newRouter(chat, &fakeImages{})

	w := doJSON(t, r, http.MethodPost, "/chat", gin.H{"message": "hello"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	// Operational detail stays out of the response body.
	assert.NotContains(t, w.Body.String(), "API key")
}

func TestChatProviderErrorPassthrough(t *testing.T) {
	chat := &fakeResponder{err: apperr.Provider("Rate limit exceeded").WithStatus(http.StatusTooManyRequests)}
	r := newRouter(chat, &fakeImages{})

	w := doJSON(t, r, http.MethodPost, "/chat", gin.H{"message": "hello"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Rate limit exceeded")
}

func TestChatProviderErrorWithoutStatus(t *testing.T) {
	chat := &fakeResponder{err: apperr.Provider("connection refused")}
	r := newRouter(chat, &fakeImages{})

	w := doJSON(t, r, http.MethodPost, "/chat", gin.H{"message": "hello"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestChatUnexpectedError(t *testing.T) {
	chat := &fakeResponder{err: apperr.Unexpected(assert.AnError)}
	r := newRouter(chat, &fakeImages{})

	w := doJSON(t, r, http.MethodPost, "/chat", gin.H{"message": "hello"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
}

func TestChatIgnoresConversationHistory(t *testing.T) {
	chat := &fakeResponder{resp: &types.ChatResponse{Content: "hi", Success: true}}
	r := newRouter(chat, &fakeImages{})

	w := doJSON(t, r, http.MethodPost, "/chat", gin.H{
		"message": "hello",
		"conversationHistory": []gin.H{
			{"id": "1", "role": "user", "content": "earlier", "timestamp": "2026-08-01T10:00:00Z"},
			{"id": "2", "role": "assistant", "content": "reply", "imageUrl": "https://i.example/p.png"},
		},
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGenerateImageSuccess(t *testing.T) {
	images := &fakeImages{res: &gateway.Result{Text: "https://img.example.com/fox.png"}}
	r := newRouter(&fakeResponder{}, images)

	w := doJSON(t, r, http.MethodPost, "/generate-image", gin.H{"prompt": "a red fox"})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp types.ImageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "https://img.example.com/fox.png", resp.ImageURL)
	assert.Equal(t, "a red fox", resp.Prompt)
	assert.True(t, resp.Success)
}

func TestGenerateImageMissingPrompt(t *testing.T) {
	r := newRouter(&fakeResponder{}, &fakeImages{})

	w := doJSON(t, r, http.MethodPost, "/generate-image", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Prompt is required")
}

func TestGenerateImageUnparseableIncludesRaw(t *testing.T) {
	images := &fakeImages{err: apperr.Provider("no image generated in response").
		WithCode("unparseable-response").
		WithRaw([]byte(`{"choices":[{"message":{"content":"I only describe images"}}]}`))}
	r := newRouter(&fakeResponder{}, images)

	w := doJSON(t, r, http.MethodPost, "/generate-image", gin.H{"prompt": "a red fox"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "no image generated in response")
	assert.Contains(t, w.Body.String(), "I only describe images")
}

func TestGenerateImageProviderStatusPassthrough(t *testing.T) {
	images := &fakeImages{err: apperr.Provider("Insufficient credits").WithStatus(http.StatusPaymentRequired)}
	r := newRouter(&fakeResponder{}, images)

	w := doJSON(t, r, http.MethodPost, "/generate-image", gin.H{"prompt": "a red fox"})
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
}

func TestRootAndHealth(t *testing.T) {
	r := newRouter(&fakeResponder{}, &fakeImages{})

	w := doJSON(t, r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "creative-backend")

	w = doJSON(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
