package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eurekastudio/creative-backend/internal/shared/apperr"
)

func TestAnthropicChatSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"type": "message",
			"model": "claude-3-5-sonnet-20241022",
			"content": [{"type": "text", "text": "Hello there!"}],
			"usage": {"input_tokens": 12, "output_tokens": 5}
		}`))
	}))
	defer srv.Close()

	res, err := testAnthropic(srv.URL).Chat(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hello there!", res.Text)
	assert.Equal(t, "claude-3-5-sonnet-20241022", res.Model)
	assert.Equal(t, 12, res.Usage.PromptTokens)
	assert.Equal(t, 5, res.Usage.CompletionTokens)
	assert.Equal(t, 17, res.Usage.TotalTokens)
}

func TestAnthropicChatMissingKey(t *testing.T) {
	a := testAnthropic("http://unused")
	a.cfg.APIKey = ""

	_, err := a.Chat(context.Background(), "hello")
	require.Error(t, err)
	assert.Equal(t, apperr.KindConfiguration, apperr.KindOf(err))
}

func TestAnthropicChatProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"type": "error", "error": {"type": "rate_limit_error", "message": "Rate limit exceeded"}}`))
	}))
	defer srv.Close()

	_, err := testAnthropic(srv.URL).Chat(context.Background(), "hello")
	require.Error(t, err)
	assert.Equal(t, apperr.KindProvider, apperr.KindOf(err))

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Rate limit exceeded", appErr.Message)
	assert.Equal(t, "rate_limit_error", appErr.Code)
	assert.Equal(t, http.StatusTooManyRequests, appErr.Status)
	assert.NotEmpty(t, appErr.Raw)
}

func TestAnthropicChatEmbeddedErrorOn200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"type": "error", "error": {"type": "overloaded_error", "message": "Overloaded"}}`))
	}))
	defer srv.Close()

	_, err := testAnthropic(srv.URL).Chat(context.Background(), "hello")
	require.Error(t, err)
	assert.Equal(t, apperr.KindProvider, apperr.KindOf(err))
}

func TestAnthropicChatNoTextContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"type": "message", "model": "m", "content": [], "usage": {"input_tokens": 1, "output_tokens": 0}}`))
	}))
	defer srv.Close()

	_, err := testAnthropic(srv.URL).Chat(context.Background(), "hello")
	require.Error(t, err)
	assert.Equal(t, apperr.KindProvider, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "no text content")
}

func TestMultiDelegation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"type": "message",
			"model": "m",
			"content": [{"type": "text", "text": "ok"}],
			"usage": {"input_tokens": 1, "output_tokens": 1}
		}`))
	}))
	defer srv.Close()

	m := NewMulti(testAnthropic(srv.URL), testOpenRouter("http://unused", "images"))

	res, err := m.Chat(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Text)

	var _ Gateway = m
}
