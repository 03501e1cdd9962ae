package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatServer(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewOpenAIProvider(OpenAIConfig{
		APIKey:      "test-key",
		BaseURL:     server.URL + "/v1/",
		Temperature: DefaultTemperature,
	})
	require.NoError(t, err)
	return p
}

func TestNewOpenAIProvider_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIProvider(OpenAIConfig{})
	assert.Error(t, err)
}

func TestOpenAIProvider_ChatCompletion(t *testing.T) {
	var got struct {
		Model       string        `json:"model"`
		Messages    []ChatMessage `json:"messages"`
		Temperature float32       `json:"temperature"`
		MaxTokens   int           `json:"max_tokens"`
	}
	p := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hello there"}, "finish_reason": "stop"}]
		}`))
	})

	reply, err := p.ChatCompletion(context.Background(), []ChatMessage{
		{Role: RoleSystem, Content: "be brief"},
		{Role: RoleUser, Content: "hi"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Hello there", reply)
	assert.Equal(t, DefaultModel, got.Model)
	assert.InDelta(t, DefaultTemperature, got.Temperature, 0.001)
	assert.Equal(t, DefaultMaxTokens, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, RoleSystem, got.Messages[0].Role)
	assert.Equal(t, "hi", got.Messages[1].Content)
}

func TestOpenAIProvider_EmptyContent(t *testing.T) {
	p := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": [{"index": 0, "message": {"role": "assistant", "content": "  "}}]}`))
	})

	_, err := p.ChatCompletion(context.Background(), []ChatMessage{{Role: RoleUser, Content: "hi"}})

	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	p := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": []}`))
	})

	_, err := p.ChatCompletion(context.Background(), []ChatMessage{{Role: RoleUser, Content: "hi"}})

	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOpenAIProvider_APIError(t *testing.T) {
	p := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`))
	})

	_, err := p.ChatCompletion(context.Background(), []ChatMessage{{Role: RoleUser, Content: "hi"}})

	require.Error(t, err)
	assert.Equal(t, "chat failed (401): Incorrect API key provided", err.Error())
}
