package rag

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnthropicLLMComplete(t *testing.T) {
	var captured anthropicRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicAPIVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Hello "},{"type":"text","text":"student"}]}`))
	}))
	defer server.Close()

	llm := NewAnthropicLLM(AnthropicConfig{APIKey: "test-key", URL: server.URL, MaxTokens: 256})
	text, err := llm.Complete(context.Background(), "system prompt", "question")
	require.NoError(t, err)
	assert.Equal(t, "Hello student", text)
	assert.Equal(t, "system prompt", captured.System)
	assert.Equal(t, 256, captured.MaxTokens)
	require.Len(t, captured.Messages, 1)
	assert.Equal(t, "user", captured.Messages[0].Role)
	assert.NoError(t, llm.Close())
}

func TestAnthropicLLMErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer server.Close()

	llm := NewAnthropicLLM(AnthropicConfig{APIKey: "test-key", URL: server.URL})
	_, err := llm.Complete(context.Background(), "s", "p")
	assert.ErrorContains(t, err, "rate_limit_error - slow down")

	_, err = NewAnthropicLLM(AnthropicConfig{}).Complete(context.Background(), "s", "p")
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func TestAnthropicLLMNonJSONFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	_, err := NewAnthropicLLM(AnthropicConfig{APIKey: "k", URL: server.URL}).Complete(context.Background(), "s", "p")
	assert.ErrorContains(t, err, "status 502")
}
