package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	anthropicAPIVersion  = "2023-06-01"
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
)

type anthropicRequest struct {
	Model     string             `json:"model"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
	MaxTokens int                `json:"max_tokens"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []anthropicContent `json:"content"`
	Error   *anthropicError    `json:"error,omitempty"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// AnthropicConfig configures the Messages API client.
type AnthropicConfig struct {
	APIKey    string
	Model     string
	URL       string
	MaxTokens int
	Timeout   time.Duration
}

// AnthropicLLM calls the Anthropic Messages API over HTTP.
type AnthropicLLM struct {
	httpClient *http.Client
	apiKey     string
	model      string
	url        string
	maxTokens  int
}

// NewAnthropicLLM constructs the client.
func NewAnthropicLLM(cfg AnthropicConfig) *AnthropicLLM {
	if cfg.Model == "" {
		cfg.Model = "claude-sonnet-4-20250514"
	}
	if cfg.URL == "" {
		cfg.URL = anthropicMessagesURL
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &AnthropicLLM{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		url:        cfg.URL,
		maxTokens:  cfg.MaxTokens,
	}
}

// Complete sends one user message under the system prompt and joins the text blocks of the reply.
func (a *AnthropicLLM) Complete(ctx context.Context, system, prompt string) (string, error) {
	if a.apiKey == "" {
		return "", ErrNotConfigured
	}
	payload, err := json.Marshal(anthropicRequest{
		Model:     a.model,
		System:    system,
		Messages:  []anthropicMessage{{Role: "user", Content: prompt}},
		MaxTokens: a.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal anthropic request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build anthropic request: %w", err)
	}
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", anthropicAPIVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read anthropic response: %w", err)
	}
	var parsed anthropicResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("anthropic API returned status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("decode anthropic response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("anthropic API error: %s - %s", parsed.Error.Type, parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("anthropic API returned status %d", resp.StatusCode)
	}

	var text strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return text.String(), nil
}

// Close drops idle keep-alive connections.
func (a *AnthropicLLM) Close() error {
	a.httpClient.CloseIdleConnections()
	return nil
}
