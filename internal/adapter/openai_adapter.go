// Package adapter provides implementations for external AI provider integrations.
package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/versekit/verse-router/internal/domain"
)

// DefaultTimeout is the default HTTP client timeout for provider calls.
const DefaultTimeout = 120 * time.Second

// OpenAIAdapter implements CompletionProvider for OpenAI-compatible chat
// completion APIs. It serves both OpenAI and Mistral, which share the wire
// format; only the endpoint and key differ.
type OpenAIAdapter struct {
	name       string
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// OpenAIAdapterOption is a functional option for configuring OpenAIAdapter.
type OpenAIAdapterOption func(*OpenAIAdapter)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) OpenAIAdapterOption {
	return func(a *OpenAIAdapter) {
		a.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) OpenAIAdapterOption {
	return func(a *OpenAIAdapter) {
		if timeout > 0 {
			a.httpClient.Timeout = timeout
		}
	}
}

// NewOpenAIAdapter creates an adapter for an OpenAI-compatible endpoint.
// The name identifies the concrete provider ("openai", "mistral") in logs
// and error messages.
func NewOpenAIAdapter(name, endpoint, apiKey string, opts ...OpenAIAdapterOption) *OpenAIAdapter {
	a := &OpenAIAdapter{
		name:     name,
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Name returns the provider identifier.
func (a *OpenAIAdapter) Name() string {
	return a.name
}

// chatCompletionPayload is the OpenAI-compatible request body.
type chatCompletionPayload struct {
	Model       string           `json:"model"`
	Messages    []domain.Message `json:"messages"`
	MaxTokens   int              `json:"max_tokens"`
	Temperature float64          `json:"temperature"`
}

// chatCompletionResult is the subset of the OpenAI-compatible response the
// adapter consumes.
type chatCompletionResult struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		Text string `json:"text"`
	} `json:"choices"`
}

// apiErrorEnvelope is the OpenAI-compatible error body.
type apiErrorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete performs a chat completion request against the configured
// endpoint and returns the generated text.
func (a *OpenAIAdapter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	payload := chatCompletionPayload{
		Model:       req.Model,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s request: %w", a.name, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to call %s: %w", a.name, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read %s response: %w", a.name, err)
	}

	if resp.StatusCode != http.StatusOK {
		detail := string(respBody)
		var envelope apiErrorEnvelope
		if err := json.Unmarshal(respBody, &envelope); err == nil && envelope.Error.Message != "" {
			detail = envelope.Error.Message
		}
		return "", fmt.Errorf("%s returned %d: %s", a.name, resp.StatusCode, detail)
	}

	var result chatCompletionResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("failed to unmarshal %s response: %w", a.name, err)
	}

	if len(result.Choices) > 0 {
		choice := result.Choices[0]
		if choice.Message.Content != "" {
			return choice.Message.Content, nil
		}
		if choice.Text != "" {
			return choice.Text, nil
		}
	}

	return "", fmt.Errorf("unexpected response format from %s", a.name)
}
