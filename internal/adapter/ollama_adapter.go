// Package adapter provides implementations for external AI provider integrations.
package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/versekit/verse-router/internal/domain"
)

// responseField extracts a "response" value from raw text as a last resort
// when the body is not valid JSON.
var responseField = regexp.MustCompile(`"response":\s*"([^"]*)"`)

// OllamaAdapter implements CompletionProvider for Ollama's generate API.
// Ollama takes a flat prompt instead of role-tagged messages, so the
// conversation is flattened before sending.
type OllamaAdapter struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// OllamaAdapterOption is a functional option for configuring OllamaAdapter.
type OllamaAdapterOption func(*OllamaAdapter)

// WithOllamaHTTPClient sets a custom HTTP client.
func WithOllamaHTTPClient(client *http.Client) OllamaAdapterOption {
	return func(a *OllamaAdapter) {
		a.httpClient = client
	}
}

// WithOllamaTimeout sets the HTTP client timeout.
func WithOllamaTimeout(timeout time.Duration) OllamaAdapterOption {
	return func(a *OllamaAdapter) {
		if timeout > 0 {
			a.httpClient.Timeout = timeout
		}
	}
}

// NewOllamaAdapter creates an adapter for an Ollama generate endpoint.
func NewOllamaAdapter(endpoint, apiKey string, opts ...OllamaAdapterOption) *OllamaAdapter {
	a := &OllamaAdapter{
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
func (a *OllamaAdapter) Name() string {
	return "ollama"
}

// generatePayload is the Ollama generate request body.
type generatePayload struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Stream      bool    `json:"stream"`
}

// Complete performs a generate request against Ollama and returns the
// generated text.
func (a *OllamaAdapter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	payload := generatePayload{
		Model:       req.Model,
		Prompt:      MessagesToPrompt(req.Messages),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Stream:      false,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal ollama request: %w", err)
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
		return "", fmt.Errorf("failed to call ollama: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read ollama response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned %d: %s", resp.StatusCode, string(respBody))
	}

	return parseOllamaResponse(respBody), nil
}

// parseOllamaResponse extracts the generated text, handling the response
// shapes Ollama deployments have been seen to produce: a plain generate
// response, OpenAI-style choices, concatenated streaming chunks, and
// malformed bodies.
func parseOllamaResponse(body []byte) string {
	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		// Not a single JSON object: try concatenated streaming chunks,
		// then a regex scrape of the raw text.
		if text, ok := parseStreamingChunks(string(body)); ok {
			return text
		}
		return extractResponseFromText(string(body))
	}

	for _, key := range []string{"response", "text", "result"} {
		if value, ok := data[key].(string); ok {
			return value
		}
	}

	if choices, ok := data["choices"].([]any); ok && len(choices) > 0 {
		if choice, ok := choices[0].(map[string]any); ok {
			if message, ok := choice["message"].(map[string]any); ok {
				if content, ok := message["content"].(string); ok {
					return content
				}
			}
			for _, key := range []string{"content", "text"} {
				if value, ok := choice[key].(string); ok {
					return value
				}
			}
		}
	}

	// Last resort: return the raw body.
	return string(body)
}

// parseStreamingChunks joins the "response" fields of newline-delimited
// JSON chunks, the shape a streaming generate call produces.
func parseStreamingChunks(data string) (string, bool) {
	var parts []string

	for _, line := range strings.Split(strings.TrimSpace(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var chunk struct {
			Response string `json:"response"`
		}
		if err := json.Unmarshal([]byte(line), &chunk); err != nil {
			continue
		}
		if chunk.Response != "" {
			parts = append(parts, chunk.Response)
		}
	}

	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, ""), true
}

// extractResponseFromText scrapes a response value out of raw text.
func extractResponseFromText(text string) string {
	if m := responseField.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return text
}

// MessagesToPrompt flattens role-tagged messages into the bracketed prompt
// format used for providers without a chat API.
func MessagesToPrompt(messages []domain.Message) string {
	lines := make([]string, 0, len(messages))
	for _, msg := range messages {
		lines = append(lines, fmt.Sprintf("[%s] %s", strings.ToUpper(msg.Role), msg.Content))
	}
	return strings.Join(lines, "\n\n")
}
