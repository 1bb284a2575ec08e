// Package handler provides HTTP handlers for the verse router.
package handler

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/versekit/verse-router/internal/domain"
)

// OpenAI-compatible response envelope. Both the provider path and the
// deterministic local path produce this shape, so clients cannot tell them
// apart.

// ChatCompletionResponse is an OpenAI-compatible chat completion response.
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice is a single completion choice.
type Choice struct {
	Index        int            `json:"index"`
	Message      domain.Message `json:"message"`
	FinishReason string         `json:"finish_reason"`
}

// Usage contains token usage statistics.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// BuildChatCompletion wraps generated content in an OpenAI-compatible
// envelope. Token usage is a word-count approximation; prompt tokens are
// not tracked.
func BuildChatCompletion(content, model string) ChatCompletionResponse {
	tokens := CountTokens(content)

	return ChatCompletionResponse{
		ID:      "chatcmpl-" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []Choice{
			{
				Index: 0,
				Message: domain.Message{
					Role:    domain.RoleAssistant,
					Content: content,
				},
				FinishReason: "stop",
			},
		},
		Usage: Usage{
			PromptTokens:     0,
			CompletionTokens: tokens,
			TotalTokens:      tokens,
		},
	}
}

// CountTokens approximates a token count as the number of
// whitespace-separated words.
func CountTokens(text string) int {
	return len(strings.Fields(text))
}
