// Package adapter provides implementations for external AI provider
// integrations. It uses the Adapter pattern to abstract provider-specific
// APIs behind a common interface: given role-tagged messages, a model
// identifier, and generation parameters, return generated text or fail with
// a provider error.
package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/versekit/verse-router/internal/config"
	"github.com/versekit/verse-router/internal/domain"
)

// CompletionRequest carries everything a provider needs to generate text.
type CompletionRequest struct {
	// Model is the provider-side model identifier.
	Model string

	// Messages is the role-tagged conversation.
	Messages []domain.Message

	// MaxTokens limits the response length.
	MaxTokens int

	// Temperature is the sampling temperature.
	Temperature float64
}

// CompletionProvider defines the interface all provider adapters satisfy.
type CompletionProvider interface {
	// Complete performs a completion request and returns the generated text.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// Name returns the provider's identifier string.
	Name() string
}

// FromConfig constructs the provider adapter selected by the configuration.
// Callers should check cfg.IsConfigured() first; an unconfigured provider
// still yields an adapter, it will just fail on use.
func FromConfig(cfg *config.Configuration) (CompletionProvider, error) {
	endpoint := cfg.Endpoint()
	apiKey := cfg.ResolveAPIKey()
	timeout := time.Duration(cfg.Provider.TimeoutSeconds) * time.Second

	switch {
	case cfg.Provider.Type == domain.ProviderOllama:
		return NewOllamaAdapter(endpoint, apiKey, WithOllamaTimeout(timeout)), nil
	case cfg.Provider.Type.IsOpenAICompatible():
		return NewOpenAIAdapter(string(cfg.Provider.Type), endpoint, apiKey, WithTimeout(timeout)), nil
	default:
		return nil, fmt.Errorf("unsupported provider type %q", cfg.Provider.Type)
	}
}
