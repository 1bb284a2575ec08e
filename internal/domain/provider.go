// Package domain contains the core business entities and value objects.
// These structs are framework-agnostic and represent the heart of the application.
package domain

// ProviderType represents the type of upstream AI provider.
type ProviderType string

const (
	ProviderOpenAI  ProviderType = "openai"
	ProviderMistral ProviderType = "mistral"
	ProviderOllama  ProviderType = "ollama"
)

// DefaultEndpoints maps each provider type to its default API endpoint.
// The Ollama entry is a relative path and must be joined onto a base URL.
var DefaultEndpoints = map[ProviderType]string{
	ProviderOpenAI:  "https://api.openai.com/v1/chat/completions",
	ProviderMistral: "https://api.mistral.ai/v1/chat/completions",
	ProviderOllama:  "/api/generate",
}

// IsOpenAICompatible reports whether the provider speaks the OpenAI
// chat-completions wire format. Everything except Ollama does.
func (p ProviderType) IsOpenAICompatible() bool {
	return p != ProviderOllama
}

// IsValid checks if the provider type is one of the supported values.
func (p ProviderType) IsValid() bool {
	switch p {
	case ProviderOpenAI, ProviderMistral, ProviderOllama:
		return true
	default:
		return false
	}
}
