package config

import (
	"testing"

	"github.com/versekit/verse-router/internal/domain"
)

func TestEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		provider ProviderConfig
		want     string
	}{
		{
			name:     "custom base url gets chat completions path",
			provider: ProviderConfig{Type: domain.ProviderMistral, BaseURL: "https://api.mistral.ai/v1"},
			want:     "https://api.mistral.ai/v1/chat/completions",
		},
		{
			name:     "base url already carrying the path is used verbatim",
			provider: ProviderConfig{Type: domain.ProviderOpenAI, BaseURL: "https://proxy.local/v1/chat/completions"},
			want:     "https://proxy.local/v1/chat/completions",
		},
		{
			name:     "trailing slash trimmed before joining",
			provider: ProviderConfig{Type: domain.ProviderOpenAI, BaseURL: "https://api.openai.com/v1/"},
			want:     "https://api.openai.com/v1/chat/completions",
		},
		{
			name:     "legacy ollama url wins for ollama provider",
			provider: ProviderConfig{Type: domain.ProviderOllama, OllamaURL: "http://localhost:11434/", BaseURL: "https://ignored.example"},
			want:     "http://localhost:11434/api/generate",
		},
		{
			name:     "ollama base url gets generate path",
			provider: ProviderConfig{Type: domain.ProviderOllama, BaseURL: "http://gpu-box:11434"},
			want:     "http://gpu-box:11434/api/generate",
		},
		{
			name:     "legacy ollama url ignored for openai provider",
			provider: ProviderConfig{Type: domain.ProviderOpenAI, OllamaURL: "http://localhost:11434"},
			want:     "https://api.openai.com/v1/chat/completions",
		},
		{
			name:     "unknown provider falls back to openai endpoint",
			provider: ProviderConfig{Type: domain.ProviderType("other")},
			want:     "https://api.openai.com/v1/chat/completions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Configuration{Provider: tt.provider}
			if got := cfg.Endpoint(); got != tt.want {
				t.Errorf("Endpoint() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		provider ProviderConfig
		want     bool
	}{
		{
			name:     "nothing set",
			provider: ProviderConfig{Type: domain.ProviderOpenAI},
			want:     false,
		},
		{
			name:     "openai-compatible with api key",
			provider: ProviderConfig{Type: domain.ProviderMistral, APIKey: "sk-test"},
			want:     true,
		},
		{
			name:     "legacy ollama key counts for compatible providers",
			provider: ProviderConfig{Type: domain.ProviderOpenAI, OllamaAPIKey: "legacy"},
			want:     true,
		},
		{
			name:     "legacy ollama url alone is enough",
			provider: ProviderConfig{Type: domain.ProviderOllama, OllamaURL: "http://localhost:11434"},
			want:     true,
		},
		{
			name:     "ollama without url is unconfigured even with key",
			provider: ProviderConfig{Type: domain.ProviderOllama, APIKey: "sk-test"},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Configuration{Provider: tt.provider}
			if got := cfg.IsConfigured(); got != tt.want {
				t.Errorf("IsConfigured() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	valid := Configuration{
		Server:   ServerConfig{Port: 5000},
		Provider: ProviderConfig{Type: domain.ProviderOpenAI, TimeoutSeconds: 120},
		Defaults: DefaultsConfig{MaxTokens: 256},
		Logging:  LoggingConfig{Level: "info"},
	}

	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}

	invalid := valid
	invalid.Server.Port = 0
	invalid.Provider.Type = "carrier-pigeon"
	invalid.Logging.Level = "loud"

	err := invalid.Validate()
	if err == nil {
		t.Fatal("Validate() expected error, got nil")
	}
	verr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("Validate() error type = %T, want *ValidationError", err)
	}
	for _, field := range []string{"server.port", "provider.type", "logging.level"} {
		if !verr.HasError(field) {
			t.Errorf("ValidationError missing %s", field)
		}
	}
}
