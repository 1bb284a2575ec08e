// Package config provides explicit application configuration loaded once at
// process start from environment variables and an optional config.yaml via
// Viper. The configuration object is passed by reference to the components
// that need it; the formatter core takes no configuration at all.
package config

import (
	"fmt"
	"strings"

	"github.com/versekit/verse-router/internal/domain"
)

// Configuration holds all application configuration values.
type Configuration struct {
	// Server configuration
	Server ServerConfig `json:"server" mapstructure:"server"`

	// Provider configuration for the upstream AI service
	Provider ProviderConfig `json:"provider" mapstructure:"provider"`

	// Defaults applied when requests omit generation parameters
	Defaults DefaultsConfig `json:"defaults" mapstructure:"defaults"`

	// Logging configuration
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	// Host is the server bind address.
	Host string `json:"host" mapstructure:"host"`

	// Port is the server port number.
	Port int `json:"port" mapstructure:"port"`

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeoutSeconds int `json:"read_timeout_seconds" mapstructure:"read_timeout_seconds"`

	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeoutSeconds int `json:"write_timeout_seconds" mapstructure:"write_timeout_seconds"`

	// ShutdownTimeout is the maximum duration to wait for active connections to finish.
	ShutdownTimeoutSeconds int `json:"shutdown_timeout_seconds" mapstructure:"shutdown_timeout_seconds"`
}

// ProviderConfig holds the upstream provider configuration.
type ProviderConfig struct {
	// Type selects the upstream provider (openai, mistral, ollama).
	// OpenAI and Mistral share the OpenAI-compatible wire format.
	Type domain.ProviderType `json:"type" mapstructure:"type"`

	// BaseURL is the provider API base URL. When it already contains
	// /chat/completions it is used verbatim.
	BaseURL string `json:"base_url" mapstructure:"base_url"`

	// APIKey authenticates against the provider. Empty means the provider
	// is unconfigured and the deterministic local path is used.
	APIKey string `json:"api_key" mapstructure:"api_key"`

	// OllamaURL is the legacy Ollama base URL, kept for backward
	// compatibility with older deployments.
	OllamaURL string `json:"ollama_url" mapstructure:"ollama_url"`

	// OllamaAPIKey is the legacy Ollama key fallback.
	OllamaAPIKey string `json:"ollama_api_key" mapstructure:"ollama_api_key"`

	// TimeoutSeconds is the upstream request timeout.
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// DefaultsConfig holds generation defaults applied to incoming requests.
type DefaultsConfig struct {
	// Model is the default chat model.
	Model string `json:"model" mapstructure:"model"`

	// MaxTokens is the default completion budget for chat requests.
	MaxTokens int `json:"max_tokens" mapstructure:"max_tokens"`

	// Temperature is the default sampling temperature.
	Temperature float64 `json:"temperature" mapstructure:"temperature"`

	// VerseModel is the default model for the verse-formatting endpoints.
	VerseModel string `json:"verse_model" mapstructure:"verse_model"`

	// VerseMaxTokens is the completion budget for verse formatting. Arrays
	// are returned whole, so it is larger than the chat default.
	VerseMaxTokens int `json:"verse_max_tokens" mapstructure:"verse_max_tokens"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `json:"level" mapstructure:"level"`

	// Format is the log format (json, text).
	Format string `json:"format" mapstructure:"format"`
}

// Endpoint resolves the full upstream API endpoint from the provider
// configuration. The legacy Ollama URL is honored only when the provider is
// explicitly Ollama; otherwise a custom base URL gets the chat-completions
// path appended unless it already carries one.
func (c *Configuration) Endpoint() string {
	p := c.Provider

	if p.Type == domain.ProviderOllama && p.OllamaURL != "" {
		return strings.TrimSuffix(p.OllamaURL, "/") + domain.DefaultEndpoints[domain.ProviderOllama]
	}

	if p.BaseURL != "" {
		if p.Type == domain.ProviderOllama {
			return strings.TrimSuffix(p.BaseURL, "/") + domain.DefaultEndpoints[domain.ProviderOllama]
		}
		if strings.Contains(p.BaseURL, "/chat/completions") {
			return p.BaseURL
		}
		return strings.TrimSuffix(p.BaseURL, "/") + "/chat/completions"
	}

	if endpoint, ok := domain.DefaultEndpoints[p.Type]; ok && p.Type != domain.ProviderOllama {
		return endpoint
	}
	return domain.DefaultEndpoints[domain.ProviderOpenAI]
}

// ResolveAPIKey returns the API key, preferring the unified key over the
// legacy Ollama key.
func (c *Configuration) ResolveAPIKey() string {
	if c.Provider.APIKey != "" {
		return c.Provider.APIKey
	}
	return c.Provider.OllamaAPIKey
}

// IsConfigured reports whether an upstream provider can be called. The
// legacy Ollama URL alone is enough; OpenAI-compatible providers need a key.
func (c *Configuration) IsConfigured() bool {
	if c.Provider.OllamaURL != "" {
		return true
	}
	if c.Provider.Type.IsOpenAICompatible() && c.ResolveAPIKey() != "" {
		return true
	}
	return false
}

// Validate validates the configuration and returns an error if required
// fields are missing or malformed.
func (c *Configuration) Validate() error {
	var validationErrors []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		validationErrors = append(validationErrors, "server.port must be between 1 and 65535")
	}

	if !c.Provider.Type.IsValid() {
		validationErrors = append(validationErrors, fmt.Sprintf(
			"provider.type '%s' is invalid, must be one of: openai, mistral, ollama",
			c.Provider.Type,
		))
	}

	if c.Provider.TimeoutSeconds <= 0 {
		validationErrors = append(validationErrors, "provider.timeout_seconds must be positive")
	}

	if c.Defaults.MaxTokens <= 0 {
		validationErrors = append(validationErrors, "defaults.max_tokens must be positive")
	}

	if c.Defaults.Temperature < 0 || c.Defaults.Temperature > 2 {
		validationErrors = append(validationErrors, "defaults.temperature must be between 0 and 2")
	}

	if c.Logging.Level != "" && !isValidLogLevel(c.Logging.Level) {
		validationErrors = append(validationErrors, fmt.Sprintf(
			"logging.level '%s' is invalid, must be one of: debug, info, warn, error",
			c.Logging.Level,
		))
	}

	if len(validationErrors) > 0 {
		return &ValidationError{Errors: validationErrors}
	}

	return nil
}

// isValidLogLevel checks if the log level is valid.
func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}
