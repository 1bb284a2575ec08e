// Package config provides explicit application configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/versekit/verse-router/internal/domain"
)

const (
	defaultConfigName = "config"
	defaultConfigType = "yaml"
	envPrefix         = "VERSE_ROUTER"
)

// Unprefixed environment variables honored for compatibility with existing
// deployments. They take priority over file configuration.
const (
	// EnvProvider selects the provider type (openai, mistral, ollama).
	EnvProvider = "AI_PROVIDER"

	// EnvBaseURL overrides the provider base URL.
	EnvBaseURL = "API_BASE_URL"

	// EnvAPIKey is the unified provider API key.
	EnvAPIKey = "API_KEY"

	// EnvOllamaURL is the legacy Ollama base URL.
	EnvOllamaURL = "OLLAMA_URL"

	// EnvOllamaAPIKey is the legacy Ollama key.
	EnvOllamaAPIKey = "OLLAMA_API_KEY"
)

// Load reads the configuration from a .env file (if present), environment
// variables, and an optional config file.
//
// Priority order (highest to lowest):
//  1. Unprefixed env vars (AI_PROVIDER, API_BASE_URL, API_KEY, OLLAMA_URL)
//  2. Prefixed env vars (VERSE_ROUTER_*)
//  3. config.yaml
//  4. Default values
//
// Pass an empty configPath to use the default search paths.
func Load(configPath string) (*Configuration, error) {
	// Hydrate the environment from .env for local development. Missing
	// files are expected in production.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName(defaultConfigName)
	v.SetConfigType(defaultConfigType)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/verse-router")
		v.AddConfigPath("$HOME/.verse-router")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, &ConfigError{
				Op:  "read",
				Err: fmt.Errorf("failed to read config file: %w", err),
			}
		}
		// Config file not found is OK - env vars are preferred anyway.
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigError{
			Op:  "unmarshal",
			Err: fmt.Errorf("failed to unmarshal config: %w", err),
		}
	}

	applyLegacyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.read_timeout_seconds", 30)
	v.SetDefault("server.write_timeout_seconds", 150)
	v.SetDefault("server.shutdown_timeout_seconds", 15)

	// Provider defaults: Mistral's OpenAI-compatible endpoint
	v.SetDefault("provider.type", "openai")
	v.SetDefault("provider.base_url", "https://api.mistral.ai/v1")
	v.SetDefault("provider.timeout_seconds", 120)

	// Generation defaults
	v.SetDefault("defaults.model", "mistral-small-latest")
	v.SetDefault("defaults.max_tokens", 256)
	v.SetDefault("defaults.temperature", 0.0)
	v.SetDefault("defaults.verse_model", "mistral-small-latest")
	v.SetDefault("defaults.verse_max_tokens", 512)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// applyLegacyEnv overlays the unprefixed environment variables that existing
// deployments rely on. Values present in the environment win over anything
// loaded from files.
func applyLegacyEnv(cfg *Configuration) {
	if provider := os.Getenv(EnvProvider); provider != "" {
		cfg.Provider.Type = domain.ProviderType(strings.ToLower(provider))
	}
	if baseURL := os.Getenv(EnvBaseURL); baseURL != "" {
		cfg.Provider.BaseURL = baseURL
	}
	if key := os.Getenv(EnvAPIKey); key != "" {
		cfg.Provider.APIKey = key
	}
	if url := os.Getenv(EnvOllamaURL); url != "" {
		cfg.Provider.OllamaURL = url
	}
	if key := os.Getenv(EnvOllamaAPIKey); key != "" {
		cfg.Provider.OllamaAPIKey = key
	}
}
