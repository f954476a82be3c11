package config

import (
	"os"
	"strconv"
	"time"

	"tablechat/internal/errors"
)

// Config represents the complete application configuration. Credentials are
// carried in explicit structs handed to client constructors; a missing
// credential disables only the owning feature (the container falls back to
// the mock variant), never the whole application.
type Config struct {
	Server        ServerConfig
	Completions   CompletionsConfig
	TextAnalytics TextAnalyticsConfig
	Search        SearchConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// CompletionsConfig holds completions-service settings
type CompletionsConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// TextAnalyticsConfig holds text-analytics service settings
type TextAnalyticsConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// SearchConfig holds search-indexing service settings
type SearchConfig struct {
	Endpoint    string
	APIKey      string
	IndexName   string
	APIVersion  string
	Timeout     time.Duration
	SettleDelay time.Duration
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Completions: CompletionsConfig{
			APIKey:      os.Getenv("COMPLETIONS_API_KEY"),
			BaseURL:     getEnvOrDefault("COMPLETIONS_BASE_URL", "https://api.openai.com/v1"),
			Model:       getEnvOrDefault("COMPLETIONS_MODEL", "gpt-4o-mini"),
			MaxTokens:   getEnvIntOrDefault("COMPLETIONS_MAX_TOKENS", 1024),
			Temperature: getEnvFloatOrDefault("COMPLETIONS_TEMPERATURE", 0.3),
			Timeout:     getEnvDurationOrDefault("COMPLETIONS_TIMEOUT", 60*time.Second),
		},
		TextAnalytics: TextAnalyticsConfig{
			Endpoint: os.Getenv("TEXT_ANALYTICS_ENDPOINT"),
			APIKey:   os.Getenv("TEXT_ANALYTICS_API_KEY"),
			Timeout:  getEnvDurationOrDefault("TEXT_ANALYTICS_TIMEOUT", 30*time.Second),
		},
		Search: SearchConfig{
			Endpoint:    os.Getenv("SEARCH_ENDPOINT"),
			APIKey:      os.Getenv("SEARCH_API_KEY"),
			IndexName:   getEnvOrDefault("SEARCH_INDEX_NAME", "tablechat-rows"),
			APIVersion:  getEnvOrDefault("SEARCH_API_VERSION", "2021-04-30-Preview"),
			Timeout:     getEnvDurationOrDefault("SEARCH_TIMEOUT", 30*time.Second),
			SettleDelay: getEnvDurationOrDefault("SEARCH_SETTLE_DELAY", 2*time.Second),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// HasCompletions reports whether live completions credentials are configured.
func (c *Config) HasCompletions() bool {
	return c.Completions.APIKey != ""
}

// HasTextAnalytics reports whether live text-analytics credentials are configured.
func (c *Config) HasTextAnalytics() bool {
	return c.TextAnalytics.Endpoint != "" && c.TextAnalytics.APIKey != ""
}

// HasSearch reports whether live search credentials are configured.
func (c *Config) HasSearch() bool {
	return c.Search.Endpoint != "" && c.Search.APIKey != ""
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Search.IndexName == "" {
		return errors.ConfigInvalid("search index name is required")
	}
	if config.Search.APIVersion == "" {
		return errors.ConfigInvalid("search api version is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
