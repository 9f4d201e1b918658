// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// server mode, API client behavior, and agent settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultDukeAPIToken is the access token Duke's streamer API expects in the
// query string. It is a public, shared token (not a user credential) and can
// be rotated via DUKEBOT_DUKE_API_TOKEN without a rebuild.
const DefaultDukeAPIToken = "19d3636f71c152dd13840724a8a48074"

// Config holds all application configuration
type Config struct {
	// Credentials
	OpenAIAPIKey string // OpenAI API key for the agent (required to enable the agent)
	SerpAPIKey   string // SerpAPI key for the web search tool (optional, tool disabled if empty)
	GeminiAPIKey string // Gemini API key for the evaluation judge (optional)
	DukeAPIToken string // Access token for streamer.oit.duke.edu

	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration

	// Data Configuration
	DataDir string // Directory holding subjects.txt, groups.txt, categories.txt

	// Duke API Client Configuration
	APITimeout    time.Duration
	APIMaxRetries int

	// Agent Configuration
	OpenAIModel        string // Chat model for the agent (default: gpt-4o)
	AgentMaxIterations int    // Tool-call rounds per turn (default: 5)
	GeminiJudgeModel   string // Model for cmd/eval grading (default: gemini-2.0-flash)

	// Sentry Configuration
	SentryDSN         string
	SentryEnvironment string
	SentrySampleRate  float64

	// Better Stack Configuration
	BetterStackToken    string
	BetterStackEndpoint string
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		// Credentials
		OpenAIAPIKey: getEnv(EnvOpenAIAPIKey, ""),
		SerpAPIKey:   getEnv(EnvSerpAPIKey, ""),
		GeminiAPIKey: getEnv(EnvGeminiAPIKey, ""),
		DukeAPIToken: getEnv(EnvDukeAPIToken, DefaultDukeAPIToken),

		// Server Configuration
		Port:            getEnv(EnvPort, "8080"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, GracefulShutdown),

		// Data Configuration
		DataDir: getEnv(EnvDataDir, "./data"),

		// Duke API Client Configuration
		APITimeout:    getDurationEnv(EnvAPITimeout, APIRequest),
		APIMaxRetries: getIntEnv(EnvAPIMaxRetries, 2),

		// Agent Configuration
		OpenAIModel:        getEnv(EnvOpenAIModel, "gpt-4o"),
		AgentMaxIterations: getIntEnv(EnvAgentMaxIterations, 5),
		GeminiJudgeModel:   getEnv(EnvGeminiJudgeModel, "gemini-2.0-flash"),

		// Sentry Configuration
		SentryDSN:         getEnv(EnvSentryDSN, ""),
		SentryEnvironment: getEnv(EnvSentryEnvironment, "production"),
		SentrySampleRate:  getFloatEnv(EnvSentrySampleRate, 1.0),

		// Better Stack Configuration
		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New(EnvPort+" is required"))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New(EnvDataDir+" is required"))
	}
	if c.APITimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvAPITimeout, c.APITimeout))
	}
	if c.APIMaxRetries < 0 {
		errs = append(errs, fmt.Errorf("%s cannot be negative, got %d", EnvAPIMaxRetries, c.APIMaxRetries))
	}
	if c.AgentMaxIterations <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", EnvAgentMaxIterations, c.AgentMaxIterations))
	}
	if c.DukeAPIToken == "" {
		errs = append(errs, errors.New(EnvDukeAPIToken+" must not be empty"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// HasAgent returns true if the agent can be enabled.
func (c *Config) HasAgent() bool {
	return c.OpenAIAPIKey != ""
}

// HasWebSearch returns true if the SerpAPI web search tool can be enabled.
func (c *Config) HasWebSearch() bool {
	return c.SerpAPIKey != ""
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
