// Package config defines environment variable keys for configuration.
package config

//nolint:gosec,revive // Environment variable keys are not credentials and do not need per-const comments.
const (
	// Credentials
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvSerpAPIKey   = "SERPAPI_API_KEY"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvDukeAPIToken = "DUKEBOT_DUKE_API_TOKEN"

	// Server
	EnvPort            = "DUKEBOT_PORT"
	EnvLogLevel        = "DUKEBOT_LOG_LEVEL"
	EnvShutdownTimeout = "DUKEBOT_SHUTDOWN_TIMEOUT"

	// Data
	EnvDataDir = "DUKEBOT_DATA_DIR"

	// Duke API client
	EnvAPITimeout    = "DUKEBOT_API_TIMEOUT"
	EnvAPIMaxRetries = "DUKEBOT_API_MAX_RETRIES"

	// Agent
	EnvOpenAIModel        = "DUKEBOT_OPENAI_MODEL"
	EnvAgentMaxIterations = "DUKEBOT_AGENT_MAX_ITERATIONS"
	EnvGeminiJudgeModel   = "DUKEBOT_GEMINI_JUDGE_MODEL"

	// Sentry Feature
	EnvSentryDSN         = "DUKEBOT_SENTRY_DSN"
	EnvSentryEnvironment = "DUKEBOT_SENTRY_ENVIRONMENT"
	EnvSentrySampleRate  = "DUKEBOT_SENTRY_SAMPLE_RATE"

	// Better Stack Feature
	EnvBetterStackToken    = "DUKEBOT_BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "DUKEBOT_BETTERSTACK_ENDPOINT"
)
