// Package config provides centralized timeout constants for the application.
//
// These values are tuned for the upstream services this bot talks to:
//   - calendar.duke.edu can take several seconds for wide unfiltered feeds
//   - streamer.oit.duke.edu (curriculum/LDAP) typically responds in under 2s
//   - OpenAI chat completions with tool calls routinely take 5-30s per round
package config

import "time"

// Duke API client timeouts
const (
	// APIRequest is the timeout for a single HTTP request to Duke services.
	// Unfiltered calendar feeds are the slow case.
	APIRequest = 30 * time.Second

	// APIRetryInitial is the initial delay before retrying a failed request.
	// Full-jitter exponential backoff: up to 1s -> 2s -> 4s.
	APIRetryInitial = 1 * time.Second

	// APIRetryMax caps the backoff delay between retries.
	APIRetryMax = 8 * time.Second
)

// Agent timeouts
const (
	// AgentTurn is the timeout for a full agent turn: the reasoning loop
	// including every tool call and model round within it.
	AgentTurn = 120 * time.Second

	// LLMRequest is the timeout for a single chat completion request.
	LLMRequest = 60 * time.Second
)

// HTTP server timeouts
const (
	// ServerHTTPRead is the HTTP server read timeout. Chat payloads are small.
	ServerHTTPRead = 10 * time.Second

	// ServerHTTPWrite must accommodate AgentTurn plus response serialization.
	ServerHTTPWrite = 125 * time.Second

	// ServerHTTPIdle is the idle timeout for keep-alive connections.
	ServerHTTPIdle = 120 * time.Second
)

// Graceful shutdown
const (
	// GracefulShutdown is the timeout for graceful server shutdown.
	// Allows in-flight agent turns to complete before forceful termination.
	GracefulShutdown = 30 * time.Second
)
