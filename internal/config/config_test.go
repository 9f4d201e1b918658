package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with defaults should not fail: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.DataDir != "./data" {
		t.Errorf("DataDir = %q, want ./data", cfg.DataDir)
	}
	if cfg.DukeAPIToken != DefaultDukeAPIToken {
		t.Errorf("DukeAPIToken = %q, want default token", cfg.DukeAPIToken)
	}
	if cfg.AgentMaxIterations != 5 {
		t.Errorf("AgentMaxIterations = %d, want 5", cfg.AgentMaxIterations)
	}
	if cfg.APITimeout != APIRequest {
		t.Errorf("APITimeout = %v, want %v", cfg.APITimeout, APIRequest)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvPort, "9090")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvAPITimeout, "5s")
	t.Setenv(EnvAgentMaxIterations, "3")
	t.Setenv(EnvOpenAIAPIKey, "sk-test")
	t.Setenv(EnvSerpAPIKey, "serp-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.APITimeout != 5*time.Second {
		t.Errorf("APITimeout = %v, want 5s", cfg.APITimeout)
	}
	if cfg.AgentMaxIterations != 3 {
		t.Errorf("AgentMaxIterations = %d, want 3", cfg.AgentMaxIterations)
	}
	if !cfg.HasAgent() {
		t.Error("HasAgent() should be true with OPENAI_API_KEY set")
	}
	if !cfg.HasWebSearch() {
		t.Error("HasWebSearch() should be true with SERPAPI_API_KEY set")
	}
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv(EnvAPITimeout, "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.APITimeout != APIRequest {
		t.Errorf("APITimeout = %v, want default %v", cfg.APITimeout, APIRequest)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		return &Config{
			Port:               "8080",
			DataDir:            "./data",
			APITimeout:         APIRequest,
			APIMaxRetries:      2,
			AgentMaxIterations: 5,
			DukeAPIToken:       DefaultDukeAPIToken,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing port", func(c *Config) { c.Port = "" }, EnvPort},
		{"missing data dir", func(c *Config) { c.DataDir = "" }, EnvDataDir},
		{"zero timeout", func(c *Config) { c.APITimeout = 0 }, EnvAPITimeout},
		{"negative retries", func(c *Config) { c.APIMaxRetries = -1 }, EnvAPIMaxRetries},
		{"zero iterations", func(c *Config) { c.AgentMaxIterations = 0 }, EnvAgentMaxIterations},
		{"empty token", func(c *Config) { c.DukeAPIToken = "" }, EnvDukeAPIToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestHasAgent_Disabled(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	if cfg.HasAgent() {
		t.Error("HasAgent() should be false without OPENAI_API_KEY")
	}
	if cfg.HasWebSearch() {
		t.Error("HasWebSearch() should be false without SERPAPI_API_KEY")
	}
}
