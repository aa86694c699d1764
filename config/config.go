// Package config loads the process configuration shared by the worker and API
// binaries from environment variables, with an optional .env file for local
// development.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds the settings for both binaries. Fields are populated from the
// environment; defaults suit a local Temporal dev server.
type Config struct {
	// TemporalAddress is the host:port of the Temporal frontend.
	TemporalAddress string `env:"TEMPORAL_ADDRESS" envDefault:"localhost:7233"`

	// TemporalNamespace is the namespace workflows run in.
	TemporalNamespace string `env:"TEMPORAL_NAMESPACE" envDefault:"default"`

	// TaskQueue is the main task queue for the agent workflow and tools.
	TaskQueue string `env:"TEMPORAL_TASK_QUEUE" envDefault:"agent-task-queue"`

	// LegacyTaskQueue hosts the location-pinned train tools.
	LegacyTaskQueue string `env:"TEMPORAL_LEGACY_TASK_QUEUE" envDefault:"agent-legacy-task-queue"`

	// HTTPAddr is the listen address of the API server.
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8000"`

	// AllowOrigins lists the origins the API accepts cross-origin requests
	// from. The default matches the local frontend dev server.
	AllowOrigins []string `env:"ALLOW_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	// AgentGoal names the goal definition the API starts conversations with.
	AgentGoal string `env:"AGENT_GOAL" envDefault:"goal_simple_music"`

	// LLMProvider selects the planner backend: openai, anthropic or bedrock.
	LLMProvider string `env:"LLM_PROVIDER" envDefault:"openai"`

	// LLMModel overrides the provider's default model identifier.
	LLMModel string `env:"LLM_MODEL"`

	// OpenAIAPIKey authenticates the OpenAI backend.
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`

	// AnthropicAPIKey authenticates the Anthropic backend.
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`

	// AWSRegion, AWSAccessKeyID and AWSSecretAccessKey configure the Bedrock
	// backend. Credentials fall back to the ambient AWS environment when empty.
	AWSRegion          string `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`

	// LLMRequestsPerMinute caps planner calls per minute. Zero disables the
	// limiter.
	LLMRequestsPerMinute int `env:"LLM_REQUESTS_PER_MINUTE" envDefault:"60"`

	// DisableTracing turns off the OTEL tracing interceptor on the Temporal
	// client.
	DisableTracing bool `env:"DISABLE_TRACING" envDefault:"false"`

	// Debug enables debug logging.
	Debug bool `env:"DEBUG" envDefault:"false"`
}

// Load reads the optional .env file and then the environment. A missing .env
// file is not an error.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}
