// Package llm defines the provider-agnostic completion client the planner
// activities are written against. Concrete backends live in the openai,
// anthropic and bedrock subpackages; middleware provides cross-cutting
// wrappers such as rate limiting.
package llm

import "context"

// Request is a single completion request: system-level context instructions
// plus the user prompt. Model overrides the backend default when set.
type Request struct {
	System string
	Prompt string
	Model  string
}

// Response carries the completion text.
type Response struct {
	Text string
}

// Client issues completions against one LLM provider.
type Client interface {
	Complete(ctx context.Context, req Request) (Response, error)
}
