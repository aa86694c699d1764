// Package openai provides an llm.Client backed by the OpenAI Chat Completions
// API using github.com/openai/openai-go.
package openai

import (
	"context"
	"errors"
	"fmt"

	oa "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/harmonia-ai/harmonia/llm"
)

// ChatClient captures the subset of the openai-go client used by the adapter.
// It is satisfied by the SDK's chat completion service so tests can pass a
// mock.
type ChatClient interface {
	New(ctx context.Context, params oa.ChatCompletionNewParams, opts ...option.RequestOption) (*oa.ChatCompletion, error)
}

// Options configures the OpenAI adapter.
type Options struct {
	Client       ChatClient
	DefaultModel string
}

// Client implements llm.Client via the OpenAI Chat Completions API.
type Client struct {
	chat  ChatClient
	model string
}

// New builds an OpenAI-backed client from the provided options.
func New(opts Options) (*Client, error) {
	if opts.Client == nil {
		return nil, errors.New("openai client is required")
	}
	if opts.DefaultModel == "" {
		return nil, errors.New("default model is required")
	}
	return &Client{chat: opts.Client, model: opts.DefaultModel}, nil
}

// NewFromAPIKey constructs a client using the default openai-go HTTP client.
func NewFromAPIKey(apiKey, defaultModel string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("api key is required")
	}
	if defaultModel == "" {
		defaultModel = string(oa.ChatModelGPT4o)
	}
	sdk := oa.NewClient(option.WithAPIKey(apiKey))
	return New(Options{Client: &sdk.Chat.Completions, DefaultModel: defaultModel})
}

// Complete renders a chat completion using the configured OpenAI client.
func (c *Client) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	if req.Prompt == "" {
		return llm.Response{}, errors.New("prompt is required")
	}
	modelID := req.Model
	if modelID == "" {
		modelID = c.model
	}
	messages := make([]oa.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		messages = append(messages, oa.SystemMessage(req.System))
	}
	messages = append(messages, oa.UserMessage(req.Prompt))

	resp, err := c.chat.New(ctx, oa.ChatCompletionNewParams{
		Model:    oa.ChatModel(modelID),
		Messages: messages,
	})
	if err != nil {
		return llm.Response{}, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return llm.Response{}, errors.New("openai chat completion: empty response")
	}
	return llm.Response{Text: resp.Choices[0].Message.Content}, nil
}
