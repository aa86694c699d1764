// Package anthropic provides an llm.Client backed by the Anthropic Messages
// API using github.com/anthropics/anthropic-sdk-go.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/harmonia-ai/harmonia/llm"
)

// MessagesClient captures the subset of the Anthropic SDK client used by the
// adapter. It is satisfied by *sdk.MessageService so callers can pass either a
// real client or a mock in tests.
type MessagesClient interface {
	New(ctx context.Context, body sdk.MessageNewParams, opts ...option.RequestOption) (*sdk.Message, error)
}

// Options configures the Anthropic adapter.
type Options struct {
	// DefaultModel is the Claude model identifier used when Request.Model is
	// empty.
	DefaultModel string

	// MaxTokens caps the completion length. Defaults to 4096 when zero.
	MaxTokens int64
}

// Client implements llm.Client on top of Anthropic Claude Messages.
type Client struct {
	msg    MessagesClient
	model  string
	maxTok int64
}

// New builds an Anthropic-backed client from the provided Messages client and
// options.
func New(msg MessagesClient, opts Options) (*Client, error) {
	if msg == nil {
		return nil, errors.New("anthropic client is required")
	}
	if opts.DefaultModel == "" {
		return nil, errors.New("default model identifier is required")
	}
	maxTok := opts.MaxTokens
	if maxTok <= 0 {
		maxTok = 4096
	}
	return &Client{msg: msg, model: opts.DefaultModel, maxTok: maxTok}, nil
}

// NewFromAPIKey constructs a client using the default Anthropic HTTP client.
func NewFromAPIKey(apiKey, defaultModel string) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("api key is required")
	}
	if defaultModel == "" {
		defaultModel = string(sdk.ModelClaudeSonnet4_20250514)
	}
	ac := sdk.NewClient(option.WithAPIKey(apiKey))
	return New(&ac.Messages, Options{DefaultModel: defaultModel})
}

// Complete issues a Messages.New request and concatenates the text blocks of
// the response.
func (c *Client) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	if req.Prompt == "" {
		return llm.Response{}, errors.New("prompt is required")
	}
	modelID := req.Model
	if modelID == "" {
		modelID = c.model
	}
	params := sdk.MessageNewParams{
		Model:     sdk.Model(modelID),
		MaxTokens: c.maxTok,
		Messages:  []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(req.Prompt))},
	}
	if req.System != "" {
		params.System = []sdk.TextBlockParam{{Text: req.System}}
	}
	msg, err := c.msg.New(ctx, params)
	if err != nil {
		return llm.Response{}, fmt.Errorf("anthropic message: %w", err)
	}
	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return llm.Response{}, errors.New("anthropic message: empty response")
	}
	return llm.Response{Text: b.String()}, nil
}
