// Package bedrock provides an llm.Client backed by the AWS Bedrock Converse
// API using github.com/aws/aws-sdk-go-v2/service/bedrockruntime.
package bedrock

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/harmonia-ai/harmonia/llm"
)

// Runtime captures the subset of the Bedrock runtime client used by the
// adapter. It matches *bedrockruntime.Client so callers can pass either a real
// client or a mock in tests.
type Runtime interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// Options configures the Bedrock adapter.
type Options struct {
	// DefaultModel is the Bedrock model identifier used when Request.Model is
	// empty.
	DefaultModel string
}

// Client implements llm.Client on top of the Bedrock Converse API.
type Client struct {
	runtime Runtime
	model   string
}

// New builds a Bedrock-backed client from the provided runtime and options.
func New(runtime Runtime, opts Options) (*Client, error) {
	if runtime == nil {
		return nil, errors.New("bedrock runtime client is required")
	}
	if opts.DefaultModel == "" {
		return nil, errors.New("default model identifier is required")
	}
	return &Client{runtime: runtime, model: opts.DefaultModel}, nil
}

// NewFromCredentials constructs a client with static credentials. Empty
// accessKey leaves the SDK to resolve credentials from the ambient
// environment.
func NewFromCredentials(region, accessKey, secretKey, defaultModel string) (*Client, error) {
	if region == "" {
		return nil, errors.New("aws region is required")
	}
	if defaultModel == "" {
		defaultModel = "anthropic.claude-3-5-sonnet-20241022-v2:0"
	}
	opts := bedrockruntime.Options{Region: region}
	if accessKey != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")
	}
	return New(bedrockruntime.New(opts), Options{DefaultModel: defaultModel})
}

// Complete invokes the Converse API and concatenates the text content blocks
// of the response message.
func (c *Client) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	if req.Prompt == "" {
		return llm.Response{}, errors.New("prompt is required")
	}
	modelID := req.Model
	if modelID == "" {
		modelID = c.model
	}
	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(modelID),
		Messages: []brtypes.Message{{
			Role:    brtypes.ConversationRoleUser,
			Content: []brtypes.ContentBlock{&brtypes.ContentBlockMemberText{Value: req.Prompt}},
		}},
	}
	if req.System != "" {
		input.System = []brtypes.SystemContentBlock{&brtypes.SystemContentBlockMemberText{Value: req.System}}
	}
	out, err := c.runtime.Converse(ctx, input)
	if err != nil {
		return llm.Response{}, fmt.Errorf("bedrock converse: %w", err)
	}
	msg, ok := out.Output.(*brtypes.ConverseOutputMemberMessage)
	if !ok {
		return llm.Response{}, fmt.Errorf("bedrock converse: unexpected output type %T", out.Output)
	}
	var b strings.Builder
	for _, block := range msg.Value.Content {
		if text, ok := block.(*brtypes.ContentBlockMemberText); ok {
			b.WriteString(text.Value)
		}
	}
	if b.Len() == 0 {
		return llm.Response{}, errors.New("bedrock converse: empty response")
	}
	return llm.Response{Text: b.String()}, nil
}
