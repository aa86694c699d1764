// Package activities implements the Temporal activities the agent workflow
// invokes: prompt validation, tool planning (and its summarize mode) and the
// per-tool execution activities.
package activities

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"goa.design/clue/log"

	"github.com/harmonia-ai/harmonia/agent"
	"github.com/harmonia-ai/harmonia/llm"
	"github.com/harmonia-ai/harmonia/tools"
)

// Activity names as registered with the worker and referenced by the
// workflow. Tool execution activities are registered under their tool names.
const (
	ValidatePromptName = "agent_validatePrompt"
	ToolPlannerName    = "agent_toolPlanner"
)

// ToolActivities bundles the LLM-backed activities. The planner client is
// shared by validation, planning and summarization.
type ToolActivities struct {
	planner llm.Client
}

// NewToolActivities constructs the activity set around the given LLM client.
func NewToolActivities(planner llm.Client) (*ToolActivities, error) {
	if planner == nil {
		return nil, fmt.Errorf("planner client is required")
	}
	return &ToolActivities{planner: planner}, nil
}

// ValidatePrompt checks whether a user prompt is actionable for the goal.
// Empty prompts are rejected locally; everything else is judged by the
// planner model against the goal description and history.
func (a *ToolActivities) ValidatePrompt(ctx context.Context, input agent.ValidationInput) (agent.ValidationResult, error) {
	if strings.TrimSpace(input.Prompt) == "" {
		return agent.ValidationResult{
			ValidationResult:       false,
			ValidationFailedReason: "The prompt is empty. Please tell me what you would like to do.",
		}, nil
	}

	system := fmt.Sprintf(
		"You validate user prompts for an agent with this goal:\n%s\n\n"+
			"Conversation so far:\n%s\n\n"+
			"Decide whether the prompt below is something the agent can act on. Prompts that are abusive, "+
			"entirely unrelated to the goal, or meaningless should fail validation.\n"+
			`Respond with a single JSON object: {"validationResult": <true|false>, "validationFailedReason": "<why, when false>"}`,
		input.AgentGoal.Description, agent.FormatHistoryJSON(input.ConversationHistory),
	)

	resp, err := a.planner.Complete(ctx, llm.Request{System: system, Prompt: input.Prompt})
	if err != nil {
		return agent.ValidationResult{}, fmt.Errorf("validate prompt: %w", err)
	}
	var result agent.ValidationResult
	if err := json.Unmarshal([]byte(extractJSON(resp.Text)), &result); err != nil {
		return agent.ValidationResult{}, fmt.Errorf("validate prompt: decode model output: %w", err)
	}
	log.Debug(ctx, log.KV{K: "msg", V: "prompt validated"}, log.KV{K: "ok", V: result.ValidationResult})
	return result, nil
}

// ToolPlanner asks the planner model for the next step given the context
// instructions and the current prompt. The decoded decision is validated
// against the tool-data schema; malformed output fails the attempt so the
// activity retry policy re-prompts the model.
func (a *ToolActivities) ToolPlanner(ctx context.Context, input agent.ToolPromptInput) (agent.ToolData, error) {
	resp, err := a.planner.Complete(ctx, llm.Request{
		System: input.ContextInstructions,
		Prompt: input.Prompt,
	})
	if err != nil {
		return agent.ToolData{}, fmt.Errorf("tool planner: %w", err)
	}

	raw := extractJSON(resp.Text)
	if err := validateToolData(raw); err != nil {
		return agent.ToolData{}, fmt.Errorf("tool planner: model output failed schema validation: %w", err)
	}
	var td agent.ToolData
	if err := json.Unmarshal([]byte(raw), &td); err != nil {
		return agent.ToolData{}, fmt.Errorf("tool planner: decode model output: %w", err)
	}
	log.Debug(ctx, log.KV{K: "msg", V: "planner decision"}, log.KV{K: "next", V: td.Next}, log.KV{K: "tool", V: td.Tool})
	return td, nil
}

// ToolActivity adapts a registry handler into a Temporal activity function.
// Errors are returned as-is: the activity retry policy handles transient
// failures and the workflow dispatcher normalizes terminal ones into
// error-shaped results.
func ToolActivity(h tools.Handler) func(context.Context, map[string]any) (agent.ToolResult, error) {
	return func(ctx context.Context, args map[string]any) (agent.ToolResult, error) {
		return h(ctx, args)
	}
}

// extractJSON strips markdown code fences and surrounding prose, returning
// the first top-level JSON object in the text. Models occasionally wrap their
// JSON despite instructions not to.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "```"); idx >= 0 {
		rest := text[idx+3:]
		rest = strings.TrimPrefix(rest, "json")
		if end := strings.Index(rest, "```"); end >= 0 {
			text = rest[:end]
		} else {
			text = rest
		}
		text = strings.TrimSpace(text)
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}
