package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/harmonia-ai/harmonia/agent"
)

// Vanilla is the general-purpose fallback for requests that fit no other
// tool. It echoes the request so the planner can answer from general
// knowledge on the next turn.
func Vanilla(_ context.Context, args map[string]any) (agent.ToolResult, error) {
	query, _ := args["query"].(string)
	if query == "" {
		return nil, fmt.Errorf("missing required parameter: query")
	}
	context_, _ := args["context"].(string)

	now := time.Now().UTC()
	response := fmt.Sprintf("I received your request: '%s'", query)
	result := agent.ToolResult{
		"status":      "success",
		"response_id": "VANILLA-" + now.Format("20060102150405"),
		"query":       query,
		"timestamp":   now.Format("2006-01-02 15:04:05"),
	}
	if context_ != "" {
		result["context_provided"] = context_
		response += fmt.Sprintf(" with context: '%s'", context_)
	}
	response += ". However, I don't have a specialized tool for this specific task. " +
		"I'll do my best to help using my general knowledge."
	result["response"] = response
	return result, nil
}
