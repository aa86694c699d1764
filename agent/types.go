// Package agent defines the conversation domain: message history, goal and
// tool declarations, planner decisions and the prompt generators that drive
// the planning loop.
package agent

// Actor identifies who produced a conversation message.
const (
	ActorUser                 = "user"
	ActorAgent                = "agent"
	ActorSystem               = "system"
	ActorToolResult           = "tool_result"
	ActorUserConfirmedToolRun = "user_confirmed_tool_run"
	ActorConversationSummary  = "conversation_summary"
)

// NextStep values the planner may return.
const (
	NextStepConfirm  = "confirm"
	NextStepQuestion = "question"
	NextStepDone     = "done"
)

// StarterPromptPrefix marks prompts synthesized by the system. Prompts with
// this prefix bypass validation and are never added to the visible history.
const StarterPromptPrefix = "### "

// Message is a single conversation entry. Response is either free text or a
// structured record such as a ToolData copy or a tool result map.
type Message struct {
	Actor    string `json:"actor"`
	Response any    `json:"response"`
}

// ConversationHistory is the append-only message log for one workflow run.
type ConversationHistory struct {
	Messages []Message `json:"messages"`
}

// ToolData is the most recent planner decision. A confirmation signal is only
// meaningful while Next == NextStepConfirm and Tool is set.
type ToolData struct {
	Next     string         `json:"next"`
	Tool     string         `json:"tool,omitempty"`
	Args     map[string]any `json:"args,omitempty"`
	Response string         `json:"response,omitempty"`
}

// ToolResult is the normalized outcome of a tool execution. Both success and
// failure use this shape so downstream logic never branches on error vs value.
type ToolResult map[string]any

// ValidationInput is the payload for the prompt validation activity.
type ValidationInput struct {
	Prompt              string              `json:"prompt"`
	ConversationHistory ConversationHistory `json:"conversation_history"`
	AgentGoal           AgentGoal           `json:"agent_goal"`
}

// ValidationResult reports whether a prompt is actionable for the goal.
type ValidationResult struct {
	ValidationResult       bool   `json:"validationResult"`
	ValidationFailedReason string `json:"validationFailedReason,omitempty"`
}

// ToolPromptInput is the payload for the planner activity.
type ToolPromptInput struct {
	Prompt              string `json:"prompt"`
	ContextInstructions string `json:"context_instructions"`
}

// WorkflowParams is the continuation snapshot: the only state carried across
// a continue-as-new boundary besides the goal itself.
type WorkflowParams struct {
	ConversationSummary string   `json:"conversation_summary,omitempty"`
	PromptQueue         []string `json:"prompt_queue,omitempty"`
}

// CombinedInput is the workflow input: continuation params plus the goal
// definition governing the conversation.
type CombinedInput struct {
	Params WorkflowParams `json:"tool_params"`
	Goal   AgentGoal      `json:"agent_goal"`
}

// WorkflowState is the snapshot returned by the get_workflow_state query.
type WorkflowState struct {
	MessageCount           int  `json:"message_count"`
	WaitingForConfirm      bool `json:"waiting_for_confirm"`
	ContinuedFromPrevious  bool `json:"continued_from_previous"`
	MaxTurnsBeforeContinue int  `json:"max_turns_before_continue"`
	ChatEnded              bool `json:"chat_ended"`
}
