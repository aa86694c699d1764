package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/harmonia-ai/harmonia/activities"
	"github.com/harmonia-ai/harmonia/agent"
)

// LegacyTaskQueue hosts the location-pinned train tools. Workers serving that
// queue register only SearchTrains and BookTrains.
const LegacyTaskQueue = "agent-legacy-task-queue"

// Activity deadlines: a short per-attempt timeout and a much longer total
// budget within which the retry policy may re-attempt.
const (
	toolStartToCloseTimeout    = 12 * time.Second
	toolScheduleToCloseTimeout = 30 * time.Minute
	llmStartToCloseTimeout     = 20 * time.Second
	llmScheduleToCloseTimeout  = 30 * time.Minute
)

var activityRetryPolicy = &temporal.RetryPolicy{
	InitialInterval:    5 * time.Second,
	BackoffCoefficient: 1,
}

// legacyTools names the tool category routed to the legacy task queue.
var legacyTools = map[string]bool{
	agent.SearchTrainsToolDefinition.Name: true,
	agent.BookTrainsToolDefinition.Name:   true,
}

func llmActivityContext(ctx workflow.Context) workflow.Context {
	return workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout:    llmStartToCloseTimeout,
		ScheduleToCloseTimeout: llmScheduleToCloseTimeout,
		RetryPolicy:            activityRetryPolicy,
	})
}

func validatePrompt(ctx workflow.Context, input agent.ValidationInput) (agent.ValidationResult, error) {
	var result agent.ValidationResult
	err := workflow.ExecuteActivity(llmActivityContext(ctx), activities.ValidatePromptName, input).Get(ctx, &result)
	return result, err
}

func planNextStep(ctx workflow.Context, input agent.ToolPromptInput) (agent.ToolData, error) {
	var result agent.ToolData
	err := workflow.ExecuteActivity(llmActivityContext(ctx), activities.ToolPlannerName, input).Get(ctx, &result)
	return result, err
}

// executeTool dispatches the confirmed tool as an activity. Failures are
// captured and normalized into an error-shaped result instead of failing the
// run, so the conversation continues with the agent narrating the failure.
// The result is folded into history and a completion prompt re-enters the
// queue so the planner picks the outcome up on the next turn.
func executeTool(ctx workflow.Context, toolName string, s *state) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Confirmed, proceeding with tool", "tool", toolName)

	opts := workflow.ActivityOptions{
		StartToCloseTimeout:    toolStartToCloseTimeout,
		ScheduleToCloseTimeout: toolScheduleToCloseTimeout,
		RetryPolicy:            activityRetryPolicy,
	}
	if legacyTools[toolName] {
		opts.TaskQueue = LegacyTaskQueue
	}
	actx := workflow.WithActivityOptions(ctx, opts)

	var result agent.ToolResult
	err := workflow.ExecuteActivity(actx, toolName, s.toolData.Args).Get(actx, &result)
	if err != nil {
		logger.Error("Tool execution failed", "tool", toolName, "error", err)
		result = agent.ToolResult{"tool": toolName, "error": err.Error()}
	} else {
		if result == nil {
			result = agent.ToolResult{}
		}
		result["tool"] = toolName
		s.toolResults = append(s.toolResults, result)
	}

	s.addMessage(ctx, agent.ActorToolResult, result)
	s.promptQueue = append(s.promptQueue, agent.GenerateToolCompletionPrompt(toolName, result))
}

// queueMissingArgsPrompt checks the proposal for declared arguments left nil
// and, when any are missing, queues an internal follow-up prompt instead of
// arming the confirmation gate. Reports whether the proposal was deferred.
func queueMissingArgsPrompt(ctx workflow.Context, toolName string, toolData agent.ToolData, s *state) bool {
	var missing []string
	for key, value := range toolData.Args {
		if value == nil {
			missing = append(missing, key)
		}
	}
	if len(missing) == 0 {
		return false
	}
	// Stable order: Args is a map and history must replay identically.
	sortStrings(missing)
	workflow.GetLogger(ctx).Info("Missing arguments for tool", "tool", toolName, "missing", missing)
	s.promptQueue = append(s.promptQueue, agent.GenerateMissingArgsPrompt(toolName, toolData, missing))
	return true
}

func sortStrings(ss []string) {
	for i := 1; i < len(ss); i++ {
		for j := i; j > 0 && ss[j] < ss[j-1]; j-- {
			ss[j], ss[j-1] = ss[j-1], ss[j]
		}
	}
}

// continueAsNewIfNeeded hands off to a fresh run once the history reaches the
// turn budget. The new run receives only the summary, the unconsumed prompt
// queue and the goal; the full history is discarded in favor of the summary.
// Returns true when the caller must return the accompanying error.
func continueAsNewIfNeeded(ctx workflow.Context, s *state, goal agent.AgentGoal) (bool, error) {
	if len(s.history.Messages) < MaxTurnsBeforeContinue {
		return false, nil
	}
	logger := workflow.GetLogger(ctx)
	logger.Info("History size reached turn budget, preparing to continue as new", "messages", len(s.history.Messages))

	summary := summarizeConversation(ctx, s.history)

	s.addMessage(ctx, agent.ActorSystem, map[string]any{
		"type":    "system",
		"content": "The conversation is continuing in a new session to maintain performance.",
	})
	s.addMessage(ctx, agent.ActorConversationSummary, summary)

	logger.Info("Continuing as new", "pending_prompts", len(s.promptQueue))
	return true, workflow.NewContinueAsNewError(ctx, AgentGoalWorkflow, agent.CombinedInput{
		Params: agent.WorkflowParams{
			ConversationSummary: summary,
			PromptQueue:         s.promptQueue,
		},
		Goal: goal,
	})
}

// summarizeConversation invokes the planner in summarize mode over the recent
// message window. A failed summarization falls back to a placeholder rather
// than aborting the continuation.
func summarizeConversation(ctx workflow.Context, history agent.ConversationHistory) string {
	contextInstructions, prompt := agent.PromptSummaryWithHistory(history)
	toolData, err := planNextStep(ctx, agent.ToolPromptInput{
		Prompt:              prompt,
		ContextInstructions: contextInstructions,
	})
	if err != nil || toolData.Response == "" {
		workflow.GetLogger(ctx).Error("Failed to generate summary, using placeholder", "error", err)
		return "Continued conversation from previous session"
	}
	return toolData.Response
}
