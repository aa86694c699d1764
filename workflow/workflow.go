// Package workflow implements the durable conversation state machine: a
// single workflow per conversation that queues user prompts, plans the next
// step with the LLM planner, gates tool execution on user confirmation and
// continues-as-new once the history exceeds the turn budget.
package workflow

import (
	"encoding/json"

	"go.temporal.io/sdk/workflow"

	"github.com/harmonia-ai/harmonia/agent"
)

// Registered names referenced by the worker and the API layer.
const (
	AgentGoalWorkflowName    = "AgentGoalWorkflow"
	GoalSelectorWorkflowName = "AgentSelectorWorkflow"
)

// Signal and query names.
const (
	SignalUserPrompt = "user_prompt"
	SignalConfirm    = "confirm"
	SignalEndChat    = "end_chat"

	QueryConversationHistory = "get_conversation_history"
	QueryWorkflowState       = "get_workflow_state"
	QuerySummaryFromHistory  = "get_summary_from_history"
	QueryLatestToolData      = "get_latest_tool_data"
)

// MaxTurnsBeforeContinue is the turn budget: once the history holds this many
// messages the workflow summarizes recent context and continues as new.
const MaxTurnsBeforeContinue = 200

// state is the mutable conversation state, exclusively owned by the workflow
// goroutine. Signal pumps mutate it; queries read snapshots.
type state struct {
	history     agent.ConversationHistory
	promptQueue []string
	summary     string
	chatEnded   bool
	confirmed   bool
	toolData    *agent.ToolData
	toolResults []agent.ToolResult
	continued   bool
}

func (s *state) addMessage(ctx workflow.Context, actor string, response any) {
	workflow.GetLogger(ctx).Debug("Adding message", "actor", actor)
	s.history.Messages = append(s.history.Messages, agent.Message{Actor: actor, Response: response})
}

// AgentGoalWorkflow drives one conversation: it waits for external stimulus
// (prompt, confirmation or end-of-chat), validates and plans prompts, gates
// tool execution on confirmation and folds every outcome back into the
// append-only history.
func AgentGoalWorkflow(ctx workflow.Context, input agent.CombinedInput) (string, error) {
	logger := workflow.GetLogger(ctx)
	goal := input.Goal
	s := &state{}
	logger.Info("Starting agent workflow", "workflow_id", workflow.GetInfo(ctx).WorkflowExecution.ID, "goal", goal.ID)

	// Seed from the continuation snapshot when this run continues a previous
	// one: the summary stands in for the discarded history and unconsumed
	// prompts carry over verbatim.
	if input.Params.ConversationSummary != "" {
		s.continued = true
		s.summary = input.Params.ConversationSummary
		s.addMessage(ctx, agent.ActorSystem, map[string]any{
			"type":    "continuation",
			"message": "Continuing conversation from previous session",
		})
		s.addMessage(ctx, agent.ActorConversationSummary, input.Params.ConversationSummary)
		logger.Info("Continuing workflow with existing conversation summary")
	}
	if len(input.Params.PromptQueue) > 0 {
		s.promptQueue = append(s.promptQueue, input.Params.PromptQueue...)
		logger.Info("Restored prompt queue", "count", len(s.promptQueue))
	}

	if err := registerQueries(ctx, s); err != nil {
		return "", err
	}
	startSignalPumps(ctx, s)

	waitingForConfirm := false
	currentTool := ""

	for {
		if err := workflow.Await(ctx, func() bool {
			return len(s.promptQueue) > 0 || s.chatEnded || s.confirmed
		}); err != nil {
			return "", err
		}

		if s.chatEnded {
			logger.Info("Chat ended explicitly by user action")
			return serializeHistory(s.history), nil
		}

		if s.confirmed {
			if !waitingForConfirm || currentTool == "" || s.toolData == nil {
				// Stale or duplicate confirmation: deliberate idempotency guard,
				// not an error.
				s.confirmed = false
				logger.Debug("Ignoring confirmation outside of confirmation window")
				continue
			}
			s.confirmed = false
			waitingForConfirm = false

			confirmed := *s.toolData
			confirmed.Next = agent.ActorUserConfirmedToolRun
			s.addMessage(ctx, agent.ActorUserConfirmedToolRun, confirmed)

			executeTool(ctx, currentTool, s)

			if cont, err := continueAsNewIfNeeded(ctx, s, goal); cont {
				return "", err
			}
			continue
		}

		if len(s.promptQueue) == 0 {
			continue
		}
		prompt := s.promptQueue[0]
		s.promptQueue = s.promptQueue[1:]

		// Starter and internally synthesized prompts bypass history and
		// validation.
		if !agent.IsStarterPrompt(prompt) {
			s.addMessage(ctx, agent.ActorUser, prompt)

			validation, err := validatePrompt(ctx, agent.ValidationInput{
				Prompt:              prompt,
				ConversationHistory: s.history,
				AgentGoal:           goal,
			})
			if err != nil {
				return "", err
			}
			if !validation.ValidationResult {
				logger.Warn("Prompt validation failed", "reason", validation.ValidationFailedReason)
				s.addMessage(ctx, agent.ActorAgent, validation.ValidationFailedReason)
				continue
			}
		}

		contextInstructions := agent.GenerateGenAIPrompt(goal, s.history, s.toolData)
		toolData, err := planNextStep(ctx, agent.ToolPromptInput{
			Prompt:              prompt,
			ContextInstructions: contextInstructions,
		})
		if err != nil {
			// Planner failures that survive the retry policy fail the run.
			return "", err
		}
		s.toolData = &toolData
		currentTool = toolData.Tool

		switch {
		case toolData.Next == agent.NextStepConfirm && currentTool != "":
			if queueMissingArgsPrompt(ctx, currentTool, toolData, s) {
				continue
			}
			waitingForConfirm = true
			s.confirmed = false
			logger.Info("Waiting for user confirm signal", "tool", currentTool)

		case toolData.Next == agent.NextStepDone:
			logger.Info("All steps completed, exiting workflow")
			s.addMessage(ctx, agent.ActorAgent, toolData)
			return serializeHistory(s.history), nil
		}

		s.addMessage(ctx, agent.ActorAgent, toolData)

		if cont, err := continueAsNewIfNeeded(ctx, s, goal); cont {
			return "", err
		}
	}
}

// registerQueries exposes read-only snapshots of the conversation state.
func registerQueries(ctx workflow.Context, s *state) error {
	if err := workflow.SetQueryHandler(ctx, QueryConversationHistory, func() (agent.ConversationHistory, error) {
		return s.history, nil
	}); err != nil {
		return err
	}
	if err := workflow.SetQueryHandler(ctx, QueryWorkflowState, func() (agent.WorkflowState, error) {
		return agent.WorkflowState{
			MessageCount:           len(s.history.Messages),
			WaitingForConfirm:      s.toolData != nil && s.toolData.Next == agent.NextStepConfirm,
			ContinuedFromPrevious:  s.continued,
			MaxTurnsBeforeContinue: MaxTurnsBeforeContinue,
			ChatEnded:              s.chatEnded,
		}, nil
	}); err != nil {
		return err
	}
	if err := workflow.SetQueryHandler(ctx, QuerySummaryFromHistory, func() (string, error) {
		return s.summary, nil
	}); err != nil {
		return err
	}
	return workflow.SetQueryHandler(ctx, QueryLatestToolData, func() (*agent.ToolData, error) {
		return s.toolData, nil
	})
}

// startSignalPumps drains the inbound signal channels into the state. Each
// pump runs on the workflow dispatcher so mutations are serialized with the
// main loop.
func startSignalPumps(ctx workflow.Context, s *state) {
	logger := workflow.GetLogger(ctx)

	promptCh := workflow.GetSignalChannel(ctx, SignalUserPrompt)
	workflow.Go(ctx, func(gctx workflow.Context) {
		for {
			var prompt string
			promptCh.Receive(gctx, &prompt)
			if s.chatEnded {
				logger.Warn("Message dropped due to chat closed", "prompt", prompt)
				continue
			}
			s.promptQueue = append(s.promptQueue, prompt)
		}
	})

	confirmCh := workflow.GetSignalChannel(ctx, SignalConfirm)
	workflow.Go(ctx, func(gctx workflow.Context) {
		for {
			confirmCh.Receive(gctx, nil)
			logger.Info("Received user confirmation")
			s.confirmed = true
		}
	})

	endCh := workflow.GetSignalChannel(ctx, SignalEndChat)
	workflow.Go(ctx, func(gctx workflow.Context) {
		for {
			endCh.Receive(gctx, nil)
			logger.Info("Received end_chat signal")
			s.chatEnded = true
		}
	})
}

// serializeHistory renders the final history returned by a completed run.
func serializeHistory(h agent.ConversationHistory) string {
	raw, err := json.Marshal(h)
	if err != nil {
		return ""
	}
	return string(raw)
}

// GoalSelectorWorkflow chooses the goal definition that should govern
// subsequent planning from the flattened conversation text. Pure function of
// its input so it is trivially deterministic.
func GoalSelectorWorkflow(_ workflow.Context, conversationHistory string) (map[string]string, error) {
	return map[string]string{"selected_goal": agent.SelectGoal(conversationHistory)}, nil
}
