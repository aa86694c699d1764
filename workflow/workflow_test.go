package workflow

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"

	"github.com/harmonia-ai/harmonia/activities"
	"github.com/harmonia-ai/harmonia/agent"
)

// fixture wires a test workflow environment with fake planner and validation
// activities so tests can script the model's decisions.
type fixture struct {
	env *testsuite.TestWorkflowEnvironment

	mu            sync.Mutex
	plannerCalls  []agent.ToolPromptInput
	validateCalls int
}

func newFixture(
	t *testing.T,
	plan func(agent.ToolPromptInput) (agent.ToolData, error),
	validate func(agent.ValidationInput) (agent.ValidationResult, error),
) *fixture {
	t.Helper()
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestWorkflowEnvironment()
	env.RegisterWorkflowWithOptions(AgentGoalWorkflow, workflow.RegisterOptions{Name: AgentGoalWorkflowName})

	f := &fixture{env: env}
	env.RegisterActivityWithOptions(func(_ context.Context, in agent.ValidationInput) (agent.ValidationResult, error) {
		f.mu.Lock()
		f.validateCalls++
		f.mu.Unlock()
		if validate != nil {
			return validate(in)
		}
		return agent.ValidationResult{ValidationResult: true}, nil
	}, activity.RegisterOptions{Name: activities.ValidatePromptName})
	env.RegisterActivityWithOptions(func(_ context.Context, in agent.ToolPromptInput) (agent.ToolData, error) {
		f.mu.Lock()
		f.plannerCalls = append(f.plannerCalls, in)
		f.mu.Unlock()
		return plan(in)
	}, activity.RegisterOptions{Name: activities.ToolPlannerName})
	return f
}

func (f *fixture) signalPrompt(prompt string, at time.Duration) {
	f.env.RegisterDelayedCallback(func() { f.env.SignalWorkflow(SignalUserPrompt, prompt) }, at)
}

func (f *fixture) signalConfirm(at time.Duration) {
	f.env.RegisterDelayedCallback(func() { f.env.SignalWorkflow(SignalConfirm, nil) }, at)
}

func (f *fixture) signalEndChat(at time.Duration) {
	f.env.RegisterDelayedCallback(func() { f.env.SignalWorkflow(SignalEndChat, nil) }, at)
}

func (f *fixture) run(t *testing.T, input agent.CombinedInput) {
	t.Helper()
	f.env.ExecuteWorkflow(AgentGoalWorkflow, input)
	require.True(t, f.env.IsWorkflowCompleted())
}

func (f *fixture) history(t *testing.T) agent.ConversationHistory {
	t.Helper()
	value, err := f.env.QueryWorkflow(QueryConversationHistory)
	require.NoError(t, err)
	var history agent.ConversationHistory
	require.NoError(t, value.Get(&history))
	return history
}

func (f *fixture) state(t *testing.T) agent.WorkflowState {
	t.Helper()
	value, err := f.env.QueryWorkflow(QueryWorkflowState)
	require.NoError(t, err)
	var state agent.WorkflowState
	require.NoError(t, value.Get(&state))
	return state
}

func actors(h agent.ConversationHistory) []string {
	out := make([]string, len(h.Messages))
	for i, m := range h.Messages {
		out[i] = m.Actor
	}
	return out
}

func TestAgentGoalWorkflowQuestionThenEndChat(t *testing.T) {
	t.Parallel()
	f := newFixture(t, func(agent.ToolPromptInput) (agent.ToolData, error) {
		return agent.ToolData{Next: agent.NextStepQuestion, Response: "What tempo would you like?"}, nil
	}, nil)

	f.signalPrompt("make me a melody", time.Millisecond)
	f.signalEndChat(100 * time.Millisecond)
	f.run(t, agent.CombinedInput{Goal: agent.SimpleMusicGoal})

	require.NoError(t, f.env.GetWorkflowError())
	var raw string
	require.NoError(t, f.env.GetWorkflowResult(&raw))
	var history agent.ConversationHistory
	require.NoError(t, json.Unmarshal([]byte(raw), &history))
	require.Equal(t, []string{agent.ActorUser, agent.ActorAgent}, actors(history))
	require.Equal(t, "make me a melody", history.Messages[0].Response)

	state := f.state(t)
	require.True(t, state.ChatEnded)
	require.Equal(t, 2, state.MessageCount)
	require.Equal(t, MaxTurnsBeforeContinue, state.MaxTurnsBeforeContinue)
}

func TestAgentGoalWorkflowPromptsProcessedInOrder(t *testing.T) {
	t.Parallel()
	f := newFixture(t, func(in agent.ToolPromptInput) (agent.ToolData, error) {
		return agent.ToolData{Next: agent.NextStepQuestion, Response: "re: " + in.Prompt}, nil
	}, nil)

	f.signalPrompt("first", time.Millisecond)
	f.signalPrompt("second", time.Millisecond)
	f.signalEndChat(100 * time.Millisecond)
	f.run(t, agent.CombinedInput{Goal: agent.SimpleMusicGoal})

	history := f.history(t)
	require.Equal(t, []string{agent.ActorUser, agent.ActorAgent, agent.ActorUser, agent.ActorAgent}, actors(history))
	require.Equal(t, "first", history.Messages[0].Response)
	require.Equal(t, "second", history.Messages[2].Response)
}

func TestAgentGoalWorkflowStarterPromptHiddenFromHistory(t *testing.T) {
	t.Parallel()
	f := newFixture(t, func(agent.ToolPromptInput) (agent.ToolData, error) {
		return agent.ToolData{Next: agent.NextStepQuestion, Response: "Welcome! What shall we do?"}, nil
	}, nil)

	f.signalPrompt(agent.StarterPromptPrefix+"Greet the user and offer help.", time.Millisecond)
	f.signalEndChat(100 * time.Millisecond)
	f.run(t, agent.CombinedInput{Goal: agent.SimpleMusicGoal})

	require.Equal(t, []string{agent.ActorAgent}, actors(f.history(t)))
	require.Zero(t, f.validateCalls, "starter prompts must skip validation")
}

func TestAgentGoalWorkflowValidationFailureShortCircuits(t *testing.T) {
	t.Parallel()
	f := newFixture(t, func(agent.ToolPromptInput) (agent.ToolData, error) {
		return agent.ToolData{Next: agent.NextStepQuestion, Response: "unexpected"}, nil
	}, func(agent.ValidationInput) (agent.ValidationResult, error) {
		return agent.ValidationResult{ValidationFailedReason: "Please ask about music instead."}, nil
	})

	f.signalPrompt("what is the meaning of life", time.Millisecond)
	f.signalEndChat(100 * time.Millisecond)
	f.run(t, agent.CombinedInput{Goal: agent.SimpleMusicGoal})

	history := f.history(t)
	require.Equal(t, []string{agent.ActorUser, agent.ActorAgent}, actors(history))
	require.Equal(t, "Please ask about music instead.", history.Messages[1].Response)
	require.Empty(t, f.plannerCalls, "rejected prompts must not reach the planner")
}

func TestAgentGoalWorkflowConfirmRunsToolOnce(t *testing.T) {
	t.Parallel()
	midiArgs := map[string]any{"music_text": []any{[]any{60.0, 1.0}, []any{64.0, 1.0}}}
	f := newFixture(t, func(in agent.ToolPromptInput) (agent.ToolData, error) {
		if agent.IsStarterPrompt(in.Prompt) {
			return agent.ToolData{Next: agent.NextStepQuestion, Response: "Your melody is ready."}, nil
		}
		return agent.ToolData{
			Next:     agent.NextStepConfirm,
			Tool:     agent.MidiCreationToolDefinition.Name,
			Args:     midiArgs,
			Response: "Shall I generate this melody?",
		}, nil
	}, nil)

	var toolCalls atomic.Int32
	f.env.RegisterActivityWithOptions(func(_ context.Context, args map[string]any) (agent.ToolResult, error) {
		toolCalls.Add(1)
		return agent.ToolResult{"status": "success", "note_count": 2}, nil
	}, activity.RegisterOptions{Name: agent.MidiCreationToolDefinition.Name})

	f.signalPrompt("play C then E", time.Millisecond)
	f.signalConfirm(50 * time.Millisecond)
	// Duplicate confirmation arriving outside the window must be a no-op.
	f.signalConfirm(60 * time.Millisecond)
	f.signalEndChat(200 * time.Millisecond)
	f.run(t, agent.CombinedInput{Goal: agent.SimpleMusicGoal})

	require.NoError(t, f.env.GetWorkflowError())
	require.Equal(t, int32(1), toolCalls.Load())

	history := f.history(t)
	require.Equal(t, []string{
		agent.ActorUser,
		agent.ActorAgent,
		agent.ActorUserConfirmedToolRun,
		agent.ActorToolResult,
		agent.ActorAgent,
	}, actors(history))

	result, ok := history.Messages[3].Response.(map[string]any)
	require.True(t, ok)
	require.Equal(t, agent.MidiCreationToolDefinition.Name, result["tool"])
	require.Equal(t, "success", result["status"])
}

func TestAgentGoalWorkflowStaleConfirmIgnored(t *testing.T) {
	t.Parallel()
	f := newFixture(t, func(agent.ToolPromptInput) (agent.ToolData, error) {
		return agent.ToolData{Next: agent.NextStepQuestion, Response: "nothing to confirm"}, nil
	}, nil)

	f.signalConfirm(time.Millisecond)
	f.signalEndChat(100 * time.Millisecond)
	f.run(t, agent.CombinedInput{Goal: agent.SimpleMusicGoal})

	require.NoError(t, f.env.GetWorkflowError())
	require.Empty(t, f.history(t).Messages)
	require.Empty(t, f.plannerCalls)
}

func TestAgentGoalWorkflowToolFailureBecomesErrorResult(t *testing.T) {
	t.Parallel()
	f := newFixture(t, func(in agent.ToolPromptInput) (agent.ToolData, error) {
		if agent.IsStarterPrompt(in.Prompt) {
			return agent.ToolData{Next: agent.NextStepQuestion, Response: "The tool failed, want to retry?"}, nil
		}
		return agent.ToolData{
			Next: agent.NextStepConfirm,
			Tool: agent.MidiCreationToolDefinition.Name,
			Args: map[string]any{"music_text": []any{[]any{500.0, 1.0}}},
		}, nil
	}, nil)

	f.env.RegisterActivityWithOptions(func(_ context.Context, args map[string]any) (agent.ToolResult, error) {
		return nil, temporal.NewNonRetryableApplicationError("invalid note 500", "InvalidArgs", nil)
	}, activity.RegisterOptions{Name: agent.MidiCreationToolDefinition.Name})

	f.signalPrompt("play note 500", time.Millisecond)
	f.signalConfirm(50 * time.Millisecond)
	f.signalEndChat(200 * time.Millisecond)
	f.run(t, agent.CombinedInput{Goal: agent.SimpleMusicGoal})

	require.NoError(t, f.env.GetWorkflowError(), "a failing tool must not fail the conversation")

	history := f.history(t)
	require.Equal(t, []string{
		agent.ActorUser,
		agent.ActorAgent,
		agent.ActorUserConfirmedToolRun,
		agent.ActorToolResult,
		agent.ActorAgent,
	}, actors(history))

	result, ok := history.Messages[3].Response.(map[string]any)
	require.True(t, ok)
	require.Equal(t, agent.MidiCreationToolDefinition.Name, result["tool"])
	require.Contains(t, result["error"], "invalid note 500")
}

func TestAgentGoalWorkflowMissingArgsReprompts(t *testing.T) {
	t.Parallel()
	f := newFixture(t, func(in agent.ToolPromptInput) (agent.ToolData, error) {
		if agent.IsStarterPrompt(in.Prompt) {
			return agent.ToolData{Next: agent.NextStepQuestion, Response: "Which notes should I use?"}, nil
		}
		return agent.ToolData{
			Next: agent.NextStepConfirm,
			Tool: agent.MidiCreationToolDefinition.Name,
			Args: map[string]any{"music_text": nil},
		}, nil
	}, nil)

	toolRan := false
	f.env.RegisterActivityWithOptions(func(_ context.Context, args map[string]any) (agent.ToolResult, error) {
		toolRan = true
		return agent.ToolResult{"status": "success"}, nil
	}, activity.RegisterOptions{Name: agent.MidiCreationToolDefinition.Name})

	f.signalPrompt("make some music", time.Millisecond)
	f.signalEndChat(100 * time.Millisecond)
	f.run(t, agent.CombinedInput{Goal: agent.SimpleMusicGoal})

	require.False(t, toolRan)
	require.Len(t, f.plannerCalls, 2)
	require.True(t, agent.IsStarterPrompt(f.plannerCalls[1].Prompt))
	require.Contains(t, f.plannerCalls[1].Prompt, agent.MidiCreationToolDefinition.Name)
	require.Contains(t, f.plannerCalls[1].Prompt, "music_text")
	// The internal follow-up never shows up as a user message.
	require.Equal(t, []string{agent.ActorUser, agent.ActorAgent}, actors(f.history(t)))
}

func TestAgentGoalWorkflowDoneCompletesRun(t *testing.T) {
	t.Parallel()
	f := newFixture(t, func(agent.ToolPromptInput) (agent.ToolData, error) {
		return agent.ToolData{Next: agent.NextStepDone, Response: "All done, enjoy!"}, nil
	}, nil)

	f.signalPrompt("thanks, wrap it up", time.Millisecond)
	f.run(t, agent.CombinedInput{Goal: agent.SimpleMusicGoal})

	require.NoError(t, f.env.GetWorkflowError())
	var raw string
	require.NoError(t, f.env.GetWorkflowResult(&raw))
	var history agent.ConversationHistory
	require.NoError(t, json.Unmarshal([]byte(raw), &history))
	require.Equal(t, []string{agent.ActorUser, agent.ActorAgent}, actors(history))
}

func TestAgentGoalWorkflowEndChatDropsPendingPrompts(t *testing.T) {
	t.Parallel()
	f := newFixture(t, func(agent.ToolPromptInput) (agent.ToolData, error) {
		return agent.ToolData{Next: agent.NextStepQuestion, Response: "ok"}, nil
	}, nil)

	// End-of-chat first; the prompt arriving at the same instant is dropped.
	f.signalEndChat(time.Millisecond)
	f.signalPrompt("too late", time.Millisecond)
	f.run(t, agent.CombinedInput{Goal: agent.SimpleMusicGoal})

	require.NoError(t, f.env.GetWorkflowError())
	require.Empty(t, f.history(t).Messages)
}

func TestAgentGoalWorkflowWaitingForConfirmExposedInState(t *testing.T) {
	t.Parallel()
	proposal := agent.ToolData{
		Next: agent.NextStepConfirm,
		Tool: agent.MidiCreationToolDefinition.Name,
		Args: map[string]any{"music_text": []any{[]any{72.0, 0.5}}},
	}
	f := newFixture(t, func(agent.ToolPromptInput) (agent.ToolData, error) {
		return proposal, nil
	}, nil)

	f.signalPrompt("play high C briefly", time.Millisecond)
	f.signalEndChat(100 * time.Millisecond)
	f.run(t, agent.CombinedInput{Goal: agent.SimpleMusicGoal})

	state := f.state(t)
	require.True(t, state.WaitingForConfirm)
	require.True(t, state.ChatEnded)

	value, err := f.env.QueryWorkflow(QueryLatestToolData)
	require.NoError(t, err)
	var latest *agent.ToolData
	require.NoError(t, value.Get(&latest))
	require.NotNil(t, latest)
	require.Equal(t, proposal.Tool, latest.Tool)
}

func TestAgentGoalWorkflowContinuesAsNewAtTurnBudget(t *testing.T) {
	t.Parallel()
	f := newFixture(t, func(in agent.ToolPromptInput) (agent.ToolData, error) {
		if strings.Contains(in.Prompt, "concise summary") {
			return agent.ToolData{Next: agent.NextStepDone, Response: "We discussed many melodies."}, nil
		}
		return agent.ToolData{Next: agent.NextStepQuestion, Response: "noted"}, nil
	}, nil)

	// Each prompt adds a user and an agent message, so half the budget in
	// prompts crosses the threshold.
	for i := 0; i < MaxTurnsBeforeContinue/2; i++ {
		f.signalPrompt("prompt", time.Duration(i+1)*time.Millisecond)
	}
	f.run(t, agent.CombinedInput{Goal: agent.SimpleMusicGoal})

	err := f.env.GetWorkflowError()
	require.Error(t, err)
	require.True(t, workflow.IsContinueAsNewError(err))

	history := f.history(t)
	last := history.Messages[len(history.Messages)-1]
	require.Equal(t, agent.ActorConversationSummary, last.Actor)
	require.Equal(t, "We discussed many melodies.", last.Response)
}

func TestAgentGoalWorkflowSeedsStateFromContinuation(t *testing.T) {
	t.Parallel()
	f := newFixture(t, func(agent.ToolPromptInput) (agent.ToolData, error) {
		return agent.ToolData{Next: agent.NextStepDone, Response: "Picking up where we left off."}, nil
	}, nil)

	f.run(t, agent.CombinedInput{
		Params: agent.WorkflowParams{
			ConversationSummary: "The user was composing a waltz.",
			PromptQueue:         []string{"continue the waltz"},
		},
		Goal: agent.SimpleMusicGoal,
	})

	require.NoError(t, f.env.GetWorkflowError())
	history := f.history(t)
	require.Equal(t, []string{
		agent.ActorSystem,
		agent.ActorConversationSummary,
		agent.ActorUser,
		agent.ActorAgent,
	}, actors(history))
	require.Equal(t, "The user was composing a waltz.", history.Messages[1].Response)

	state := f.state(t)
	require.True(t, state.ContinuedFromPrevious)

	value, err := f.env.QueryWorkflow(QuerySummaryFromHistory)
	require.NoError(t, err)
	var summary string
	require.NoError(t, value.Get(&summary))
	require.Equal(t, "The user was composing a waltz.", summary)
}

func TestGoalSelectorWorkflow(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name         string
		conversation string
		want         string
	}{
		{"music override", "please ONLY use music tool today", agent.GoalMusicCreation},
		{"json override", "I want only json output", agent.GoalJSONArrayCreation},
		{"train override", "book me only uk travel", agent.GoalMatchTrainInvoice},
		{"event override", "plan only oceania events", agent.GoalEventFlightInvoice},
		{"default unified", "help me with something fun", agent.GoalUnified},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var ts testsuite.WorkflowTestSuite
			env := ts.NewTestWorkflowEnvironment()
			env.RegisterWorkflowWithOptions(GoalSelectorWorkflow, workflow.RegisterOptions{Name: GoalSelectorWorkflowName})
			env.ExecuteWorkflow(GoalSelectorWorkflow, tc.conversation)
			require.True(t, env.IsWorkflowCompleted())
			require.NoError(t, env.GetWorkflowError())
			var out map[string]string
			require.NoError(t, env.GetWorkflowResult(&out))
			require.Equal(t, tc.want, out["selected_goal"])
		})
	}
}
