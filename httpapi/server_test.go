package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/api/workflow/v1"
	"go.temporal.io/api/workflowservice/v1"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/converter"

	"github.com/harmonia-ai/harmonia/agent"
	"github.com/harmonia-ai/harmonia/config"
	wf "github.com/harmonia-ai/harmonia/workflow"
)

// encoded is a minimal converter.EncodedValue over a JSON round trip.
type encoded struct{ v any }

func (e encoded) HasValue() bool { return e.v != nil }

func (e encoded) Get(out any) error {
	raw, err := json.Marshal(e.v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

type startCall struct {
	workflowID string
	signalName string
	signalArg  any
	taskQueue  string
}

type signalCall struct {
	workflowID string
	signalName string
}

// fakeTemporal scripts the Temporal client responses per test.
type fakeTemporal struct {
	status       enumspb.WorkflowExecutionStatus
	describeErr  error
	queryResults map[string]any
	queryErr     error
	signalErr    error

	starts  []startCall
	signals []signalCall
}

func (f *fakeTemporal) SignalWithStartWorkflow(_ context.Context, workflowID, signalName string, signalArg any, options client.StartWorkflowOptions, _ any, _ ...any) (client.WorkflowRun, error) {
	f.starts = append(f.starts, startCall{
		workflowID: workflowID,
		signalName: signalName,
		signalArg:  signalArg,
		taskQueue:  options.TaskQueue,
	})
	return nil, nil
}

func (f *fakeTemporal) SignalWorkflow(_ context.Context, workflowID, _, signalName string, _ any) error {
	if f.signalErr != nil {
		return f.signalErr
	}
	f.signals = append(f.signals, signalCall{workflowID: workflowID, signalName: signalName})
	return nil
}

func (f *fakeTemporal) QueryWorkflow(_ context.Context, _, _, queryType string, _ ...any) (converter.EncodedValue, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return encoded{v: f.queryResults[queryType]}, nil
}

func (f *fakeTemporal) DescribeWorkflowExecution(context.Context, string, string) (*workflowservice.DescribeWorkflowExecutionResponse, error) {
	if f.describeErr != nil {
		return nil, f.describeErr
	}
	return &workflowservice.DescribeWorkflowExecutionResponse{
		WorkflowExecutionInfo: &workflow.WorkflowExecutionInfo{Status: f.status},
	}, nil
}

func newTestServer(fake *fakeTemporal) *echo.Echo {
	cfg := &config.Config{
		TaskQueue:    "agent-task-queue",
		AllowOrigins: []string{"http://localhost:5173"},
		AgentGoal:    agent.GoalSimpleMusic,
	}
	e := echo.New()
	New(fake, cfg).Routes(e)
	return e
}

func do(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestStartWorkflowSignalsStarterPrompt(t *testing.T) {
	t.Parallel()
	fake := &fakeTemporal{}
	rec := do(newTestServer(fake), http.MethodPost, "/start-workflow")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, fake.starts, 1)
	require.Equal(t, DefaultWorkflowID, fake.starts[0].workflowID)
	require.Equal(t, wf.SignalUserPrompt, fake.starts[0].signalName)
	require.Equal(t, "agent-task-queue", fake.starts[0].taskQueue)
	prompt, ok := fake.starts[0].signalArg.(string)
	require.True(t, ok)
	require.True(t, agent.IsStarterPrompt(prompt))
	require.Contains(t, prompt, agent.SimpleMusicGoal.StarterPrompt)
}

func TestSendPrompt(t *testing.T) {
	t.Parallel()
	fake := &fakeTemporal{status: enumspb.WORKFLOW_EXECUTION_STATUS_RUNNING}
	e := newTestServer(fake)

	rec := do(e, http.MethodPost, "/send-prompt?prompt=make+a+melody&conversation_id=conv-1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, fake.starts, 1)
	require.Equal(t, "conv-1", fake.starts[0].workflowID)
	require.Equal(t, "make a melody", fake.starts[0].signalArg)

	rec = do(e, http.MethodPost, "/send-prompt")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConfirmAndEndChat(t *testing.T) {
	t.Parallel()
	fake := &fakeTemporal{}
	e := newTestServer(fake)

	require.Equal(t, http.StatusOK, do(e, http.MethodPost, "/confirm").Code)
	require.Equal(t, http.StatusOK, do(e, http.MethodPost, "/end-chat").Code)
	require.Equal(t, []signalCall{
		{workflowID: DefaultWorkflowID, signalName: wf.SignalConfirm},
		{workflowID: DefaultWorkflowID, signalName: wf.SignalEndChat},
	}, fake.signals)
}

func TestConfirmMissingWorkflowIsNotAnError(t *testing.T) {
	t.Parallel()
	fake := &fakeTemporal{signalErr: serviceerror.NewNotFound("no workflow")}
	rec := do(newTestServer(fake), http.MethodPost, "/confirm")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetConversationHistory(t *testing.T) {
	t.Parallel()
	fake := &fakeTemporal{
		status: enumspb.WORKFLOW_EXECUTION_STATUS_RUNNING,
		queryResults: map[string]any{
			wf.QueryConversationHistory: agent.ConversationHistory{Messages: []agent.Message{
				{Actor: agent.ActorUser, Response: "hello"},
			}},
		},
	}
	rec := do(newTestServer(fake), http.MethodGet, "/get-conversation-history")
	require.Equal(t, http.StatusOK, rec.Code)

	var history agent.ConversationHistory
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history.Messages, 1)
	require.Equal(t, agent.ActorUser, history.Messages[0].Actor)
}

func TestGetConversationHistoryDegradation(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name     string
		fake     *fakeTemporal
		wantCode int
		empty    bool
	}{
		{
			name:     "unknown conversation",
			fake:     &fakeTemporal{describeErr: serviceerror.NewNotFound("nope")},
			wantCode: http.StatusOK,
			empty:    true,
		},
		{
			name:     "terminated workflow",
			fake:     &fakeTemporal{status: enumspb.WORKFLOW_EXECUTION_STATUS_TERMINATED},
			wantCode: http.StatusOK,
			empty:    true,
		},
		{
			name:     "failed workflow",
			fake:     &fakeTemporal{status: enumspb.WORKFLOW_EXECUTION_STATUS_FAILED},
			wantCode: http.StatusOK,
			empty:    true,
		},
		{
			name: "worker unavailable",
			fake: &fakeTemporal{
				status:   enumspb.WORKFLOW_EXECUTION_STATUS_RUNNING,
				queryErr: context.DeadlineExceeded,
			},
			wantCode: http.StatusNotFound,
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec := do(newTestServer(tc.fake), http.MethodGet, "/get-conversation-history")
			require.Equal(t, tc.wantCode, rec.Code)
			if tc.empty {
				var history agent.ConversationHistory
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
				require.Empty(t, history.Messages)
			}
		})
	}
}

func TestGetToolDataCompletedWorkflowIsEmpty(t *testing.T) {
	t.Parallel()
	fake := &fakeTemporal{status: enumspb.WORKFLOW_EXECUTION_STATUS_COMPLETED}
	rec := do(newTestServer(fake), http.MethodGet, "/tool-data")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "{}", rec.Body.String())
}

func TestGetToolData(t *testing.T) {
	t.Parallel()
	fake := &fakeTemporal{
		status: enumspb.WORKFLOW_EXECUTION_STATUS_RUNNING,
		queryResults: map[string]any{
			wf.QueryLatestToolData: agent.ToolData{Next: agent.NextStepConfirm, Tool: "MidiCreationTool"},
		},
	}
	rec := do(newTestServer(fake), http.MethodGet, "/tool-data")
	require.Equal(t, http.StatusOK, rec.Code)

	var td agent.ToolData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &td))
	require.Equal(t, "MidiCreationTool", td.Tool)
}

func TestGetWorkflowState(t *testing.T) {
	t.Parallel()
	fake := &fakeTemporal{
		queryResults: map[string]any{
			wf.QueryWorkflowState: agent.WorkflowState{MessageCount: 4, WaitingForConfirm: true},
		},
	}
	rec := do(newTestServer(fake), http.MethodGet, "/workflow-state")
	require.Equal(t, http.StatusOK, rec.Code)

	var state agent.WorkflowState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	require.Equal(t, 4, state.MessageCount)
	require.True(t, state.WaitingForConfirm)
}

func TestIsDigits(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want bool
	}{
		{"120", true},
		{" 90 ", true},
		{"", false},
		{"   ", false},
		{"12a", false},
		{"tempo 120", false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, isDigits(tc.in), "input %q", tc.in)
	}
}

func TestMessageText(t *testing.T) {
	t.Parallel()
	require.Equal(t, "hi", messageText("hi"))
	require.Equal(t, "proposal", messageText(map[string]any{"response": "proposal"}))
	require.Equal(t, "td", messageText(agent.ToolData{Response: "td"}))
	require.Equal(t, "", messageText(42))
}
