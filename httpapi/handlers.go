package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"goa.design/clue/log"

	"github.com/harmonia-ai/harmonia/agent"
	wf "github.com/harmonia-ai/harmonia/workflow"
)

// queryTimeout bounds workflow queries; exceeding it means the worker is
// unavailable, not that the conversation does not exist.
const queryTimeout = 5 * time.Second

func (s *Server) root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Harmonia agent API"})
}

// startWorkflow starts (or signals) the conversation with the goal's starter
// prompt. The starter prefix keeps the prompt out of the visible history.
func (s *Server) startWorkflow(c echo.Context) error {
	id := workflowID(c)
	input := agent.CombinedInput{Goal: s.goal}

	_, err := s.temporal.SignalWithStartWorkflow(
		c.Request().Context(), id,
		wf.SignalUserPrompt, agent.StarterPromptPrefix+s.goal.StarterPrompt,
		client.StartWorkflowOptions{ID: id, TaskQueue: s.cfg.TaskQueue},
		wf.AgentGoalWorkflowName, input,
	)
	if err != nil {
		log.Errorf(c.Request().Context(), err, "start workflow")
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "engine unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message":         "Workflow started with goal's starter prompt.",
		"conversation_id": id,
	})
}

// sendPrompt enqueues a user prompt, starting the conversation when needed.
// Bare-number prompts answering a tempo question are auto-confirmed so the
// user does not have to click confirm twice for BPM follow-ups.
func (s *Server) sendPrompt(c echo.Context) error {
	prompt := c.QueryParam("prompt")
	if prompt == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "prompt is required"})
	}
	id := workflowID(c)
	ctx := c.Request().Context()

	autoConfirm := isDigits(prompt) && s.lastAgentMessageMentionsTempo(ctx, id)

	input := agent.CombinedInput{Goal: s.goal}
	if _, err := s.temporal.SignalWithStartWorkflow(
		ctx, id,
		wf.SignalUserPrompt, prompt,
		client.StartWorkflowOptions{ID: id, TaskQueue: s.cfg.TaskQueue},
		wf.AgentGoalWorkflowName, input,
	); err != nil {
		log.Errorf(ctx, err, "send prompt")
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "engine unavailable"})
	}

	if autoConfirm {
		// Give the workflow a beat to process the prompt before confirming.
		time.Sleep(time.Second)
		if err := s.temporal.SignalWorkflow(ctx, id, "", wf.SignalConfirm, nil); err != nil {
			log.Warn(ctx, log.KV{K: "msg", V: "auto-confirm failed"}, log.KV{K: "err", V: err.Error()})
		} else {
			return c.JSON(http.StatusOK, map[string]string{
				"message": "Prompt sent and automatically confirmed as tempo value.",
			})
		}
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Prompt sent to workflow " + id + "."})
}

func (s *Server) confirm(c echo.Context) error {
	ctx := c.Request().Context()
	if err := s.temporal.SignalWorkflow(ctx, workflowID(c), "", wf.SignalConfirm, nil); err != nil {
		if isNotFound(err) {
			return c.JSON(http.StatusOK, map[string]string{})
		}
		log.Errorf(ctx, err, "confirm signal")
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "engine unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Confirm signal sent."})
}

func (s *Server) endChat(c echo.Context) error {
	ctx := c.Request().Context()
	if err := s.temporal.SignalWorkflow(ctx, workflowID(c), "", wf.SignalEndChat, nil); err != nil {
		if isNotFound(err) {
			return c.JSON(http.StatusOK, map[string]string{})
		}
		log.Errorf(ctx, err, "end chat signal")
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "engine unavailable"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "End chat signal sent."})
}

// getConversationHistory returns the full transcript, or an empty one when
// the conversation does not exist or is in a failed state.
func (s *Server) getConversationHistory(c echo.Context) error {
	ctx := c.Request().Context()
	id := workflowID(c)

	status, err := s.describeStatus(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return c.JSON(http.StatusOK, agent.ConversationHistory{})
		}
		log.Errorf(ctx, err, "describe workflow")
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "engine unavailable"})
	}
	switch status {
	case enumspb.WORKFLOW_EXECUTION_STATUS_TERMINATED,
		enumspb.WORKFLOW_EXECUTION_STATUS_CANCELED,
		enumspb.WORKFLOW_EXECUTION_STATUS_FAILED:
		log.Info(ctx, log.KV{K: "msg", V: "workflow in failed state, returning empty history"})
		return c.JSON(http.StatusOK, agent.ConversationHistory{})
	}

	var history agent.ConversationHistory
	if err := s.query(ctx, id, wf.QueryConversationHistory, &history); err != nil {
		return s.queryError(c, err)
	}
	return c.JSON(http.StatusOK, history)
}

// getToolData returns the latest planner decision, or an empty object when
// the conversation is completed or does not exist.
func (s *Server) getToolData(c echo.Context) error {
	ctx := c.Request().Context()
	id := workflowID(c)

	status, err := s.describeStatus(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return c.JSON(http.StatusOK, map[string]any{})
		}
		log.Errorf(ctx, err, "describe workflow")
		return c.JSON(http.StatusOK, map[string]any{})
	}
	if status == enumspb.WORKFLOW_EXECUTION_STATUS_COMPLETED {
		return c.JSON(http.StatusOK, map[string]any{})
	}

	var toolData *agent.ToolData
	if err := s.query(ctx, id, wf.QueryLatestToolData, &toolData); err != nil {
		return s.queryError(c, err)
	}
	if toolData == nil {
		return c.JSON(http.StatusOK, map[string]any{})
	}
	return c.JSON(http.StatusOK, toolData)
}

func (s *Server) getWorkflowState(c echo.Context) error {
	ctx := c.Request().Context()
	var state agent.WorkflowState
	if err := s.query(ctx, workflowID(c), wf.QueryWorkflowState, &state); err != nil {
		if isNotFound(err) {
			return c.JSON(http.StatusOK, agent.WorkflowState{})
		}
		return s.queryError(c, err)
	}
	return c.JSON(http.StatusOK, state)
}

func (s *Server) describeStatus(ctx context.Context, id string) (enumspb.WorkflowExecutionStatus, error) {
	resp, err := s.temporal.DescribeWorkflowExecution(ctx, id, "")
	if err != nil {
		return enumspb.WORKFLOW_EXECUTION_STATUS_UNSPECIFIED, err
	}
	return resp.GetWorkflowExecutionInfo().GetStatus(), nil
}

func (s *Server) query(ctx context.Context, id, queryType string, result any) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()
	value, err := s.temporal.QueryWorkflow(ctx, id, "", queryType)
	if err != nil {
		return err
	}
	return value.Get(result)
}

// queryError maps a failed query onto the API contract: not-found is "no
// conversation yet", a timeout is "worker unavailable", anything else is an
// internal error. Raw engine errors never reach the client.
func (s *Server) queryError(c echo.Context, err error) error {
	ctx := c.Request().Context()
	switch {
	case isNotFound(err):
		return c.JSON(http.StatusOK, map[string]any{})
	case errors.Is(err, context.DeadlineExceeded):
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Temporal query timed out (worker may be unavailable).",
		})
	case strings.Contains(err.Error(), "no poller seen for task queue recently"):
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "Workflow worker unavailable or not found.",
		})
	default:
		log.Errorf(ctx, err, "workflow query")
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Internal server error while querying workflow.",
		})
	}
}

func isNotFound(err error) bool {
	var notFound *serviceerror.NotFound
	return errors.As(err, &notFound)
}

func isDigits(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// lastAgentMessageMentionsTempo checks whether the latest agent message asks
// about tempo/BPM, best-effort: any failure simply disables auto-confirm.
func (s *Server) lastAgentMessageMentionsTempo(ctx context.Context, id string) bool {
	status, err := s.describeStatus(ctx, id)
	if err != nil || status != enumspb.WORKFLOW_EXECUTION_STATUS_RUNNING {
		return false
	}
	var history agent.ConversationHistory
	if err := s.query(ctx, id, wf.QueryConversationHistory, &history); err != nil {
		return false
	}
	for i := len(history.Messages) - 1; i >= 0; i-- {
		m := history.Messages[i]
		if m.Actor != agent.ActorAgent {
			continue
		}
		content := strings.ToLower(messageText(m.Response))
		return strings.Contains(content, "tempo") && strings.Contains(content, "bpm")
	}
	return false
}

// messageText extracts a best-effort text rendering of a message payload.
func messageText(response any) string {
	switch v := response.(type) {
	case string:
		return v
	case map[string]any:
		if text, ok := v["response"].(string); ok {
			return text
		}
	case agent.ToolData:
		return v.Response
	}
	return ""
}
