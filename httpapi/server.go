// Package httpapi exposes the conversation over HTTP: endpoints to start a
// conversation, push prompts and confirmations, end the chat and poll
// history, state and tool data. Every handler degrades to an empty or
// default payload when the Temporal connection is unavailable, and treats
// "not found" as "no conversation yet" rather than an error.
package httpapi

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/converter"
	"go.temporal.io/api/workflowservice/v1"

	"github.com/harmonia-ai/harmonia/agent"
	"github.com/harmonia-ai/harmonia/config"
)

// DefaultWorkflowID is used when the caller does not pin a conversation ID.
const DefaultWorkflowID = "agent-workflow"

// TemporalClient is the subset of the Temporal client the server uses.
// Satisfied by client.Client; tests substitute a fake.
type TemporalClient interface {
	SignalWithStartWorkflow(ctx context.Context, workflowID, signalName string, signalArg any, options client.StartWorkflowOptions, workflow any, workflowArgs ...any) (client.WorkflowRun, error)
	SignalWorkflow(ctx context.Context, workflowID, runID, signalName string, arg any) error
	QueryWorkflow(ctx context.Context, workflowID, runID, queryType string, args ...any) (converter.EncodedValue, error)
	DescribeWorkflowExecution(ctx context.Context, workflowID, runID string) (*workflowservice.DescribeWorkflowExecutionResponse, error)
}

// Server wires the HTTP handlers to the Temporal client. The connection
// state is owned here and passed into handlers explicitly; there is no
// process-wide availability flag.
type Server struct {
	temporal TemporalClient
	cfg      *config.Config
	goal     agent.AgentGoal
}

// New constructs a Server around the given Temporal client and config.
func New(temporal TemporalClient, cfg *config.Config) *Server {
	return &Server{
		temporal: temporal,
		cfg:      cfg,
		goal:     agent.GoalByID(cfg.AgentGoal),
	}
}

// Routes registers the API endpoints and shared middleware on the echo
// instance.
func (s *Server) Routes(e *echo.Echo) {
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     s.cfg.AllowOrigins,
		AllowCredentials: true,
	}))

	e.GET("/", s.root)
	e.POST("/start-workflow", s.startWorkflow)
	e.POST("/send-prompt", s.sendPrompt)
	e.POST("/confirm", s.confirm)
	e.POST("/end-chat", s.endChat)
	e.GET("/get-conversation-history", s.getConversationHistory)
	e.GET("/tool-data", s.getToolData)
	e.GET("/workflow-state", s.getWorkflowState)
}

// workflowID resolves the conversation identifier for a request.
func workflowID(c echo.Context) string {
	if id := c.QueryParam("conversation_id"); id != "" {
		return id
	}
	return DefaultWorkflowID
}
