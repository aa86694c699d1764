// Command worker runs the Temporal workers hosting the agent workflow, the
// LLM-backed activities and the tool activities. A second worker serves the
// legacy task queue so the train tools can be pinned to dedicated hosts.
package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
	"goa.design/clue/log"

	"github.com/harmonia-ai/harmonia/activities"
	"github.com/harmonia-ai/harmonia/agent"
	"github.com/harmonia-ai/harmonia/config"
	"github.com/harmonia-ai/harmonia/llm"
	"github.com/harmonia-ai/harmonia/llm/anthropic"
	"github.com/harmonia-ai/harmonia/llm/bedrock"
	"github.com/harmonia-ai/harmonia/llm/middleware"
	"github.com/harmonia-ai/harmonia/llm/openai"
	"github.com/harmonia-ai/harmonia/tools"
	wf "github.com/harmonia-ai/harmonia/workflow"
)

func main() {
	var legacyF = flag.Bool("legacy", false, "Serve only the legacy task queue (train tools)")
	flag.Parse()

	format := log.FormatJSON
	if log.IsTerminal() {
		format = log.FormatTerminal
	}
	ctx := log.Context(context.Background(), log.WithFormat(format))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf(ctx, err, "load configuration")
	}
	if cfg.Debug {
		ctx = log.Context(ctx, log.WithDebug())
		log.Debugf(ctx, "debug logs enabled")
	}
	log.Print(ctx, log.KV{K: "temporal", V: cfg.TemporalAddress}, log.KV{K: "task-queue", V: cfg.TaskQueue})

	opts := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
	}
	if !cfg.DisableTracing {
		tracer, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{})
		if err != nil {
			log.Fatalf(ctx, err, "configure tracing interceptor")
		}
		opts.Interceptors = append(opts.Interceptors, tracer)
	}
	c, err := client.Dial(opts)
	if err != nil {
		log.Fatalf(ctx, err, "connect to temporal")
	}
	defer c.Close()

	registry := tools.NewDefaultRegistry()

	var w worker.Worker
	if *legacyF {
		w, err = newLegacyWorker(c, cfg, registry)
		if err != nil {
			log.Fatalf(ctx, err, "configure legacy worker")
		}
		log.Printf(ctx, "starting legacy worker on %s", cfg.LegacyTaskQueue)
	} else {
		planner, err := newPlanner(cfg)
		if err != nil {
			log.Fatalf(ctx, err, "configure planner")
		}
		w, err = newMainWorker(c, cfg, planner, registry)
		if err != nil {
			log.Fatalf(ctx, err, "configure worker")
		}
		log.Printf(ctx, "starting worker on %s", cfg.TaskQueue)
	}

	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf(ctx, err, "worker exited")
	}
	log.Printf(ctx, "worker stopped")
}

// newPlanner builds the LLM client for the configured provider and wraps it
// with the request rate limiter.
func newPlanner(cfg *config.Config) (llm.Client, error) {
	var (
		planner llm.Client
		err     error
	)
	switch strings.ToLower(cfg.LLMProvider) {
	case "openai":
		planner, err = openai.NewFromAPIKey(cfg.OpenAIAPIKey, cfg.LLMModel)
	case "anthropic":
		planner, err = anthropic.NewFromAPIKey(cfg.AnthropicAPIKey, cfg.LLMModel)
	case "bedrock":
		planner, err = bedrock.NewFromCredentials(cfg.AWSRegion, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, cfg.LLMModel)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
	if err != nil {
		return nil, err
	}
	return middleware.NewRateLimiter(cfg.LLMRequestsPerMinute).Middleware()(planner), nil
}

// newMainWorker registers the workflows, the LLM activities and every
// non-legacy tool on the main task queue.
func newMainWorker(c client.Client, cfg *config.Config, planner llm.Client, registry *tools.Registry) (worker.Worker, error) {
	w := worker.New(c, cfg.TaskQueue, worker.Options{})

	w.RegisterWorkflowWithOptions(wf.AgentGoalWorkflow, workflow.RegisterOptions{Name: wf.AgentGoalWorkflowName})
	w.RegisterWorkflowWithOptions(wf.GoalSelectorWorkflow, workflow.RegisterOptions{Name: wf.GoalSelectorWorkflowName})

	acts, err := activities.NewToolActivities(planner)
	if err != nil {
		return nil, err
	}
	w.RegisterActivityWithOptions(acts.ValidatePrompt, activity.RegisterOptions{Name: activities.ValidatePromptName})
	w.RegisterActivityWithOptions(acts.ToolPlanner, activity.RegisterOptions{Name: activities.ToolPlannerName})

	legacy := map[string]bool{
		agent.SearchTrainsToolDefinition.Name: true,
		agent.BookTrainsToolDefinition.Name:   true,
	}
	for _, name := range registry.Names() {
		if legacy[name] {
			continue
		}
		h, err := registry.Handler(name)
		if err != nil {
			return nil, err
		}
		w.RegisterActivityWithOptions(activities.ToolActivity(h), activity.RegisterOptions{Name: name})
	}
	return w, nil
}

// newLegacyWorker serves only the train tools on the legacy task queue.
func newLegacyWorker(c client.Client, cfg *config.Config, registry *tools.Registry) (worker.Worker, error) {
	w := worker.New(c, cfg.LegacyTaskQueue, worker.Options{})
	for _, name := range []string{
		agent.SearchTrainsToolDefinition.Name,
		agent.BookTrainsToolDefinition.Name,
	} {
		h, err := registry.Handler(name)
		if err != nil {
			return nil, err
		}
		w.RegisterActivityWithOptions(activities.ToolActivity(h), activity.RegisterOptions{Name: name})
	}
	return w, nil
}
