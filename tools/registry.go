// Package tools implements the closed set of tool executors the agent can
// dispatch, behind a registry keyed by tool name. The registry is an injected
// data structure with explicit registration calls; there is no runtime code
// loading.
package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/harmonia-ai/harmonia/agent"
)

// Handler executes one tool invocation. Arguments have already been checked
// for presence by the workflow; handlers still validate values and report
// problems through the returned error, which the dispatcher normalizes into
// an error-shaped result.
type Handler func(ctx context.Context, args map[string]any) (agent.ToolResult, error)

// Registry maps tool names to handlers. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds a handler to a tool name, replacing any previous binding.
func (r *Registry) Register(name string, h Handler) error {
	if name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if h == nil {
		return fmt.Errorf("tool %q: handler cannot be nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
	return nil
}

// Handler resolves the named tool. Unknown names fall back to the vanilla
// tool when one is registered, mirroring the conversational contract that the
// agent always produces some answer.
func (r *Registry) Handler(name string) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if h, ok := r.handlers[name]; ok {
		return h, nil
	}
	if h, ok := r.handlers[agent.VanillaToolDefinition.Name]; ok {
		return h, nil
	}
	return nil, fmt.Errorf("unknown tool %q and no fallback registered", name)
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for n := range r.handlers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// NewDefaultRegistry returns a registry with every built-in tool bound.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for name, h := range map[string]Handler{
		agent.MidiCreationToolDefinition.Name:    CreateMidi,
		agent.VanillaToolDefinition.Name:         Vanilla,
		agent.CreateJsonArrayToolDefinition.Name: CreateJSONArray,
		agent.SearchFlightsToolDefinition.Name:   SearchFlights,
		agent.SearchTrainsToolDefinition.Name:    SearchTrains,
		agent.BookTrainsToolDefinition.Name:      BookTrains,
		agent.CreateInvoiceToolDefinition.Name:   CreateInvoice,
		agent.FindEventsToolDefinition.Name:      FindEvents,
	} {
		// Register only fails on empty names or nil handlers, neither of which
		// can happen for the built-in set.
		_ = r.Register(name, h)
	}
	return r
}
