package agent

// ToolArgument declares one argument of a tool: its name, a semantic type
// hint for the planner (string, float, list, ISO8601, ...) and a description
// used both to instruct the planner and to prompt for missing values.
type ToolArgument struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// ToolDefinition declares a tool the planner may propose. Purely declarative;
// execution is resolved by name through the tool registry.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Arguments   []ToolArgument `json:"arguments"`
}

// AgentGoal is an immutable goal definition: the tool set the planner may use,
// a description of the mission, the starter prompt the API seeds conversations
// with and an example conversation for few-shot guidance. Selected once per
// conversation segment and treated as configuration.
type AgentGoal struct {
	ID                         string           `json:"id"`
	Tools                      []ToolDefinition `json:"tools"`
	Description                string           `json:"description"`
	StarterPrompt              string           `json:"starter_prompt"`
	ExampleConversationHistory string           `json:"example_conversation_history"`
}

// Tool returns the definition of the named tool, if the goal declares it.
func (g AgentGoal) Tool(name string) (ToolDefinition, bool) {
	for _, t := range g.Tools {
		if t.Name == name {
			return t, true
		}
	}
	return ToolDefinition{}, false
}
