package agent

import (
	"encoding/json"
	"fmt"
	"strings"
)

// GenerateGenAIPrompt builds the context instructions for the planner: the
// goal and its tools, the example conversation, the full history so far, the
// latest tool data and the strict JSON output contract the planner must obey.
func GenerateGenAIPrompt(goal AgentGoal, history ConversationHistory, toolData *ToolData) string {
	var b strings.Builder

	b.WriteString("You are an agent that helps a user achieve the following goal:\n")
	b.WriteString(goal.Description)
	b.WriteString("\n\nThe tools available to you are:\n")
	for _, t := range goal.Tools {
		fmt.Fprintf(&b, "- %s: %s\n", t.Name, t.Description)
		for _, a := range t.Arguments {
			fmt.Fprintf(&b, "    argument %q (%s): %s\n", a.Name, a.Type, a.Description)
		}
	}

	if goal.ExampleConversationHistory != "" {
		b.WriteString("\nHere is an example conversation:\n")
		b.WriteString(goal.ExampleConversationHistory)
		b.WriteString("\n")
	}

	b.WriteString("\nHere is the conversation history so far:\n")
	b.WriteString(FormatHistoryJSON(history))
	b.WriteString("\n")

	if toolData != nil {
		raw, err := json.Marshal(toolData)
		if err == nil {
			b.WriteString("\nThe last tool decision and its result were:\n")
			b.Write(raw)
			b.WriteString("\n")
		}
	}

	b.WriteString("\nRespond with a single JSON object, and nothing else, of the form:\n")
	b.WriteString(`{"next": "<confirm|question|done>", "tool": "<ToolName>", "args": {"<arg>": <value>}, "response": "<text for the user>"}` + "\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Use \"confirm\" when you want to run a tool; fill every declared argument, using null for values you still need from the user.\n")
	b.WriteString("- Use \"question\" when you need more information before proposing a tool.\n")
	b.WriteString("- Use \"done\" when the goal is complete; summarize the outcome in \"response\".\n")
	b.WriteString("- Never invent tools that are not listed above.\n")

	return b.String()
}

// GenerateMissingArgsPrompt synthesizes the internal follow-up prompt queued
// when a planner proposal left declared arguments unset. The starter prefix
// keeps it out of the visible history and skips validation.
func GenerateMissingArgsPrompt(tool string, toolData ToolData, missing []string) string {
	return fmt.Sprintf(
		"%sThe tool %s cannot run yet: the argument(s) %s are missing. "+
			"Ask the user for the missing values in plain language, or fill them in yourself "+
			"if the conversation history already contains them.",
		StarterPromptPrefix, tool, strings.Join(missing, ", "),
	)
}

// GenerateToolCompletionPrompt synthesizes the internal prompt queued after a
// tool ran so the planner narrates the outcome on the next turn.
func GenerateToolCompletionPrompt(tool string, result ToolResult) string {
	raw, err := json.Marshal(result)
	if err != nil {
		raw = []byte(fmt.Sprintf("%v", result))
	}
	return fmt.Sprintf(
		"%sThe %s tool completed with result: %s. "+
			"Describe the outcome to the user in plain language and decide the next step.",
		StarterPromptPrefix, tool, raw,
	)
}

// IsStarterPrompt reports whether the prompt was synthesized by the system
// (goal starter or internal follow-up) rather than typed by the user.
func IsStarterPrompt(prompt string) bool {
	return strings.HasPrefix(prompt, "###")
}

// FormatHistory flattens the history into a single string, one message
// payload after another. Used by the goal selector.
func FormatHistory(history ConversationHistory) string {
	parts := make([]string, 0, len(history.Messages))
	for _, m := range history.Messages {
		parts = append(parts, fmt.Sprintf("%v", m.Response))
	}
	return strings.Join(parts, " ")
}

// FormatHistoryJSON renders the history as JSON for inclusion in prompts.
func FormatHistoryJSON(history ConversationHistory) string {
	raw, err := json.Marshal(history)
	if err != nil {
		return FormatHistory(history)
	}
	return string(raw)
}

// SummaryWindow bounds how many trailing messages feed the continuation
// summary so the summarization prompt stays small.
const SummaryWindow = 50

// PromptSummaryWithHistory builds the (context, prompt) pair for the planner's
// summarize mode, using at most the last SummaryWindow messages.
func PromptSummaryWithHistory(history ConversationHistory) (string, string) {
	msgs := history.Messages
	if len(msgs) > SummaryWindow {
		msgs = msgs[len(msgs)-SummaryWindow:]
	}
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, fmt.Sprintf("%v", m.Response))
	}
	context := fmt.Sprintf(
		"Here is the recent conversation history between a user and an AI assistant: %s\n\n"+
			"Total conversation length: %d messages.",
		strings.Join(parts, " "), len(history.Messages),
	)
	prompt := "Please produce a concise summary of this conversation that captures the main topics and " +
		"context. Include any important details that should be preserved for continuing the conversation. " +
		`Respond with a JSON object of the form {"next": "done", "response": "<summary text>"}.`
	return context, prompt
}
