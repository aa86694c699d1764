package agent

import "strings"

// goalOverrides maps explicit "only use X" phrases to specialized goals.
// First match wins; phrases are matched case-insensitively as substrings.
var goalOverrides = []struct {
	phrases []string
	goalID  string
}{
	{[]string{"only use music tool", "only music"}, GoalMusicCreation},
	{[]string{"only use json tool", "only json"}, GoalJSONArrayCreation},
	{[]string{"only uk travel", "only train booking"}, GoalMatchTrainInvoice},
	{[]string{"only oceania events", "only event booking"}, GoalEventFlightInvoice},
}

// SelectGoal chooses which goal definition governs the conversation based on
// the flattened conversation text. A specialized goal is selected only when
// the user explicitly asked for it; otherwise the unified goal that exposes
// all tools wins. Idempotent and side-effect free so it can run inside
// workflow code; designed as a seam for a future LLM-based classifier.
func SelectGoal(conversation string) string {
	lowered := strings.ToLower(conversation)
	for _, o := range goalOverrides {
		for _, p := range o.phrases {
			if strings.Contains(lowered, p) {
				return o.goalID
			}
		}
	}
	return GoalUnified
}
