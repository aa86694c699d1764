package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/harmonia-ai/harmonia/agent"
)

// CreateJSONArray interprets a natural language description of structured
// data and generates a matching JSON array. The interpretation is rule-based:
// an entity type and item count are extracted from the prompt and drive one
// of several canned generators.
func CreateJSONArray(_ context.Context, args map[string]any) (agent.ToolResult, error) {
	prompt, _ := args["prompt"].(string)
	if prompt == "" {
		return nil, fmt.Errorf("missing required parameter: prompt")
	}
	schema, _ := args["schema"].(string)

	entity := extractEntityType(prompt)
	count := extractCount(prompt)
	array := generateArray(entity, count, prompt)

	result := agent.ToolResult{
		"status":      "success",
		"prompt":      prompt,
		"entity_type": entity,
		"count":       len(array),
		"json_array":  array,
	}
	if schema != "" {
		result["schema"] = schema
	}
	return result, nil
}

var entityKeywords = []struct {
	entity   string
	keywords []string
}{
	{"people", []string{"people", "person", "user", "name", "contact"}},
	{"tasks", []string{"task", "todo", "to-do", "chore"}},
	{"products", []string{"product", "item", "inventory", "catalog"}},
	{"songs", []string{"song", "track", "playlist", "music"}},
	{"events", []string{"event", "concert", "meeting", "appointment"}},
}

func extractEntityType(prompt string) string {
	lowered := strings.ToLower(prompt)
	for _, e := range entityKeywords {
		for _, k := range e.keywords {
			if strings.Contains(lowered, k) {
				return e.entity
			}
		}
	}
	return "generic"
}

// extractCount finds the first small integer or number word in the prompt,
// defaulting to 5 and clamping to [1, 20].
func extractCount(prompt string) int {
	words := strings.Fields(strings.ToLower(prompt))
	numberWords := map[string]int{
		"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
		"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	}
	for _, w := range words {
		w = strings.Trim(w, ".,!?")
		if n, err := strconv.Atoi(w); err == nil && n > 0 {
			return clampCount(n)
		}
		if n, ok := numberWords[w]; ok {
			return n
		}
	}
	return 5
}

func clampCount(n int) int {
	if n < 1 {
		return 1
	}
	if n > 20 {
		return 20
	}
	return n
}

func generateArray(entity string, count int, prompt string) []map[string]any {
	rng := seededRand("jsonarray", entity, prompt)
	out := make([]map[string]any, 0, count)
	for i := 0; i < count; i++ {
		switch entity {
		case "people":
			first := []string{"Ada", "Grace", "Alan", "Edsger", "Barbara", "Donald", "Radia", "Ken"}
			last := []string{"Lovelace", "Hopper", "Turing", "Dijkstra", "Liskov", "Knuth", "Perlman", "Thompson"}
			out = append(out, map[string]any{
				"id":   i + 1,
				"name": first[rng.Intn(len(first))] + " " + last[rng.Intn(len(last))],
				"age":  22 + rng.Intn(50),
			})
		case "tasks":
			verbs := []string{"Review", "Write", "Test", "Deploy", "Document", "Refactor"}
			objects := []string{"the report", "the proposal", "the release", "the onboarding guide", "the backlog"}
			out = append(out, map[string]any{
				"id":        i + 1,
				"title":     verbs[rng.Intn(len(verbs))] + " " + objects[rng.Intn(len(objects))],
				"completed": rng.Intn(2) == 0,
				"priority":  []string{"low", "medium", "high"}[rng.Intn(3)],
			})
		case "products":
			adjectives := []string{"Compact", "Deluxe", "Portable", "Wireless", "Classic"}
			nouns := []string{"Speaker", "Keyboard", "Lamp", "Notebook", "Headphones"}
			out = append(out, map[string]any{
				"id":       i + 1,
				"name":     adjectives[rng.Intn(len(adjectives))] + " " + nouns[rng.Intn(len(nouns))],
				"price":    float64(10+rng.Intn(490)) + 0.99,
				"in_stock": rng.Intn(4) != 0,
			})
		case "songs":
			titles := []string{"Midnight Sun", "Paper Planes", "Golden Hour", "Undertow", "Night Drive"}
			out = append(out, map[string]any{
				"id":               i + 1,
				"title":            titles[rng.Intn(len(titles))],
				"duration_seconds": 120 + rng.Intn(240),
				"genre":            []string{"rock", "pop", "jazz", "electronic", "indie"}[rng.Intn(5)],
			})
		case "events":
			names := []string{"Planning Sync", "Launch Party", "Retrospective", "Concert Night", "Workshop"}
			out = append(out, map[string]any{
				"id":   i + 1,
				"name": names[rng.Intn(len(names))],
				"date": fmt.Sprintf("2025-%02d-%02d", 1+rng.Intn(12), 1+rng.Intn(28)),
			})
		default:
			out = append(out, map[string]any{
				"id":    i + 1,
				"label": fmt.Sprintf("item %d", i+1),
				"value": rng.Intn(1000),
			})
		}
	}
	return out
}
