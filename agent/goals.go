package agent

// Goal identifiers recognized by the selector and the API configuration.
const (
	GoalSimpleMusic       = "goal_simple_music"
	GoalMusicCreation     = "music_creation_goal"
	GoalJSONArrayCreation = "json_array_creation_goal"
	GoalMatchTrainInvoice = "goal_match_train_invoice"
	GoalEventFlightInvoice = "goal_event_flight_invoice"
	GoalUnified           = "unified_agent_goal"
)

// SimpleMusicGoal exposes the MIDI tool plus the vanilla fallback. This is
// the default goal the API starts conversations with.
var SimpleMusicGoal = AgentGoal{
	ID:    GoalSimpleMusic,
	Tools: []ToolDefinition{MidiCreationToolDefinition, VanillaToolDefinition},
	Description: "Help the user create simple musical sequences using MIDI or handle general-purpose requests. " +
		"Available tools: " +
		"1. MidiCreationTool: Convert a text representation of music into MIDI notes that can be played by the frontend. " +
		"2. VanillaTool: A fallback for general-purpose requests that don't fit other tools.",
	StarterPrompt: "Welcome! I can help you create simple musical sequences using MIDI, or assist with " +
		"general questions. What would you like to do today?",
	ExampleConversationHistory: simpleMusicExample,
}

// MusicCreationGoal restricts the agent to the MIDI tool.
var MusicCreationGoal = AgentGoal{
	ID:    GoalMusicCreation,
	Tools: []ToolDefinition{MidiCreationToolDefinition},
	Description: "Help the user create musical sequences with the MidiCreationTool. Propose note/duration " +
		"sequences, confirm them with the user and generate the MIDI data.",
	StarterPrompt:              "Welcome! Tell me about the melody you would like to create and I'll turn it into MIDI.",
	ExampleConversationHistory: simpleMusicExample,
}

// JSONArrayCreationGoal restricts the agent to JSON generation.
var JSONArrayCreationGoal = AgentGoal{
	ID:    GoalJSONArrayCreation,
	Tools: []ToolDefinition{CreateJsonArrayToolDefinition},
	Description: "Help the user generate structured JSON arrays from natural language descriptions using " +
		"the CreateJsonArray tool.",
	StarterPrompt:              "Welcome! Describe the structured data you need and I'll generate a JSON array for you.",
	ExampleConversationHistory: jsonArrayExample,
}

// MatchTrainInvoiceGoal walks the user through UK train booking and invoicing.
var MatchTrainInvoiceGoal = AgentGoal{
	ID:    GoalMatchTrainInvoice,
	Tools: []ToolDefinition{SearchTrainsToolDefinition, BookTrainsToolDefinition, CreateInvoiceToolDefinition},
	Description: "Help the user find and book trains between English cities, then invoice them for the " +
		"booking. Use SearchTrains first, BookTrains once the user has chosen, and CreateInvoice to finish.",
	StarterPrompt:              "Welcome! I can help you find and book UK train travel. Where would you like to go?",
	ExampleConversationHistory: trainExample,
}

// EventFlightInvoiceGoal finds Oceania music events, flights to them, and
// invoices the trip.
var EventFlightInvoiceGoal = AgentGoal{
	ID:    GoalEventFlightInvoice,
	Tools: []ToolDefinition{FindEventsToolDefinition, SearchFlightsToolDefinition, CreateInvoiceToolDefinition},
	Description: "Help the user find music events to travel to, search flights to get there and invoice the " +
		"trip. Use FindEvents first, then SearchFlights, then CreateInvoice.",
	StarterPrompt:              "Welcome! I can help you plan a trip around a music event. Which city interests you?",
	ExampleConversationHistory: eventFlightExample,
}

// UnifiedGoal exposes every tool; the default when no override phrase matched.
var UnifiedGoal = AgentGoal{
	ID: GoalUnified,
	Tools: []ToolDefinition{
		MidiCreationToolDefinition,
		CreateJsonArrayToolDefinition,
		SearchTrainsToolDefinition,
		BookTrainsToolDefinition,
		SearchFlightsToolDefinition,
		FindEventsToolDefinition,
		CreateInvoiceToolDefinition,
		VanillaToolDefinition,
	},
	Description: "A general assistant that can create MIDI music, generate JSON arrays, search and book UK " +
		"trains, find music events and flights, and create invoices. Pick the tool that fits the user's " +
		"request, or VanillaTool when nothing fits.",
	StarterPrompt:              "Welcome! I can help with music creation, JSON generation, travel booking and invoicing. What would you like to do?",
	ExampleConversationHistory: simpleMusicExample,
}

// Goals indexes every goal definition by identifier.
var Goals = map[string]AgentGoal{
	GoalSimpleMusic:        SimpleMusicGoal,
	GoalMusicCreation:      MusicCreationGoal,
	GoalJSONArrayCreation:  JSONArrayCreationGoal,
	GoalMatchTrainInvoice:  MatchTrainInvoiceGoal,
	GoalEventFlightInvoice: EventFlightInvoiceGoal,
	GoalUnified:            UnifiedGoal,
}

// GoalByID returns the named goal, falling back to SimpleMusicGoal.
func GoalByID(id string) AgentGoal {
	if g, ok := Goals[id]; ok {
		return g
	}
	return SimpleMusicGoal
}

const simpleMusicExample = "user: I want to create a simple melody\n " +
	"agent: I'd be happy to help you create a simple melody! I can convert a sequence of notes to MIDI format. " +
	"Would you like to specify the notes yourself, or should I suggest a simple pattern?\n " +
	"user: Can you suggest a pattern for a happy tune?\n " +
	"agent: Of course! For a happy tune, let's create a simple C major melody with these notes: C4 (60), E4 (64), " +
	"G4 (67), C5 (72), G4 (67), E4 (64), C4 (60). Would you like me to generate this MIDI sequence for you?\n " +
	"user: Yes, please!\n " +
	"user_confirmed_tool_run: <user clicks confirm on MidiCreationTool>\n " +
	"tool_result: {\"status\": \"success\", \"note_count\": 7, \"midi_base64\": \"TVRoZAAA...\"}\n " +
	"agent: I've created a happy C major melody for you! The sequence has 7 notes at 120 BPM. " +
	"Click the play button to hear it. Would you like to create another melody?"

const jsonArrayExample = "user: I need a list of five fictional people with names and ages\n " +
	"agent: I can generate that as a JSON array with fields 'name' and 'age'. Shall I go ahead?\n " +
	"user: yes\n " +
	"user_confirmed_tool_run: <user clicks confirm on CreateJsonArray>\n " +
	"tool_result: {\"status\": \"success\", \"json_array\": [{\"name\": \"Ada\", \"age\": 36}]}\n " +
	"agent: Here's your list of five fictional people. Want me to adjust the fields?"

const trainExample = "user: I need to get from London to Manchester next Friday\n " +
	"agent: I can search trains for you. Do you have a preferred departure time?\n " +
	"user: around 9am, returning Sunday evening\n " +
	"agent: I'll search trains from London to Manchester departing Friday 09:00 and returning Sunday evening. Confirm?\n " +
	"user_confirmed_tool_run: <user clicks confirm on SearchTrains>\n " +
	"tool_result: {\"status\": \"success\", \"journeys\": [{\"id\": \"T100\", \"departure\": \"09:03\"}]}\n " +
	"agent: I found several options. The 09:03 arrives at 11:10 for £84. Shall I book it?"

const eventFlightExample = "user: Any good concerts in Melbourne around March?\n " +
	"agent: Let me look for music events in Melbourne in March, searching a month either side. OK?\n " +
	"user_confirmed_tool_run: <user clicks confirm on FindEvents>\n " +
	"tool_result: {\"status\": \"success\", \"events\": [{\"name\": \"Tame Impala Concert\", \"date\": \"2025-03-14\"}]}\n " +
	"agent: Tame Impala plays Melbourne on March 14. Want me to look for flights from your city?"
