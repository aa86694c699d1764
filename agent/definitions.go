package agent

// Declarative definitions for every tool the goals expose. Execution is bound
// separately through the tool registry; these records only instruct the
// planner and drive missing-argument checks.

// MidiCreationToolDefinition converts note/duration tuples into MIDI bytes.
var MidiCreationToolDefinition = ToolDefinition{
	Name: "MidiCreationTool",
	Description: "Converts a text representation of music (a list of note-duration tuples) into MIDI messages. " +
		"Each tuple contains a note value (MIDI note number 21-108, or 0 for silence) and a duration value " +
		"(float between 0 and 2, where 1.0 represents a quarter note).",
	Arguments: []ToolArgument{
		{
			Name: "music_text",
			Type: "list",
			Description: "A list of tuples where each tuple is (note, duration). 'note' is an integer " +
				"(21-108 for a valid note, or 0 for silence) and 'duration' is a float (0 to 2, where 1.0 " +
				"represents a quarter note).",
		},
	},
}

// VanillaToolDefinition is the general-purpose fallback.
var VanillaToolDefinition = ToolDefinition{
	Name: "VanillaTool",
	Description: "A fallback for general-purpose requests that don't fit other tools. " +
		"Echoes the request and lets the agent answer from general knowledge.",
	Arguments: []ToolArgument{
		{Name: "query", Type: "string", Description: "The user's query or request"},
		{Name: "context", Type: "string", Description: "Optional additional context for the request"},
	},
}

// CreateJsonArrayToolDefinition generates a JSON array from a description.
var CreateJsonArrayToolDefinition = ToolDefinition{
	Name: "CreateJsonArray",
	Description: "Creates a JSON array based on a natural language prompt. The tool can interpret various " +
		"types of structured data requests and generate appropriate JSON arrays.",
	Arguments: []ToolArgument{
		{
			Name:        "prompt",
			Type:        "string",
			Description: "Natural language description of the JSON array to be created, such as 'Create a list of tasks'.",
		},
		{
			Name:        "schema",
			Type:        "string",
			Description: "Optional description of the expected schema for the JSON array (e.g., fields and data types).",
		},
	},
}

// SearchFlightsToolDefinition searches return flights in a date range.
var SearchFlightsToolDefinition = ToolDefinition{
	Name:        "SearchFlights",
	Description: "Search for return flights from an origin to a destination within a date range (dateDepart, dateReturn).",
	Arguments: []ToolArgument{
		{Name: "origin", Type: "string", Description: "Airport or city (infer airport code from city and store)"},
		{Name: "destination", Type: "string", Description: "Airport or city code for arrival (infer airport code from city and store)"},
		{Name: "dateDepart", Type: "ISO8601", Description: "Start of date range in human readable format, when you want to depart"},
		{Name: "dateReturn", Type: "ISO8601", Description: "End of date range in human readable format, when you want to return"},
	},
}

// SearchTrainsToolDefinition searches trains between two English cities.
// Executed on the legacy task queue.
var SearchTrainsToolDefinition = ToolDefinition{
	Name:        "SearchTrains",
	Description: "Search for trains between two English cities. Returns a list of train information for the user to choose from.",
	Arguments: []ToolArgument{
		{Name: "origin", Type: "string", Description: "The city or place to depart from"},
		{Name: "destination", Type: "string", Description: "The city or place to arrive at"},
		{Name: "outbound_time", Type: "ISO8601", Description: "The date and time to search for outbound trains. Assume a decent time of day if none is given."},
		{Name: "return_time", Type: "ISO8601", Description: "The date and time to search for return trains. Assume a decent time of day if none is given."},
	},
}

// BookTrainsToolDefinition books previously found trains. Executed on the
// legacy task queue.
var BookTrainsToolDefinition = ToolDefinition{
	Name:        "BookTrains",
	Description: "Books train tickets. Returns a booking reference.",
	Arguments: []ToolArgument{
		{Name: "train_ids", Type: "string", Description: "The IDs of the trains to book, comma separated"},
	},
}

// CreateInvoiceToolDefinition generates an invoice for the conversation total.
var CreateInvoiceToolDefinition = ToolDefinition{
	Name: "CreateInvoice",
	Description: "Generate an invoice for the items described for the total inferred by the conversation " +
		"history so far. Returns URL to invoice.",
	Arguments: []ToolArgument{
		{Name: "amount", Type: "float", Description: "The total cost to be invoiced. Infer this from the conversation history."},
		{Name: "tripDetails", Type: "string", Description: "A description of the item details to be invoiced, inferred from the conversation history."},
	},
}

// FindEventsToolDefinition finds music events by city and month.
var FindEventsToolDefinition = ToolDefinition{
	Name: "FindEvents",
	Description: "Find upcoming music events in a given city and month, optionally filtered by genre. " +
		"It will search 1 month either side of the month provided. Returns a list of events.",
	Arguments: []ToolArgument{
		{Name: "city", Type: "string", Description: "Which city to search for events"},
		{Name: "month", Type: "string", Description: "The month to search for events (searches 1 month either side)"},
		{Name: "genre", Type: "string", Description: "Optional genre filter (rock, pop, jazz, classical, electronic, hip hop, indie)"},
	},
}
