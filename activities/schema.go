package activities

import (
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// toolDataSchema is the contract the planner's JSON output must satisfy
// before the workflow acts on it.
const toolDataSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["next"],
	"properties": {
		"next": {"enum": ["confirm", "question", "done"]},
		"tool": {"type": "string"},
		"args": {"type": "object"},
		"response": {"type": "string"}
	},
	"if": {"properties": {"next": {"const": "confirm"}}},
	"then": {"required": ["next", "tool"]}
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func validateToolData(raw string) error {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(toolDataSchema))
		if err != nil {
			schemaErr = fmt.Errorf("parse tool data schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("tooldata.json", doc); err != nil {
			schemaErr = fmt.Errorf("add tool data schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("tooldata.json")
	})
	if schemaErr != nil {
		return schemaErr
	}
	value, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
	if err != nil {
		return fmt.Errorf("not valid JSON: %w", err)
	}
	return compiledSchema.Validate(value)
}
