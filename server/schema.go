package server

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"tabdb/wire"
)

// Request bodies are validated against JSON Schemas before decoding, so
// malformed input is rejected with a precise message instead of a partial
// unmarshal.

const valueSchema = `{
	"type": "object",
	"required": ["type"],
	"properties": {
		"type": {"enum": ["int", "text", "bool", "null"]},
		"value": {}
	},
	"additionalProperties": false
}`

var requestSchemas = map[wire.OpCode]string{
	wire.OpCreateTable: `{
		"type": "object",
		"required": ["table", "columns"],
		"properties": {
			"token": {"type": "string"},
			"table": {"type": "string", "minLength": 1},
			"columns": {
				"type": "array",
				"minItems": 1,
				"items": {
					"type": "object",
					"required": ["name", "type"],
					"properties": {
						"name": {"type": "string", "minLength": 1},
						"type": {"enum": ["int", "text", "bool", "null"]},
						"indexed": {"type": "boolean"}
					},
					"additionalProperties": false
				}
			}
		},
		"additionalProperties": false
	}`,
	wire.OpInsert: `{
		"type": "object",
		"required": ["table", "row"],
		"properties": {
			"token": {"type": "string"},
			"table": {"type": "string", "minLength": 1},
			"row": {"type": "array", "items": ` + valueSchema + `}
		},
		"additionalProperties": false
	}`,
	wire.OpQuery: `{
		"type": "object",
		"required": ["sql"],
		"properties": {
			"token": {"type": "string"},
			"sql": {"type": "string", "minLength": 1}
		},
		"additionalProperties": false
	}`,
}

var compiledSchemas = func() map[wire.OpCode]*gojsonschema.Schema {
	out := make(map[wire.OpCode]*gojsonschema.Schema, len(requestSchemas))
	for op, src := range requestSchemas {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
		if err != nil {
			panic(fmt.Sprintf("bad request schema for op %d: %v", op, err))
		}
		out[op] = schema
	}
	return out
}()

// validateRequest checks raw body bytes against the schema for op.
func validateRequest(op wire.OpCode, raw []byte) error {
	schema, ok := compiledSchemas[op]
	if !ok {
		return nil
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if !result.Valid() {
		errs := result.Errors()
		if len(errs) > 0 {
			return fmt.Errorf("invalid request body: %s", errs[0])
		}
		return fmt.Errorf("invalid request body")
	}
	return nil
}
