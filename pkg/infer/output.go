package infer

import (
	"fmt"
	"strings"

	"github.com/usestring/jsl-infer/pkg/jsl"
	"github.com/usestring/jsl-infer/pkg/jsonschema"
)

// OutputFormat selects the document produced from an inferred schema.
type OutputFormat string

const (
	// OutputJSL emits the JSON Schema Language document.
	OutputJSL OutputFormat = "jsl"
	// OutputJSONSchema emits an equivalent JSON Schema 2020-12 document.
	OutputJSONSchema OutputFormat = "jsonschema"
)

// ParseOutputFormat accepts "jsl" (the default for "") or "jsonschema".
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "jsl", "jtd":
		return OutputJSL, nil
	case "jsonschema", "json-schema", "json_schema":
		return OutputJSONSchema, nil
	}
	return "", fmt.Errorf("unknown output format %q (want jsl or jsonschema)", s)
}

// Document renders s in format f, ready to be marshaled.
func Document(s *jsl.Schema, f OutputFormat) any {
	if f == OutputJSONSchema {
		return jsonschema.FromJSL(s)
	}
	return s
}
