// Package tools contains MCP tool implementations for jsl-infer.
package tools

import (
	json "github.com/goccy/go-json"
)

// MIME type constant.
const MimeJSON = "application/json"

// ToAny round-trips v through JSON so typed documents (schemas with custom
// marshalers) become plain maps the SDK can validate against the output
// schema.
func ToAny(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
