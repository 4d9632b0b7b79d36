package infer

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/jsl-infer/pkg/jsl"
)

func TestParseOutputFormat(t *testing.T) {
	tests := map[string]OutputFormat{
		"":            OutputJSL,
		"JSL":         OutputJSL,
		"jsonschema":  OutputJSONSchema,
		"json-schema": OutputJSONSchema,
	}
	for in, want := range tests {
		got, err := ParseOutputFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseOutputFormat("avro")
	assert.Error(t, err)
}

func TestDocument(t *testing.T) {
	s := jsl.OfType(jsl.TypeTimestamp)

	raw, err := json.Marshal(Document(s, OutputJSL))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"timestamp"}`, string(raw))

	raw, err = json.Marshal(Document(s, OutputJSONSchema))
	require.NoError(t, err)
	assert.JSONEq(t, `{"$schema":"https://json-schema.org/draft/2020-12/schema","type":"string","format":"date-time"}`, string(raw))
}
