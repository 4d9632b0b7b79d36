package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/jsl-infer/internal/config"
)

func testDeps(t *testing.T) *Deps {
	t.Helper()
	cfg := &config.Config{
		TimestampCacheSize: 16,
		RecordBuffer:       4,
		MaxToolRecords:     3,
		SchemaStoreSize:    8,
	}
	d, err := NewDeps(cfg)
	require.NoError(t, err)
	return d
}

func callInfer(t *testing.T, d *Deps, input InferSchemaInput) (InferSchemaOutput, error) {
	t.Helper()
	_, out, err := ToolInferSchema(d)(context.Background(), nil, input)
	return out, err
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var coded *CodedError
	require.ErrorAs(t, err, &coded)
	assert.Equal(t, code, coded.Code)
}

func TestToolInferSchema_Properties(t *testing.T) {
	d := testDeps(t)
	out, err := callInfer(t, d, InferSchemaInput{
		Records: []any{
			map[string]any{"name": "Alice", "age": 30.0},
			map[string]any{"name": "Bob"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, out.RecordsObserved)
	assert.Equal(t, "jsl", out.OutputFormat)
	assert.Equal(t, map[string]any{
		"properties":         map[string]any{"name": map[string]any{"type": "string"}},
		"optionalProperties": map[string]any{"age": map[string]any{"type": "number"}},
	}, out.Schema)

	assert.Equal(t, SchemaResourceURI(out.SchemaID), out.ResourceURI)
	stored, ok := d.Schemas.Get(out.SchemaID)
	require.True(t, ok)
	assert.Equal(t, 2, stored.RecordsObserved)
}

func TestToolInferSchema_Hints(t *testing.T) {
	out, err := callInfer(t, testDeps(t), InferSchemaInput{
		Records: []any{
			map[string]any{"type": "a", "x": 1.0},
			map[string]any{"type": "b", "y": "s"},
		},
		DiscriminatorHints: []string{"/type"},
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"discriminator": map[string]any{
			"tag": "type",
			"mapping": map[string]any{
				"a": map[string]any{"properties": map[string]any{"x": map[string]any{"type": "number"}}},
				"b": map[string]any{"properties": map[string]any{"y": map[string]any{"type": "string"}}},
			},
		},
	}, out.Schema)
}

func TestToolInferSchema_JSONSchema(t *testing.T) {
	out, err := callInfer(t, testDeps(t), InferSchemaInput{
		Records:      []any{"2024-01-01T00:00:00Z"},
		OutputFormat: "jsonschema",
	})
	require.NoError(t, err)

	assert.Equal(t, "jsonschema", out.OutputFormat)
	schema, ok := out.Schema.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "string", schema["type"])
	assert.Equal(t, "date-time", schema["format"])
}

func TestToolInferSchema_Query(t *testing.T) {
	out, err := callInfer(t, testDeps(t), InferSchemaInput{
		Records: []any{
			map[string]any{"data": []any{1.0, 2.0}},
			map[string]any{"data": []any{3.0}},
		},
		Query: ".data[]",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, out.RecordsObserved)
	assert.Equal(t, map[string]any{"type": "number"}, out.Schema)
}

func TestToolInferSchema_EmptyRecords(t *testing.T) {
	out, err := callInfer(t, testDeps(t), InferSchemaInput{Records: []any{}})
	require.NoError(t, err)
	assert.Equal(t, 0, out.RecordsObserved)
	assert.Equal(t, map[string]any{}, out.Schema)
}

func TestToolInferSchema_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input InferSchemaInput
		code  string
	}{
		{"missing records", InferSchemaInput{}, ErrCodeInvalidInput},
		{"too many records", InferSchemaInput{Records: []any{1.0, 2.0, 3.0, 4.0}}, ErrCodeInvalidInput},
		{"bad format", InferSchemaInput{Records: []any{}, OutputFormat: "xml"}, ErrCodeInvalidInput},
		{"bad pointer", InferSchemaInput{Records: []any{}, ValuesHints: []string{"no-slash"}}, ErrCodeInvalidInput},
		{"root discriminator without tag", InferSchemaInput{Records: []any{}, DiscriminatorHints: []string{""}}, ErrCodeInvalidInput},
		{"bad query", InferSchemaInput{Records: []any{}, Query: ".["}, ErrCodeInvalidInput},
		{"query runtime error", InferSchemaInput{Records: []any{map[string]any{}}, Query: ".a[]"}, ErrCodeInferenceFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := callInfer(t, testDeps(t), tt.input)
			requireCode(t, err, tt.code)
		})
	}
}
