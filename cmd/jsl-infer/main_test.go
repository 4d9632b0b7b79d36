package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRoot_InfersProperties(t *testing.T) {
	in := writeFile(t, "in.jsonl", strings.Join([]string{
		`{"name":"Alice","age":30}`,
		`{"name":"Bob"}`,
	}, "\n"))

	out, _, err := execute(t, in)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"properties":{"name":{"type":"string"}},"optionalProperties":{"age":{"type":"number"}}}`,
		out)
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestRoot_EmptyInput(t *testing.T) {
	out, _, err := execute(t, writeFile(t, "empty.jsonl", ""))
	require.NoError(t, err)
	assert.Equal(t, "{}\n", out)
}

func TestRoot_Hints(t *testing.T) {
	in := writeFile(t, "events.jsonl", strings.Join([]string{
		`{"labels":{"env":"prod"},"event":{"type":"click","x":1}}`,
		`{"labels":{"team":"core"},"event":{"type":"key","code":"Enter"}}`,
	}, "\n"))

	out, _, err := execute(t,
		"--values-hint", "/labels",
		"--discriminator-hint", "/event/type",
		in,
	)
	require.NoError(t, err)
	assert.JSONEq(t, `{"properties":{
		"labels":{"values":{"type":"string"}},
		"event":{"discriminator":{"tag":"type","mapping":{
			"click":{"properties":{"x":{"type":"number"}}},
			"key":{"properties":{"code":{"type":"string"}}}
		}}}
	}}`, out)
}

func TestRoot_YAMLAndQuery(t *testing.T) {
	in := writeFile(t, "samples.yaml", "items:\n  - at: 2024-01-01T00:00:00Z\n---\nitems:\n  - at: 2024-02-01T00:00:00Z\n  - at: 2024-03-01T00:00:00Z\n")

	out, _, err := execute(t, "--query", ".items[]", in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"properties":{"at":{"type":"timestamp"}}}`, out)
}

func TestRoot_JSONSchemaIndented(t *testing.T) {
	in := writeFile(t, "in.jsonl", `true`+"\n")

	out, _, err := execute(t, "--output-format", "jsonschema", "--indent", "2", in)
	require.NoError(t, err)
	assert.Contains(t, out, "\n  \"type\": \"boolean\"")
	assert.JSONEq(t, `{"$schema":"https://json-schema.org/draft/2020-12/schema","type":"boolean"}`, out)
}

func TestRoot_ErrorsWriteNothing(t *testing.T) {
	good := writeFile(t, "good.jsonl", `{"a":1}`+"\n")
	bad := writeFile(t, "bad.jsonl", "{\"a\":1}\n{\"a\":\n")
	blank := writeFile(t, "blank.jsonl", "{\"a\":1}\n\n{\"a\":2}\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"malformed record", []string{bad}, "line 2"},
		{"blank line", []string{blank}, "empty record"},
		{"bad hint", []string{"--values-hint", "nope", good}, "invalid hint path"},
		{"missing tag", []string{"--discriminator-hint", "", good}, "tag field"},
		{"bad output format", []string{"--output-format", "xml", good}, "output format"},
		{"bad query", []string{"--query", ".[", good}, "jq"},
		{"missing input", []string{filepath.Join(t.TempDir(), "missing.jsonl")}, "opening input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Empty(t, out)
		})
	}
}

func TestCheck(t *testing.T) {
	schema := writeFile(t, "schema.json", `{"properties":{"id":{"type":"number"}},"optionalProperties":{"at":{"type":"timestamp"}}}`)
	good := writeFile(t, "good.jsonl", `{"id":1}`+"\n"+`{"id":2,"at":"2024-01-01T00:00:00Z"}`+"\n")
	bad := writeFile(t, "bad.jsonl", `{"id":1}`+"\n"+`{"id":"two"}`+"\n")

	out, _, err := execute(t, "check", "--schema", schema, good)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, _, err = execute(t, "check", "--schema", schema, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 records failed")
	assert.Contains(t, out, "record 2: /id")
}

func TestCheck_RequiresSchema(t *testing.T) {
	_, _, err := execute(t, "check", writeFile(t, "in.jsonl", "1\n"))
	assert.Error(t, err)
}
