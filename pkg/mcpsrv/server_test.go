package mcpsrv

import (
	"context"
	"testing"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/jsl-infer/pkg/jsl"
)

type countInput struct {
	SchemaID string `json:"schema_id"`
}

type countOutput struct {
	Found bool `json:"found"`
}

func TestNewServer_CustomDepsTool(t *testing.T) {
	var bound *Deps
	srv, err := NewServer(
		WithLogLevel("error"),
		WithMaxToolRecords(5),
		WithDepsTool(
			&mcp.Tool{Name: "schema_exists", Description: "Reports whether a schema is stored"},
			func(d *Deps) func(context.Context, *mcp.CallToolRequest, countInput) (*mcp.CallToolResult, countOutput, error) {
				bound = d
				return func(ctx context.Context, req *mcp.CallToolRequest, input countInput) (*mcp.CallToolResult, countOutput, error) {
					_, ok := d.Schemas.Get(input.SchemaID)
					return nil, countOutput{Found: ok}, nil
				}
			},
		),
	)
	require.NoError(t, err)
	defer srv.Close()

	require.NotNil(t, bound)
	assert.Same(t, srv.Deps(), bound)
	assert.Equal(t, 5, srv.Deps().Config.MaxToolRecords)
	assert.NotNil(t, srv.MCPServer())
}

func TestNewServer_WithoutBuiltins(t *testing.T) {
	srv, err := NewServer(WithLogLevel("error"), WithoutBuiltinTools(), WithoutBuiltinPrompts())
	require.NoError(t, err)
	defer srv.Close()

	ctx := context.Background()
	serverT, clientT := mcp.NewInMemoryTransports()
	ss, err := srv.MCPServer().Connect(ctx, serverT, nil)
	require.NoError(t, err)
	defer ss.Close()

	cs, err := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "0"}, nil).Connect(ctx, clientT, nil)
	require.NoError(t, err)
	defer cs.Close()

	// Unknown tools are rejected at the protocol level.
	_, err = cs.CallTool(ctx, &mcp.CallToolParams{Name: "jsl_infer_schema", Arguments: map[string]any{"records": []any{}}})
	assert.Error(t, err)
}

type typedSchemaOutput struct {
	Schema *jsl.Schema `json:"schema"`
}

type untypedSchemaOutput struct {
	Schema any `json:"schema"`
}

func TestNewServer_RejectsSchemaTypedOutput(t *testing.T) {
	handler := func(ctx context.Context, req *mcp.CallToolRequest, input countInput) (*mcp.CallToolResult, typedSchemaOutput, error) {
		return nil, typedSchemaOutput{}, nil
	}

	require.Error(t, CheckOutput[typedSchemaOutput]())
	assert.Panics(t, func() {
		_, _ = NewServer(WithLogLevel("error"), WithTool(&mcp.Tool{Name: "typed_schema"}, handler))
	})
}

func TestToAny_FillsUntypedSchemaOutput(t *testing.T) {
	require.NoError(t, CheckOutput[untypedSchemaOutput]())

	doc, err := ToAny(&jsl.Schema{Form: jsl.FormElements, Elements: &jsl.Schema{Form: jsl.FormType, Type: jsl.TypeNumber}})
	require.NoError(t, err)
	out := untypedSchemaOutput{Schema: doc}
	assert.Equal(t, map[string]any{"elements": map[string]any{"type": "number"}}, out.Schema)
}
