package mcpsrv

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/jsl-infer/internal/mcp/tools"
)

// AddTool registers a typed tool and panics if its output type would not
// match the output schema derived from it. Outputs that carry a schema
// document must declare the field as any and fill it with [ToAny]; a nil
// slice field needs omitzero.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	tools.AddTool(srv, t, h)
}

// CheckOutput reports why Out cannot serve as a tool output, or nil.
func CheckOutput[Out any]() error {
	return tools.CheckOutput[Out]()
}

// ToAny converts a typed document, such as an inferred schema, to plain JSON
// values for an any output field.
func ToAny(v any) (any, error) {
	return tools.ToAny(v)
}
