package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	AddTool(srv, &sdkmcp.Tool{
		Name:        "jsl_infer_schema",
		Description: "Infer a JSON Schema Language schema from example records. Returns {schema, schema_id, resource_uri, records_observed, output_format}. Keys missing from some records become optionalProperties; mixed scalar types collapse to the empty schema {}. Objects are treated as structs by default: pass values_hints for map-like objects with arbitrary keys, and discriminator_hints for tagged unions. Set output_format=jsonschema for a Draft 2020-12 document. The stored schema can be re-read from resource_uri.",
	}, ToolInferSchema(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "jsl_validate_records",
		Description: "Check records against a schema previously returned by jsl_infer_schema. Returns {checked, valid, failures: [{index, errors}]}. Requires schema_id. Use this to test whether new samples still fit an inferred schema before re-inferring.",
	}, ToolValidateRecords(d))
}
