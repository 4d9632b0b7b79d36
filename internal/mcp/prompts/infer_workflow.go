package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleInferSchemaWorkflow serves the inference and hint refinement guide.
func HandleInferSchemaWorkflow(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		source := "the example records"
		format := "jsl"
		if req != nil && req.Params != nil && req.Params.Arguments != nil {
			if v := req.Params.Arguments["source"]; v != "" {
				source = v
			}
			if v := req.Params.Arguments["output_format"]; v != "" {
				format = v
			}
		}

		var sb strings.Builder

		sb.WriteString("# Infer a Schema from Examples\n\n")
		sb.WriteString(fmt.Sprintf("Goal: produce the most specific schema that accepts every one of %s.\n\n", source))

		sb.WriteString("## Workflow Steps\n\n")
		sb.WriteString("1. **First pass without hints**\n")
		sb.WriteString(fmt.Sprintf("   - `jsl_infer_schema(records=[...], output_format=\"%s\")`\n", format))
		if cfg.MaxToolRecords > 0 {
			sb.WriteString(fmt.Sprintf("   - At most %d records per call; pick a representative sample\n", cfg.MaxToolRecords))
		}
		sb.WriteString("2. **Look for map-like objects** - `properties` with many unrelated, data-like keys (ids, dates, hostnames)\n")
		sb.WriteString("   - Re-run with `values_hints: [\"/path/to/object\"]` so every entry shares one value schema\n")
		sb.WriteString("3. **Look for tagged unions** - objects whose keys depend on a string field such as `type` or `kind`\n")
		sb.WriteString("   - Re-run with `discriminator_hints: [\"/path/to/object/type\"]`; the last segment names the tag field\n")
		sb.WriteString("4. **Check for `{}`** - the empty schema means conflicting observations at that path\n\n")

		sb.WriteString("## Hint Paths\n\n")
		sb.WriteString("| Path | Addresses |\n")
		sb.WriteString("|------|-----------|\n")
		sb.WriteString("| `\"\"` | the record itself |\n")
		sb.WriteString("| `/a/b` | key `b` inside key `a` |\n")
		sb.WriteString("| `/items/-` | every element of array `items` (or every value of a map) |\n")
		sb.WriteString("| `/a~1b` | key `a/b` (`~1` escapes `/`, `~0` escapes `~`) |\n\n")

		sb.WriteString("## Reading the Result\n\n")
		sb.WriteString("- `properties` keys appeared in every record; `optionalProperties` keys were missing from at least one\n")
		sb.WriteString("- `timestamp` means every string seen there was RFC 3339\n")
		sb.WriteString("- A hint that does not fit the data (e.g. a non-string tag) collapses that path to `{}`\n")
		sb.WriteString("- The schema stays readable at `resource_uri`; append `/jsonschema` for Draft 2020-12\n")

		return &sdkmcp.GetPromptResult{
			Description: "Guide for inferring and refining a schema from example records",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
