package prompts

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all prompts with the MCP server.
func Register(srv *sdkmcp.Server, cfg *Config) {
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "infer_schema_workflow",
		Description: "RECOMMENDED: Infer a schema from example records, then refine it with values and discriminator hints. Explains how to read the result and when each hint applies.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "source",
				Description: "What the records are (e.g., 'webhook payloads', 'audit log lines')",
				Required:    false,
			},
			{
				Name:        "output_format",
				Description: "Preferred schema format: jsl (default) or jsonschema",
				Required:    false,
			},
		},
	}, HandleInferSchemaWorkflow(cfg))
}
