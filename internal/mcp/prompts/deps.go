// Package prompts contains MCP prompt implementations for jsl-infer.
package prompts

// Config holds configuration needed by prompts.
type Config struct {
	MaxToolRecords int
}
