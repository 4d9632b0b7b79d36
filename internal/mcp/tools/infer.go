package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/jsl-infer/internal/query"
	"github.com/usestring/jsl-infer/pkg/hint"
	"github.com/usestring/jsl-infer/pkg/infer"
	"github.com/usestring/jsl-infer/pkg/records"
)

// InferSchemaInput is the input for jsl_infer_schema.
type InferSchemaInput struct {
	Records            []any    `json:"records" jsonschema:"Example values to infer a schema from. Each element is one record."`
	ValuesHints        []string `json:"values_hints,omitempty" jsonschema:"JSON Pointers of objects to treat as maps with arbitrary keys (values form). Use - to address every array element or map value, e.g. /items/-/labels."`
	DiscriminatorHints []string `json:"discriminator_hints,omitempty" jsonschema:"JSON Pointers of tag fields of tagged unions, e.g. /events/-/type. The last segment names the tag; the parent object becomes a discriminator."`
	Query              string   `json:"query,omitempty" jsonschema:"Optional jq expression applied to each record first; every value it emits is observed (default: .)"`
	OutputFormat       string   `json:"output_format,omitempty" jsonschema:"Schema document format: jsl (default) or jsonschema (Draft 2020-12)"`
}

// InferSchemaOutput is the output of jsl_infer_schema.
type InferSchemaOutput struct {
	Schema          any    `json:"schema"`
	SchemaID        string `json:"schema_id"`
	ResourceURI     string `json:"resource_uri"`
	RecordsObserved int    `json:"records_observed"`
	OutputFormat    string `json:"output_format"`
}

// SchemaResourceURI returns the resource URI of a stored schema.
func SchemaResourceURI(id string) string {
	return fmt.Sprintf("jsl-infer://schema/%s", id)
}

// ToolInferSchema infers a schema from the records passed in the call. The
// result is stored so it can be re-read through the schema resource.
func ToolInferSchema(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferSchemaInput) (*sdkmcp.CallToolResult, InferSchemaOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferSchemaInput) (*sdkmcp.CallToolResult, InferSchemaOutput, error) {
		if input.Records == nil {
			return nil, InferSchemaOutput{}, ErrInvalidInput("records is required")
		}
		if limit := d.Config.MaxToolRecords; limit > 0 && len(input.Records) > limit {
			return nil, InferSchemaOutput{}, ErrInvalidInput(fmt.Sprintf("too many records: %d (max %d)", len(input.Records), limit))
		}

		format, err := infer.ParseOutputFormat(input.OutputFormat)
		if err != nil {
			return nil, InferSchemaOutput{}, ErrInvalidInput(err.Error())
		}

		hints, err := hint.Parse(input.ValuesHints, input.DiscriminatorHints)
		if err != nil {
			return nil, InferSchemaOutput{}, WrapInferenceError(err)
		}

		selector, err := query.Compile(input.Query)
		if err != nil {
			return nil, InferSchemaOutput{}, ErrInvalidInput(err.Error())
		}

		inf := infer.New(infer.WithHints(hints), infer.WithMerger(d.Merger))
		runOpts := []infer.RunOption{infer.WithBuffer(d.Config.RecordBuffer)}
		if !selector.Identity() {
			runOpts = append(runOpts, infer.WithSelector(selector))
		}
		if err := infer.Run(ctx, records.FromSlice(input.Records), inf, runOpts...); err != nil {
			return nil, InferSchemaOutput{}, WrapInferenceError(err)
		}

		schema := inf.Schema()
		stored, err := d.Schemas.Put(schema, inf.Count())
		if err != nil {
			return nil, InferSchemaOutput{}, WrapInferenceError(err)
		}

		doc, err := ToAny(infer.Document(schema, format))
		if err != nil {
			return nil, InferSchemaOutput{}, WrapInferenceError(err)
		}

		return nil, InferSchemaOutput{
			Schema:          doc,
			SchemaID:        stored.ID,
			ResourceURI:     SchemaResourceURI(stored.ID),
			RecordsObserved: inf.Count(),
			OutputFormat:    string(format),
		}, nil
	}
}
