package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/jsl-infer/internal/schema"
)

// ValidateRecordsInput is the input for jsl_validate_records.
type ValidateRecordsInput struct {
	SchemaID  string `json:"schema_id" jsonschema:"schema_id returned by jsl_infer_schema"`
	Records   []any  `json:"records" jsonschema:"Records to check against the stored schema"`
	MaxErrors int    `json:"max_errors,omitempty" jsonschema:"Max failing records to report (default: 20)"`
}

// RecordFailure describes one record that did not validate.
type RecordFailure struct {
	Index  int      `json:"index"`
	Errors []string `json:"errors"`
}

// ValidateRecordsOutput is the output of jsl_validate_records.
type ValidateRecordsOutput struct {
	Checked  int             `json:"checked"`
	Valid    int             `json:"valid"`
	Failures []RecordFailure `json:"failures,omitzero"`
}

const defaultMaxValidationErrors = 20

// ToolValidateRecords checks records against a previously inferred schema.
// Records that were part of the inference always pass.
func ToolValidateRecords(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ValidateRecordsInput) (*sdkmcp.CallToolResult, ValidateRecordsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ValidateRecordsInput) (*sdkmcp.CallToolResult, ValidateRecordsOutput, error) {
		if input.SchemaID == "" {
			return nil, ValidateRecordsOutput{}, ErrInvalidInput("schema_id is required")
		}
		if limit := d.Config.MaxToolRecords; limit > 0 && len(input.Records) > limit {
			return nil, ValidateRecordsOutput{}, ErrInvalidInput(fmt.Sprintf("too many records: %d (max %d)", len(input.Records), limit))
		}

		stored, ok := d.Schemas.Get(input.SchemaID)
		if !ok {
			return nil, ValidateRecordsOutput{}, ErrNotFound("schema", input.SchemaID)
		}

		validator, err := schema.NewValidator(stored.Schema)
		if err != nil {
			return nil, ValidateRecordsOutput{}, WrapInferenceError(err)
		}

		maxErrors := input.MaxErrors
		if maxErrors <= 0 {
			maxErrors = defaultMaxValidationErrors
		}

		out := ValidateRecordsOutput{Checked: len(input.Records)}
		for i, rec := range input.Records {
			if err := ctx.Err(); err != nil {
				return nil, ValidateRecordsOutput{}, err
			}
			result := validator.ValidateValue(rec)
			if result.Valid {
				out.Valid++
				continue
			}
			if len(out.Failures) < maxErrors {
				out.Failures = append(out.Failures, RecordFailure{Index: i, Errors: result.Errors})
			}
		}

		return nil, out, nil
	}
}
