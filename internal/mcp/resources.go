package mcp

import (
	"context"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/jsl-infer/internal/mcp/tools"
	"github.com/usestring/jsl-infer/pkg/infer"
)

// Resource URI scheme: jsl-infer://
// Supported URIs:
//   jsl-infer://schema/{id}
//   jsl-infer://schema/{id}/jsonschema

const uriScheme = "jsl-infer://"

// registerResources registers resource templates and handlers.
func (s *Server) registerResources() {
	s.sdk.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: uriScheme + "schema/{id}",
		Name:        "Inferred Schema",
		Description: "A schema previously returned by jsl_infer_schema, as a JSON Schema Language document. The id is the tool's schema_id.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.6,
		},
	}, s.handleResourceSchema)

	s.sdk.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: uriScheme + "schema/{id}/jsonschema",
		Name:        "Inferred Schema (JSON Schema)",
		Description: "A schema previously returned by jsl_infer_schema, converted to JSON Schema Draft 2020-12.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.4,
		},
	}, s.handleResourceSchema)
}

func (s *Server) handleResourceSchema(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	params, err := parseResourceURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	stored, ok := s.deps.Schemas.Get(params["id"])
	if !ok {
		return nil, sdkmcp.ResourceNotFoundError(req.Params.URI)
	}

	format := infer.OutputJSL
	if params["format"] == string(infer.OutputJSONSchema) {
		format = infer.OutputJSONSchema
	}
	return toResourceResult(req.Params.URI, infer.Document(stored.Schema, format))
}

// Helper functions

// parseResourceURI extracts parameters from a jsl-infer:// URI.
func parseResourceURI(uri string) (map[string]string, error) {
	if !strings.HasPrefix(uri, uriScheme) {
		return nil, tools.ErrInvalidInput("invalid URI scheme: expected " + uriScheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, uriScheme), "/")
	params := make(map[string]string)

	switch parts[0] {
	case "schema":
		if len(parts) < 2 || parts[1] == "" {
			return nil, tools.ErrInvalidInput("schema URI requires an id")
		}
		params["id"] = parts[1]
		if len(parts) >= 3 {
			if parts[2] != string(infer.OutputJSONSchema) {
				return nil, tools.ErrInvalidInput(fmt.Sprintf("unknown schema format %q", parts[2]))
			}
			params["format"] = parts[2]
		}

	default:
		return nil, tools.ErrInvalidInput(fmt.Sprintf("unknown resource type: %s", parts[0]))
	}

	return params, nil
}

func toResourceResult(uri string, content any) (*sdkmcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing resource: %w", err)
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: tools.MimeJSON,
				Text:     string(data),
			},
		},
	}, nil
}
