// Package jsonschema converts inferred JSON Schema Language documents into
// JSON Schema Draft 2020-12.
package jsonschema

import (
	"sort"

	"github.com/invopop/jsonschema"

	"github.com/usestring/jsl-infer/pkg/jsl"
)

// Draft is the $schema URI stamped on converted root documents.
const Draft = "https://json-schema.org/draft/2020-12/schema"

// ConvertOptions controls the conversion.
type ConvertOptions struct {
	// AdditionalProperties allows keys that were never observed on
	// properties-form records. JSON Schema Language rejects them, so the
	// default is false.
	AdditionalProperties bool
	// OmitVersion leaves out the $schema keyword on the root.
	OmitVersion bool
}

// DefaultConvertOptions returns the default conversion options.
func DefaultConvertOptions() *ConvertOptions {
	return &ConvertOptions{}
}

// FromJSL converts s into an equivalent JSON Schema.
func FromJSL(s *jsl.Schema) *jsonschema.Schema {
	return FromJSLWithOptions(s, nil)
}

// FromJSLWithOptions converts s with custom options.
func FromJSLWithOptions(s *jsl.Schema, opts *ConvertOptions) *jsonschema.Schema {
	if opts == nil {
		opts = DefaultConvertOptions()
	}
	out := convert(s, opts)
	if !opts.OmitVersion {
		if out == jsonschema.TrueSchema {
			out = &jsonschema.Schema{}
		}
		out.Version = Draft
	}
	return out
}

func convert(s *jsl.Schema, opts *ConvertOptions) *jsonschema.Schema {
	if s == nil {
		return jsonschema.TrueSchema
	}

	switch s.Form {
	case jsl.FormType:
		return convertType(s.Type)

	case jsl.FormElements:
		return &jsonschema.Schema{Type: "array", Items: convert(s.Elements, opts)}

	case jsl.FormValues:
		return &jsonschema.Schema{Type: "object", AdditionalProperties: convert(s.Values, opts)}

	case jsl.FormProperties:
		return convertProperties(s.Properties, s.OptionalProperties, opts)

	case jsl.FormDiscriminator:
		return convertDiscriminator(s.Discriminator, opts)

	default:
		return jsonschema.TrueSchema
	}
}

func convertType(t jsl.Type) *jsonschema.Schema {
	switch t {
	case jsl.TypeBoolean:
		return &jsonschema.Schema{Type: "boolean"}
	case jsl.TypeNumber:
		return &jsonschema.Schema{Type: "number"}
	case jsl.TypeTimestamp:
		return &jsonschema.Schema{Type: "string", Format: "date-time"}
	default:
		return &jsonschema.Schema{Type: "string"}
	}
}

func convertProperties(required, optional map[string]*jsl.Schema, opts *ConvertOptions) *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: jsonschema.NewProperties(),
	}

	keys := make([]string, 0, len(required)+len(optional))
	for k := range required {
		keys = append(keys, k)
	}
	for k := range optional {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if sub, ok := required[k]; ok {
			schema.Properties.Set(k, convert(sub, opts))
			schema.Required = append(schema.Required, k)
		} else {
			schema.Properties.Set(k, convert(optional[k], opts))
		}
	}

	applyAdditionalProperties(schema, opts.AdditionalProperties)
	return schema
}

// convertDiscriminator renders a tagged union as oneOf, one branch per tag
// value. Each branch pins the tag with const and requires it.
func convertDiscriminator(d *jsl.Discriminator, opts *ConvertOptions) *jsonschema.Schema {
	if d == nil {
		return jsonschema.TrueSchema
	}

	tagValues := make([]string, 0, len(d.Mapping))
	for v := range d.Mapping {
		tagValues = append(tagValues, v)
	}
	sort.Strings(tagValues)

	oneOf := make([]*jsonschema.Schema, 0, len(tagValues))
	for _, v := range tagValues {
		variant := d.Mapping[v]

		var branch *jsonschema.Schema
		if variant != nil && variant.Form == jsl.FormProperties {
			branch = convertProperties(variant.Properties, variant.OptionalProperties, opts)
		} else {
			branch = &jsonschema.Schema{Type: "object", Properties: jsonschema.NewProperties()}
			if sub := convert(variant, opts); sub != jsonschema.TrueSchema {
				branch.AllOf = []*jsonschema.Schema{sub}
			}
		}

		branch.Properties.Set(d.Tag, &jsonschema.Schema{Type: "string", Const: v})
		branch.Required = append([]string{d.Tag}, branch.Required...)
		oneOf = append(oneOf, branch)
	}

	switch len(oneOf) {
	case 0:
		tagOnly := &jsonschema.Schema{Type: "object", Properties: jsonschema.NewProperties(), Required: []string{d.Tag}}
		tagOnly.Properties.Set(d.Tag, &jsonschema.Schema{Type: "string"})
		return tagOnly
	case 1:
		return oneOf[0]
	}
	return &jsonschema.Schema{Type: "object", OneOf: oneOf}
}

// applyAdditionalProperties sets additionalProperties on an object schema.
func applyAdditionalProperties(schema *jsonschema.Schema, allowed bool) {
	if allowed {
		schema.AdditionalProperties = jsonschema.TrueSchema
	} else {
		schema.AdditionalProperties = jsonschema.FalseSchema
	}
}
