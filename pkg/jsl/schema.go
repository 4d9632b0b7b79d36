// Package jsl models JSON Schema Language documents: the target format of
// schema inference.
//
// A schema has exactly one form. The empty form accepts any value; the other
// forms constrain values to a scalar type, a list, a record with known
// properties, a homogeneous map, or a tagged union.
package jsl

import (
	"bytes"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
)

// Form identifies which keyword set a Schema uses.
type Form int

const (
	FormEmpty Form = iota
	FormType
	FormElements
	FormProperties
	FormValues
	FormDiscriminator
)

func (f Form) String() string {
	switch f {
	case FormEmpty:
		return "empty"
	case FormType:
		return "type"
	case FormElements:
		return "elements"
	case FormProperties:
		return "properties"
	case FormValues:
		return "values"
	case FormDiscriminator:
		return "discriminator"
	default:
		return fmt.Sprintf("Form(%d)", int(f))
	}
}

// Type is a scalar type name used by the type form.
type Type string

const (
	TypeBoolean   Type = "boolean"
	TypeNumber    Type = "number"
	TypeString    Type = "string"
	TypeTimestamp Type = "timestamp"
)

func (t Type) valid() bool {
	switch t {
	case TypeBoolean, TypeNumber, TypeString, TypeTimestamp:
		return true
	}
	return false
}

// Schema is a JSON Schema Language document. Only the fields belonging to
// Form are meaningful.
type Schema struct {
	Form Form

	Type     Type    // FormType
	Elements *Schema // FormElements
	Values   *Schema // FormValues

	// FormProperties. HasRequired records whether the "properties" keyword is
	// present; without it a record with no required keys is still a record.
	Properties         map[string]*Schema
	OptionalProperties map[string]*Schema
	HasRequired        bool

	Discriminator *Discriminator // FormDiscriminator
}

// Discriminator describes a tagged union.
type Discriminator struct {
	Tag     string             `json:"tag"`
	Mapping map[string]*Schema `json:"mapping"`
}

// Empty returns the schema that accepts any value.
func Empty() *Schema { return &Schema{Form: FormEmpty} }

// OfType returns a type-form schema.
func OfType(t Type) *Schema { return &Schema{Form: FormType, Type: t} }

// ElementsOf returns an elements-form schema.
func ElementsOf(elem *Schema) *Schema { return &Schema{Form: FormElements, Elements: elem} }

// ValuesOf returns a values-form schema.
func ValuesOf(v *Schema) *Schema { return &Schema{Form: FormValues, Values: v} }

// PropertiesOf returns a properties-form schema. Nil maps are treated as empty.
func PropertiesOf(required, optional map[string]*Schema) *Schema {
	if required == nil {
		required = map[string]*Schema{}
	}
	if optional == nil {
		optional = map[string]*Schema{}
	}
	return &Schema{
		Form:               FormProperties,
		Properties:         required,
		OptionalProperties: optional,
		HasRequired:        len(required) > 0,
	}
}

// DiscriminatorOf returns a discriminator-form schema.
func DiscriminatorOf(tag string, mapping map[string]*Schema) *Schema {
	if mapping == nil {
		mapping = map[string]*Schema{}
	}
	return &Schema{Form: FormDiscriminator, Discriminator: &Discriminator{Tag: tag, Mapping: mapping}}
}

// wire is the serialized keyword layout. Pointers to maps let the encoder
// distinguish an absent keyword from an empty one.
type wire struct {
	Type               Type                `json:"type,omitempty"`
	Elements           *Schema             `json:"elements,omitempty"`
	Properties         *map[string]*Schema `json:"properties,omitempty"`
	OptionalProperties *map[string]*Schema `json:"optionalProperties,omitempty"`
	Values             *Schema             `json:"values,omitempty"`
	Discriminator      *Discriminator      `json:"discriminator,omitempty"`
}

// MarshalJSON emits exactly the keywords of the schema's form.
func (s *Schema) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	var w wire
	switch s.Form {
	case FormEmpty:
	case FormType:
		if !s.Type.valid() {
			return nil, fmt.Errorf("jsl: invalid type %q", s.Type)
		}
		w.Type = s.Type
	case FormElements:
		w.Elements = orEmpty(s.Elements)
	case FormProperties:
		if s.HasRequired {
			req := nonNil(s.Properties)
			w.Properties = &req
		}
		if len(s.OptionalProperties) > 0 || !s.HasRequired {
			opt := nonNil(s.OptionalProperties)
			w.OptionalProperties = &opt
		}
	case FormValues:
		w.Values = orEmpty(s.Values)
	case FormDiscriminator:
		if s.Discriminator == nil {
			return nil, errors.New("jsl: discriminator form without discriminator")
		}
		w.Discriminator = &Discriminator{Tag: s.Discriminator.Tag, Mapping: nonNil(s.Discriminator.Mapping)}
	default:
		return nil, fmt.Errorf("jsl: unknown form %v", s.Form)
	}
	return json.Marshal(w)
}

// UnmarshalJSON parses a schema and determines its form. Keywords from more
// than one form are rejected.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var w wire
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&w); err != nil {
		return fmt.Errorf("jsl: %w", err)
	}

	forms := 0
	out := Schema{Form: FormEmpty}
	if w.Type != "" {
		if !w.Type.valid() {
			return fmt.Errorf("jsl: invalid type %q", w.Type)
		}
		forms++
		out.Form, out.Type = FormType, w.Type
	}
	if w.Elements != nil {
		forms++
		out.Form, out.Elements = FormElements, w.Elements
	}
	if w.Properties != nil || w.OptionalProperties != nil {
		forms++
		out.Form = FormProperties
		out.Properties = map[string]*Schema{}
		out.OptionalProperties = map[string]*Schema{}
		if w.Properties != nil {
			out.Properties = nonNil(*w.Properties)
			out.HasRequired = true
		}
		if w.OptionalProperties != nil {
			out.OptionalProperties = nonNil(*w.OptionalProperties)
		}
		for k := range out.Properties {
			if _, dup := out.OptionalProperties[k]; dup {
				return fmt.Errorf("jsl: property %q is both required and optional", k)
			}
		}
	}
	if w.Values != nil {
		forms++
		out.Form, out.Values = FormValues, w.Values
	}
	if w.Discriminator != nil {
		if w.Discriminator.Tag == "" {
			return errors.New("jsl: discriminator without tag")
		}
		forms++
		out.Form = FormDiscriminator
		out.Discriminator = &Discriminator{Tag: w.Discriminator.Tag, Mapping: nonNil(w.Discriminator.Mapping)}
	}
	if forms > 1 {
		return errors.New("jsl: schema mixes keywords of more than one form")
	}

	*s = out
	return nil
}

// Equal reports whether two schemas describe the same document.
func Equal(a, b *Schema) bool {
	a, b = orEmpty(a), orEmpty(b)
	if a.Form != b.Form {
		return false
	}
	switch a.Form {
	case FormEmpty:
		return true
	case FormType:
		return a.Type == b.Type
	case FormElements:
		return Equal(a.Elements, b.Elements)
	case FormValues:
		return Equal(a.Values, b.Values)
	case FormProperties:
		return a.HasRequired == b.HasRequired &&
			equalMaps(a.Properties, b.Properties) &&
			equalMaps(a.OptionalProperties, b.OptionalProperties)
	case FormDiscriminator:
		return a.Discriminator.Tag == b.Discriminator.Tag &&
			equalMaps(a.Discriminator.Mapping, b.Discriminator.Mapping)
	}
	return false
}

func equalMaps(a, b map[string]*Schema) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !Equal(av, bv) {
			return false
		}
	}
	return true
}

func orEmpty(s *Schema) *Schema {
	if s == nil {
		return Empty()
	}
	return s
}

func nonNil(m map[string]*Schema) map[string]*Schema {
	if m == nil {
		return map[string]*Schema{}
	}
	return m
}
