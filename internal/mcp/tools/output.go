package tools

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// AddTool registers a typed tool. It panics when CheckOutput rejects the
// tool's output type, so a bad output surfaces at startup instead of on the
// first call.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	if err := CheckOutput[Out](); err != nil {
		panic(fmt.Sprintf("tool %q: %v", t.Name, err))
	}
	sdkmcp.AddTool(srv, t, h)
}

// OutputError reports an output type whose JSON encoding disagrees with the
// output schema the SDK derives from its Go type.
type OutputError struct {
	Type reflect.Type

	// SelfEncoding lists the paths of fields whose type has its own
	// MarshalJSON. The derived schema describes the Go fields, not what
	// MarshalJSON writes, so schema documents such as *jsl.Schema must be
	// carried in an any field filled by ToAny.
	SelfEncoding []string

	// Invalid is the validation error of the zero value.
	Invalid error
}

func (e *OutputError) Error() string {
	if len(e.SelfEncoding) > 0 {
		return fmt.Sprintf("output %s: custom JSON encoding at %s; declare the field as any and fill it with ToAny",
			e.Type, strings.Join(e.SelfEncoding, ", "))
	}
	return fmt.Sprintf("output %s: zero value does not match its schema: %v; tag nil-able slices and maps omitzero",
		e.Type, e.Invalid)
}

// CheckOutput checks that the output type T encodes to JSON its derived
// schema accepts. It fails when a field of T marshals itself, or when the
// zero value of T does not validate (a nil slice encodes as null where the
// schema wants an array). Untyped outputs are not checked.
func CheckOutput[T any]() error {
	rt := reflect.TypeFor[T]()
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return nil
	}

	if paths := selfEncodingFields(rt, "$", map[reflect.Type]bool{}); len(paths) > 0 {
		return &OutputError{Type: rt, SelfEncoding: paths}
	}

	schema, err := jsonschema.ForType(rt, &jsonschema.ForOptions{})
	if err != nil {
		return fmt.Errorf("output %s: %w", rt, err)
	}
	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return fmt.Errorf("output %s: %w", rt, err)
	}

	data, err := json.Marshal(reflect.Zero(rt).Interface())
	if err != nil {
		return fmt.Errorf("output %s: %w", rt, err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("output %s: %w", rt, err)
	}
	if err := resolved.Validate(&doc); err != nil {
		return &OutputError{Type: rt, Invalid: err}
	}
	return nil
}

var (
	marshalerType = reflect.TypeFor[json.Marshaler]()
	timeType      = reflect.TypeFor[time.Time]()
)

// encodesItself reports whether values of t bypass field-wise encoding.
// time.Time is exempt: the schema generator maps it to a string.
func encodesItself(t reflect.Type) bool {
	if t == timeType {
		return false
	}
	return t.Implements(marshalerType) || reflect.PointerTo(t).Implements(marshalerType)
}

// selfEncodingFields walks t and returns the JSON paths of values whose
// type implements json.Marshaler.
func selfEncodingFields(t reflect.Type, path string, seen map[reflect.Type]bool) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if encodesItself(t) {
		return []string{path}
	}
	if seen[t] {
		return nil
	}
	seen[t] = true
	defer delete(seen, t)

	switch t.Kind() {
	case reflect.Struct:
		var found []string
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				continue
			}
			if name == "" {
				name = f.Name
			}
			found = append(found, selfEncodingFields(f.Type, path+"."+name, seen)...)
		}
		return found
	case reflect.Slice, reflect.Array:
		return selfEncodingFields(t.Elem(), path+"[*]", seen)
	case reflect.Map:
		return selfEncodingFields(t.Elem(), path+".*", seen)
	}
	return nil
}
