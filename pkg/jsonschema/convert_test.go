package jsonschema

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/jsl-infer/pkg/hint"
	"github.com/usestring/jsl-infer/pkg/jsl"
	"github.com/usestring/jsl-infer/pkg/shape"
)

func inferJSL(t *testing.T, h *hint.Node, docs []string) *jsl.Schema {
	t.Helper()
	var s *shape.Shape
	for _, d := range docs {
		var v any
		require.NoError(t, json.Unmarshal([]byte(d), &v))
		s = shape.Merge(s, v, h)
	}
	return shape.Export(s)
}

// compile turns a converted schema into a validator.
func compile(t *testing.T, s *jsl.Schema) *jsonschema.Schema {
	t.Helper()
	raw, err := json.Marshal(FromJSL(s))
	require.NoError(t, err)

	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(raw)))
	require.NoError(t, err)

	c := jsonschema.NewCompiler()
	require.NoError(t, c.AddResource("schema.json", doc))
	compiled, err := c.Compile("schema.json")
	require.NoError(t, err, "schema: %s", raw)
	return compiled
}

func instance(t *testing.T, s string) any {
	t.Helper()
	v, err := jsonschema.UnmarshalJSON(strings.NewReader(s))
	require.NoError(t, err)
	return v
}

func TestFromJSL_Types(t *testing.T) {
	tests := []struct {
		in   *jsl.Schema
		want string
	}{
		{jsl.OfType(jsl.TypeBoolean), `{"type":"boolean"}`},
		{jsl.OfType(jsl.TypeNumber), `{"type":"number"}`},
		{jsl.OfType(jsl.TypeString), `{"type":"string"}`},
		{jsl.OfType(jsl.TypeTimestamp), `{"type":"string","format":"date-time"}`},
		{jsl.ElementsOf(jsl.OfType(jsl.TypeNumber)), `{"type":"array","items":{"type":"number"}}`},
		{jsl.ValuesOf(jsl.OfType(jsl.TypeString)), `{"type":"object","additionalProperties":{"type":"string"}}`},
		{jsl.Empty(), `true`},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := json.Marshal(FromJSLWithOptions(tt.in, &ConvertOptions{OmitVersion: true}))
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestFromJSL_Properties(t *testing.T) {
	s := jsl.PropertiesOf(
		map[string]*jsl.Schema{"id": jsl.OfType(jsl.TypeNumber)},
		map[string]*jsl.Schema{"name": jsl.OfType(jsl.TypeString)},
	)

	got := FromJSL(s)
	assert.Equal(t, Draft, got.Version)
	assert.Equal(t, "object", got.Type)
	assert.Equal(t, []string{"id"}, got.Required)
	require.NotNil(t, got.Properties.GetPair("name"))
	assert.Equal(t, "string", got.Properties.GetPair("name").Value.Type)

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"additionalProperties":false`)

	open := FromJSLWithOptions(s, &ConvertOptions{AdditionalProperties: true})
	raw, err = json.Marshal(open)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"additionalProperties":true`)
}

func TestFromJSL_EmptyRootCarriesVersion(t *testing.T) {
	raw, err := json.Marshal(FromJSL(jsl.Empty()))
	require.NoError(t, err)
	assert.JSONEq(t, `{"$schema":"`+Draft+`"}`, string(raw))
}

func TestFromJSL_Discriminator(t *testing.T) {
	h, err := hint.Parse(nil, []string{"/type"})
	require.NoError(t, err)
	s := inferJSL(t, h, []string{`{"type":"a","x":1}`, `{"type":"b","y":"s"}`})

	got := FromJSL(s)
	require.Len(t, got.OneOf, 2)
	assert.Equal(t, "a", got.OneOf[0].Properties.GetPair("type").Value.Const)
	assert.Equal(t, []string{"type", "x"}, got.OneOf[0].Required)

	v := compile(t, s)
	assert.NoError(t, v.Validate(instance(t, `{"type":"a","x":2}`)))
	assert.NoError(t, v.Validate(instance(t, `{"type":"b","y":"t"}`)))
	assert.Error(t, v.Validate(instance(t, `{"type":"c"}`)))
	assert.Error(t, v.Validate(instance(t, `{"type":"a","y":"t"}`)))
}

func TestFromJSL_SingleVariant(t *testing.T) {
	s := jsl.DiscriminatorOf("kind", map[string]*jsl.Schema{
		"only": jsl.PropertiesOf(nil, nil),
	})
	got := FromJSL(s)
	assert.Empty(t, got.OneOf)
	assert.Equal(t, []string{"kind"}, got.Required)
}

// Every record an inference observed must validate against the converted
// schema.
func TestFromJSL_AcceptsObservedRecords(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		discr  []string
		docs   []string
	}{
		{
			name: "records",
			docs: []string{
				`{"id":1,"name":"a","tags":["x","y"],"at":"2020-01-01T00:00:00Z"}`,
				`{"id":2,"tags":[],"nested":{"ok":true}}`,
				`{"id":3.5,"name":"c","nested":{"ok":false,"extra":null}}`,
			},
		},
		{
			name:   "values hint",
			values: []string{"/counts"},
			docs: []string{
				`{"counts":{"a":1,"b":2}}`,
				`{"counts":{"zz":7}}`,
			},
		},
		{
			name:  "discriminator hint",
			discr: []string{"/events/-/type"},
			docs: []string{
				`{"events":[{"type":"click","x":1,"y":2}]}`,
				`{"events":[{"type":"key","code":"Enter"},{"type":"click","x":3,"y":4,"button":"left"}]}`,
			},
		},
		{
			name: "mixed scalars",
			docs: []string{`1`, `"a"`, `null`, `[1,"b"]`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := hint.Parse(tt.values, tt.discr)
			require.NoError(t, err)

			v := compile(t, inferJSL(t, h, tt.docs))
			for _, d := range tt.docs {
				assert.NoError(t, v.Validate(instance(t, d)), "record %s", d)
			}
		})
	}
}

func TestFromJSL_RejectsUnseenKeys(t *testing.T) {
	v := compile(t, inferJSL(t, nil, []string{`{"a":1}`}))
	assert.NoError(t, v.Validate(instance(t, `{"a":5}`)))
	assert.Error(t, v.Validate(instance(t, `{"a":5,"b":1}`)))
	assert.Error(t, v.Validate(instance(t, `{}`)))
}
