package shape

import "github.com/usestring/jsl-infer/pkg/jsl"

// Export converts an inferred shape into a schema document. Unknown and Any
// both export to the empty form.
func Export(s *Shape) *jsl.Schema {
	switch s.KindOf() {
	case KindBool:
		return jsl.OfType(jsl.TypeBoolean)
	case KindNumber:
		return jsl.OfType(jsl.TypeNumber)
	case KindTimestamp:
		return jsl.OfType(jsl.TypeTimestamp)
	case KindString:
		return jsl.OfType(jsl.TypeString)
	case KindArray:
		return jsl.ElementsOf(Export(s.Elem))
	case KindValues:
		return jsl.ValuesOf(Export(s.Elem))
	case KindProperties:
		return jsl.PropertiesOf(exportMap(s.Required), exportMap(s.Optional))
	case KindDiscriminator:
		return jsl.DiscriminatorOf(s.Tag, exportMap(s.Mapping))
	default:
		return jsl.Empty()
	}
}

func exportMap(m map[string]*Shape) map[string]*jsl.Schema {
	out := make(map[string]*jsl.Schema, len(m))
	for k, v := range m {
		out[k] = Export(v)
	}
	return out
}
