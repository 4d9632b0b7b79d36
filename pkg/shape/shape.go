// Package shape implements the inference lattice: the structural shapes that
// describe every value observed at a path, and the merge rule that folds one
// more value into a prior shape.
//
// Merging only generalizes. Unknown sits at the bottom of the lattice and Any
// at the top; every other shape is in between, and a shape never moves back
// down once it has been widened.
//
// # Ownership
//
// Merge behaves as a function of (prior, value, hint) with one exception:
// it takes ownership of prior. Array, properties, values and discriminator
// shapes are updated in place and returned, so a fold over a stream does not
// copy the accumulated shape on every record. Callers continue with the
// returned shape and must not read prior afterwards. Export does not modify
// its argument.
package shape

import (
	"fmt"
	"sort"
	"strings"
)

// Kind identifies a lattice variant.
type Kind int

const (
	// KindUnknown means no value has been seen at this path yet.
	KindUnknown Kind = iota
	// KindAny accepts every value. It absorbs all further merges.
	KindAny
	KindBool
	KindNumber
	// KindTimestamp means every string seen so far parsed as an RFC 3339
	// timestamp. The first counterexample demotes it to KindString.
	KindTimestamp
	KindString
	KindArray
	KindProperties
	// KindValues is a record treated as a homogeneous map. Only a hint
	// can produce it.
	KindValues
	// KindDiscriminator is a record treated as a tagged union. Only a hint
	// can produce it.
	KindDiscriminator
)

var kindNames = [...]string{
	KindUnknown:       "unknown",
	KindAny:           "any",
	KindBool:          "bool",
	KindNumber:        "number",
	KindTimestamp:     "timestamp",
	KindString:        "string",
	KindArray:         "array",
	KindProperties:    "properties",
	KindValues:        "values",
	KindDiscriminator: "discriminator",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Shape is the most specific structural description consistent with every
// value observed at one path. Only the fields belonging to Kind are set.
//
// A nil *Shape is equivalent to Unknown.
type Shape struct {
	Kind Kind

	// Elem is the pooled shape of all list elements (KindArray) or all
	// record values (KindValues).
	Elem *Shape

	// Required and Optional hold the keys of a KindProperties record. They
	// never share a key.
	Required map[string]*Shape
	Optional map[string]*Shape

	// Tag and Mapping describe a KindDiscriminator record. Mapping is keyed
	// by tag value and holds the shape of the remaining fields.
	Tag     string
	Mapping map[string]*Shape
}

// Unknown returns the bottom of the lattice.
func Unknown() *Shape { return &Shape{Kind: KindUnknown} }

// Any returns the top of the lattice.
func Any() *Shape { return &Shape{Kind: KindAny} }

func scalar(k Kind) *Shape { return &Shape{Kind: k} }

// KindOf returns the kind of s, treating nil as KindUnknown.
func (s *Shape) KindOf() Kind {
	if s == nil {
		return KindUnknown
	}
	return s.Kind
}

// Equal reports whether two shapes are structurally identical.
func Equal(a, b *Shape) bool {
	if a.KindOf() != b.KindOf() {
		return false
	}
	switch a.KindOf() {
	case KindArray, KindValues:
		return Equal(a.Elem, b.Elem)
	case KindProperties:
		return equalMaps(a.Required, b.Required) && equalMaps(a.Optional, b.Optional)
	case KindDiscriminator:
		return a.Tag == b.Tag && equalMaps(a.Mapping, b.Mapping)
	}
	return true
}

func equalMaps(a, b map[string]*Shape) bool {
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

// String renders a compact, deterministic description, e.g.
// {id: number, tags?: [string]}.
func (s *Shape) String() string {
	var sb strings.Builder
	s.write(&sb)
	return sb.String()
}

func (s *Shape) write(sb *strings.Builder) {
	switch k := s.KindOf(); k {
	case KindArray:
		sb.WriteByte('[')
		s.Elem.write(sb)
		sb.WriteByte(']')
	case KindValues:
		sb.WriteString("values<")
		s.Elem.write(sb)
		sb.WriteByte('>')
	case KindProperties:
		sb.WriteByte('{')
		first := true
		writeFields := func(m map[string]*Shape, suffix string) {
			for _, key := range sortedKeys(m) {
				if !first {
					sb.WriteString(", ")
				}
				first = false
				sb.WriteString(key)
				sb.WriteString(suffix)
				sb.WriteString(": ")
				m[key].write(sb)
			}
		}
		writeFields(s.Required, "")
		writeFields(s.Optional, "?")
		sb.WriteByte('}')
	case KindDiscriminator:
		fmt.Fprintf(sb, "discriminator(%s){", s.Tag)
		for i, key := range sortedKeys(s.Mapping) {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(sb, "%q: ", key)
			s.Mapping[key].write(sb)
		}
		sb.WriteByte('}')
	default:
		sb.WriteString(k.String())
	}
}

func sortedKeys(m map[string]*Shape) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
