package shape

import (
	"strings"
	"time"

	"github.com/usestring/jsl-infer/pkg/hint"
)

// IsTimestamp reports whether s is an RFC 3339 date-time. Fractional
// seconds, lowercase "t" and "z", and a leap second (":60") are accepted.
func IsTimestamp(s string) bool {
	if len(s) < len("2006-01-02T15:04:05Z") {
		return false
	}
	// The date-time grammar has no letters other than T and Z.
	s = strings.ToUpper(s)
	if _, err := time.Parse(time.RFC3339, s); err == nil {
		return true
	}
	// time.Parse rejects second 60; validate the rest with 59 in its place.
	if len(s) > 19 && s[10] == 'T' && s[16] == ':' && s[17:19] == "60" {
		_, err := time.Parse(time.RFC3339, s[:17]+"59"+s[19:])
		return err == nil
	}
	return false
}

// Merger folds observed values into shapes.
type Merger struct {
	isTimestamp func(string) bool
}

// MergerOption configures a Merger.
type MergerOption func(*Merger)

// WithTimestampDetector replaces the timestamp classifier. The detector must
// be deterministic; a memoizing wrapper around IsTimestamp is the intended use.
func WithTimestampDetector(fn func(string) bool) MergerOption {
	return func(m *Merger) {
		if fn != nil {
			m.isTimestamp = fn
		}
	}
}

// NewMerger creates a Merger.
func NewMerger(opts ...MergerOption) *Merger {
	m := &Merger{isTimestamp: IsTimestamp}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var defaultMerger = NewMerger()

// Merge folds v into prior using the default Merger.
func Merge(prior *Shape, v any, h *hint.Node) *Shape {
	return defaultMerger.Merge(prior, v, h)
}

// Merge returns the most specific shape that accepts every value prior
// accepted plus v. h is the hint node for the same path, or nil.
//
// Merge takes ownership of prior (see the package documentation).
func (m *Merger) Merge(prior *Shape, v any, h *hint.Node) *Shape {
	kind := classify(v)

	switch prior.KindOf() {
	case KindUnknown:
		return m.infer(v, kind, h)

	case KindAny:
		return prior

	case KindBool:
		if kind == valueBool {
			return prior
		}

	case KindNumber:
		if kind == valueNumber {
			return prior
		}

	case KindTimestamp:
		switch kind {
		case valueTime:
			return prior
		case valueString:
			if m.isTimestamp(v.(string)) {
				return prior
			}
			return scalar(KindString)
		}

	case KindString:
		if kind == valueString || kind == valueTime {
			return prior
		}

	case KindArray:
		if kind == valueList {
			prior.Elem = m.mergeAll(prior.Elem, v.([]any), h.Element())
			return prior
		}

	case KindProperties:
		if kind == valueRecord {
			m.mergeProperties(prior, v.(map[string]any), h)
			return prior
		}

	case KindValues:
		if kind == valueRecord {
			prior.Elem = m.mergeEntries(prior.Elem, v.(map[string]any), h.Element())
			return prior
		}

	case KindDiscriminator:
		if kind == valueRecord {
			return m.mergeVariant(prior, v.(map[string]any), h)
		}
	}

	return Any()
}

// infer classifies v with no prior observation. Hints are consulted only here.
func (m *Merger) infer(v any, kind valueKind, h *hint.Node) *Shape {
	switch kind {
	case valueBool:
		return scalar(KindBool)
	case valueNumber:
		return scalar(KindNumber)
	case valueTime:
		return scalar(KindTimestamp)
	case valueString:
		if m.isTimestamp(v.(string)) {
			return scalar(KindTimestamp)
		}
		return scalar(KindString)
	case valueList:
		return &Shape{Kind: KindArray, Elem: m.mergeAll(Unknown(), v.([]any), h.Element())}
	case valueRecord:
		rec := v.(map[string]any)
		if h.IsValues() {
			return &Shape{Kind: KindValues, Elem: m.mergeEntries(Unknown(), rec, h.Element())}
		}
		if tag := h.DiscriminatorTag(); tag != "" {
			if tagValue, ok := rec[tag].(string); ok {
				return &Shape{
					Kind: KindDiscriminator,
					Tag:  tag,
					Mapping: map[string]*Shape{
						tagValue: m.Merge(nil, without(rec, tag), h.Fields()),
					},
				}
			}
		}
		required := make(map[string]*Shape, len(rec))
		for k, fv := range rec {
			required[k] = m.Merge(nil, fv, h.Child(k))
		}
		return &Shape{Kind: KindProperties, Required: required, Optional: map[string]*Shape{}}
	}

	// Null and unrecognized values carry no structure to generalize from.
	return Any()
}

func (m *Merger) mergeAll(elem *Shape, items []any, h *hint.Node) *Shape {
	for _, item := range items {
		elem = m.Merge(elem, item, h)
	}
	if elem == nil {
		return Unknown()
	}
	return elem
}

func (m *Merger) mergeEntries(elem *Shape, rec map[string]any, h *hint.Node) *Shape {
	for _, v := range rec {
		elem = m.Merge(elem, v, h)
	}
	if elem == nil {
		return Unknown()
	}
	return elem
}

// mergeProperties demotes required keys missing from rec and merges every
// present key. Keys seen for the first time are optional.
func (m *Merger) mergeProperties(s *Shape, rec map[string]any, h *hint.Node) {
	if s.Optional == nil {
		s.Optional = make(map[string]*Shape)
	}
	for k, sub := range s.Required {
		if _, ok := rec[k]; !ok {
			delete(s.Required, k)
			s.Optional[k] = sub
		}
	}
	for k, v := range rec {
		if sub, ok := s.Required[k]; ok {
			s.Required[k] = m.Merge(sub, v, h.Child(k))
		} else if sub, ok := s.Optional[k]; ok {
			s.Optional[k] = m.Merge(sub, v, h.Child(k))
		} else {
			s.Optional[k] = m.Merge(nil, v, h.Child(k))
		}
	}
}

// mergeVariant routes rec to the mapping entry selected by its tag. A record
// without a string tag falsifies the hint and the shape collapses to Any; no
// properties form is reconstructed from the variants.
func (m *Merger) mergeVariant(s *Shape, rec map[string]any, h *hint.Node) *Shape {
	tagValue, ok := rec[s.Tag].(string)
	if !ok {
		return Any()
	}
	if s.Mapping == nil {
		s.Mapping = make(map[string]*Shape)
	}
	s.Mapping[tagValue] = m.Merge(s.Mapping[tagValue], without(rec, s.Tag), h.Fields())
	return s
}

func without(rec map[string]any, key string) map[string]any {
	out := make(map[string]any, len(rec))
	for k, v := range rec {
		if k != key {
			out[k] = v
		}
	}
	return out
}
