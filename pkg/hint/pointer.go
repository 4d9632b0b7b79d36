// Package hint builds the read-only hint tree that biases how ambiguous
// record-shaped values are inferred at specific structural paths.
package hint

import (
	"fmt"
	"strings"
)

// WildcardToken is the pointer token that addresses every element of a list
// (and every entry of a values-form record).
const WildcardToken = "-"

// Segment is one step of a structural path.
type Segment struct {
	Key      string
	Wildcard bool
}

// String renders the segment as an escaped JSON Pointer token.
func (s Segment) String() string {
	if s.Wildcard {
		return WildcardToken
	}
	return strings.ReplaceAll(strings.ReplaceAll(s.Key, "~", "~0"), "/", "~1")
}

// PathError reports a hint path that could not be parsed.
type PathError struct {
	Path   string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("invalid hint path %q: %s", e.Path, e.Reason)
}

// ParsePointer parses an RFC 6901 JSON Pointer into segments.
// The empty string addresses the root and yields no segments.
func ParsePointer(path string) ([]Segment, error) {
	if path == "" {
		return nil, nil
	}
	if !strings.HasPrefix(path, "/") {
		return nil, &PathError{Path: path, Reason: "must be empty or start with '/'"}
	}

	tokens := strings.Split(path[1:], "/")
	segments := make([]Segment, 0, len(tokens))
	for _, tok := range tokens {
		if tok == WildcardToken {
			segments = append(segments, Segment{Wildcard: true})
			continue
		}
		key, err := unescape(tok)
		if err != nil {
			return nil, &PathError{Path: path, Reason: err.Error()}
		}
		segments = append(segments, Segment{Key: key})
	}
	return segments, nil
}

// FormatPointer renders segments back into a JSON Pointer.
func FormatPointer(segments []Segment) string {
	var sb strings.Builder
	for _, s := range segments {
		sb.WriteByte('/')
		sb.WriteString(s.String())
	}
	return sb.String()
}

func unescape(tok string) (string, error) {
	if !strings.Contains(tok, "~") {
		return tok, nil
	}
	var sb strings.Builder
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		if c != '~' {
			sb.WriteByte(c)
			continue
		}
		if i+1 >= len(tok) {
			return "", fmt.Errorf("dangling '~' in token %q", tok)
		}
		switch tok[i+1] {
		case '0':
			sb.WriteByte('~')
		case '1':
			sb.WriteByte('/')
		default:
			return "", fmt.Errorf("invalid escape '~%c' in token %q", tok[i+1], tok)
		}
		i++
	}
	return sb.String(), nil
}
