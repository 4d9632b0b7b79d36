// Package query provides jq-based selection of the values that inference
// observes from each input record.
package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
)

// Selector runs a compiled jq program against each record. A record may
// yield zero or more values.
type Selector struct {
	expression string
	code       *gojq.Code
}

// Compile parses and compiles expression. The identity program (".") and the
// empty string compile to a selector that passes records through untouched.
func Compile(expression string) (*Selector, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" || expression == "." {
		return &Selector{expression: "."}, nil
	}

	query, err := gojq.Parse(expression)
	if err != nil {
		var parseErr *gojq.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("invalid jq expression at position %d: %w", parseErr.Offset, err)
		}
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}
	return &Selector{expression: expression, code: code}, nil
}

// String returns the source expression.
func (s *Selector) String() string {
	return s.expression
}

// Identity reports whether the selector passes records through untouched.
func (s *Selector) Identity() bool {
	return s == nil || s.code == nil
}

// Select runs the program on v and collects every output. A runtime error
// aborts the selection; halt with no value ends it without error.
func (s *Selector) Select(ctx context.Context, v any) ([]any, error) {
	if s.Identity() {
		return []any{v}, nil
	}

	var out []any
	iter := s.code.RunWithContext(ctx, v)
	for {
		r, ok := iter.Next()
		if !ok {
			return out, nil
		}
		if err, isErr := r.(error); isErr {
			var haltErr *gojq.HaltError
			if errors.As(err, &haltErr) && haltErr.Value() == nil {
				return out, nil
			}
			return nil, errors.New(formatJQError(err))
		}
		out = append(out, r)
	}
}

// formatJQError creates a helpful error message for jq execution errors.
//
// Runtime errors (like "cannot iterate over: null") are plain errors without
// typed wrappers in gojq, so hints are picked by string matching. Only the
// display message is decorated.
func formatJQError(err error) string {
	var haltErr *gojq.HaltError
	if errors.As(err, &haltErr) {
		return fmt.Sprintf("query halted with: %v", haltErr.Value())
	}

	errStr := err.Error()

	var hint string
	switch {
	case strings.Contains(errStr, "cannot iterate over: null"):
		hint = " (the path may not exist in this record)"
	case strings.Contains(errStr, "cannot index") && strings.Contains(errStr, "with"):
		hint = " (field not found or wrong type)"
	case strings.Contains(errStr, "object") && strings.Contains(errStr, "cannot be iterated"):
		hint = " (expected array but got object, try removing '[]')"
	case strings.Contains(errStr, "array") && strings.Contains(errStr, "cannot be indexed"):
		hint = " (expected object but got array, try adding '[]')"
	}

	return "jq: " + errStr + hint
}
