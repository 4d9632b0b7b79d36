package records

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// DefaultMaxRecordBytes bounds a single JSON line.
const DefaultMaxRecordBytes = 16 << 20

// ErrEmptyRecord is the cause of a ParseError for a blank JSON line.
var ErrEmptyRecord = errors.New("empty record")

// Reader yields decoded records. Next returns io.EOF after the last record.
type Reader interface {
	Next() (any, error)
}

// ParseError reports a record that could not be decoded. Record is the
// 1-based line number for JSON input and document number for YAML input.
type ParseError struct {
	Format Format
	Record int
	Err    error
}

func (e *ParseError) Error() string {
	unit := "line"
	if e.Format == FormatYAML {
		unit = "document"
	}
	return fmt.Sprintf("malformed %s record at %s %d: %v", e.Format, unit, e.Record, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// JSONLines reads one JSON value per line. Every line is a record, so a
// blank line is malformed.
type JSONLines struct {
	scanner *bufio.Scanner
	line    int
}

// NewJSONLines creates a JSON-lines reader. maxRecordBytes <= 0 uses
// DefaultMaxRecordBytes.
func NewJSONLines(r io.Reader, maxRecordBytes int) *JSONLines {
	if maxRecordBytes <= 0 {
		maxRecordBytes = DefaultMaxRecordBytes
	}
	// The scanner's limit is the larger of max and the initial capacity.
	initial := min(64*1024, maxRecordBytes)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, initial), maxRecordBytes)
	return &JSONLines{scanner: sc}
}

// Next decodes the next line.
func (j *JSONLines) Next() (any, error) {
	if j.scanner.Scan() {
		j.line++
		line := bytes.TrimSpace(j.scanner.Bytes())
		if len(line) == 0 {
			return nil, &ParseError{Format: FormatJSON, Record: j.line, Err: ErrEmptyRecord}
		}
		var v any
		if err := json.Unmarshal(line, &v); err != nil {
			return nil, &ParseError{Format: FormatJSON, Record: j.line, Err: err}
		}
		return v, nil
	}
	if err := j.scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &ParseError{Format: FormatJSON, Record: j.line + 1, Err: err}
		}
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return nil, io.EOF
}

// YAMLDocuments reads one record per YAML document.
type YAMLDocuments struct {
	dec *yaml.Decoder
	doc int
}

// NewYAMLDocuments creates a YAML document reader.
func NewYAMLDocuments(r io.Reader) *YAMLDocuments {
	return &YAMLDocuments{dec: yaml.NewDecoder(r)}
}

// Next decodes the next document, normalizing mapping keys to strings.
func (y *YAMLDocuments) Next() (any, error) {
	var v any
	y.doc++
	if err := y.dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, &ParseError{Format: FormatYAML, Record: y.doc, Err: err}
	}
	return Normalize(v), nil
}

// New creates a reader for format. FormatAuto is treated as JSON.
func New(r io.Reader, format Format, maxRecordBytes int) Reader {
	if format == FormatYAML {
		return NewYAMLDocuments(r)
	}
	return NewJSONLines(r, maxRecordBytes)
}

// Open opens path ("-" for standard input) and returns a reader plus a close
// function. FormatAuto is resolved from the path's extension.
func Open(path string, format Format, maxRecordBytes int) (Reader, func() error, error) {
	if format == "" || format == FormatAuto {
		format = DetectFormat(path)
	}
	if path == "" || path == "-" {
		return New(os.Stdin, format, maxRecordBytes), func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening input: %w", err)
	}
	return New(f, format, maxRecordBytes), f.Close, nil
}

// Normalize converts decoded YAML into the JSON value model: mapping keys
// become strings and nested maps become map[string]any.
func Normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, v := range val {
			result[k] = Normalize(v)
		}
		return result
	case map[any]any:
		result := make(map[string]any, len(val))
		for k, v := range val {
			result[fmt.Sprintf("%v", k)] = Normalize(v)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, v := range val {
			result[i] = Normalize(v)
		}
		return result
	default:
		return v
	}
}

// Slice is an in-memory Reader over already decoded values.
type Slice struct {
	values []any
	pos    int
}

// FromSlice creates a Reader over values.
func FromSlice(values []any) *Slice {
	return &Slice{values: values}
}

// Next returns the next value.
func (s *Slice) Next() (any, error) {
	if s.pos >= len(s.values) {
		return nil, io.EOF
	}
	v := s.values[s.pos]
	s.pos++
	return v, nil
}
