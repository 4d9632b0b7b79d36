// Package records reads the example values that schema inference consumes:
// one JSON value per line, or one YAML document per record.
package records

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

// Format is an input encoding.
type Format string

const (
	// FormatAuto picks a format from the input name.
	FormatAuto Format = "auto"
	// FormatJSON is newline-delimited JSON: one value per line.
	FormatJSON Format = "json"
	// FormatYAML is a stream of YAML documents separated by "---".
	FormatYAML Format = "yaml"
)

// ParseFormat accepts a format name or a media type such as
// application/x-ndjson or application/yaml.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "", "auto":
		return FormatAuto, nil
	case "json", "jsonl", "ndjson":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}

	mediaType, _, err := mime.ParseMediaType(name)
	if err != nil {
		return "", fmt.Errorf("unknown input format %q", s)
	}
	switch {
	case strings.Contains(mediaType, "json"):
		return FormatJSON, nil
	case strings.Contains(mediaType, "yaml"):
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported input media type %q", mediaType)
}

// DetectFormat resolves FormatAuto from an input path. Standard input ("-")
// and unrecognized extensions are JSON.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}
