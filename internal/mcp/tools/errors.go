package tools

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/usestring/jsl-infer/pkg/hint"
	"github.com/usestring/jsl-infer/pkg/records"
)

// Error codes for MCP tool responses.
const (
	ErrCodeInvalidInput    = "INVALID_INPUT"
	ErrCodeInferenceFailed = "INFERENCE_FAILED"
	ErrCodeNotFound        = "NOT_FOUND"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// WrapInferenceError converts an error from an inference run into a coded
// error. Malformed hints and records are the caller's fault; anything else
// is reported as an inference failure.
func WrapInferenceError(err error) error {
	if err == nil {
		return nil
	}

	var coded *CodedError
	if errors.As(err, &coded) {
		return coded
	}

	var (
		pathErr  *hint.PathError
		parseErr *records.ParseError
	)
	switch {
	case errors.As(err, &pathErr),
		errors.As(err, &parseErr),
		errors.Is(err, hint.ErrMissingTag),
		errors.Is(err, hint.ErrConflictingHints):
		coded = &CodedError{
			Code:    ErrCodeInvalidInput,
			Message: "invalid hints or records",
			Cause:   err,
		}
	default:
		coded = &CodedError{
			Code:    ErrCodeInferenceFailed,
			Message: "inference failed",
			Cause:   err,
		}
	}

	slog.Warn("inference error",
		slog.String("code", coded.Code),
		slog.String("error", err.Error()),
	)

	return coded
}

// ErrNotFound creates a not found error.
func ErrNotFound(resource, id string) error {
	return &CodedError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}
