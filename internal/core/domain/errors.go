package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyBatch      = errors.New("batch must contain at least one record")
	ErrLogNotAvailable = errors.New("prediction log is not available")
)

// ValidationError reports a caller-correctable problem with one input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
}

// InferenceError means the loaded pipeline artifact rejected a record that
// passed schema validation, e.g. a categorical value the encoder never saw
// during training. Field is empty when the failure is not tied to one column.
type InferenceError struct {
	Field string
	Err   error
}

func (e *InferenceError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("pipeline rejected input field %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("pipeline rejected input: %v", e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }

// SourceFailure records why one artifact source could not be used.
type SourceFailure struct {
	Source string
	Err    error
}

func (f SourceFailure) String() string {
	return fmt.Sprintf("%s: %v", f.Source, f.Err)
}

// ArtifactUnavailableError is returned when every configured artifact source
// failed. It carries the per-source reasons so operators can tell a missing
// file from a decode failure from a network error.
type ArtifactUnavailableError struct {
	Failures []SourceFailure
}

func (e *ArtifactUnavailableError) Error() string {
	reasons := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		reasons = append(reasons, f.String())
	}
	return "pipeline artifact unavailable: " + strings.Join(reasons, "; ")
}
