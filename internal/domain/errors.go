package domain

import "fmt"

// InferenceFailureKind tags what went wrong on an inference call.
type InferenceFailureKind string

const (
	// FailureUnavailable covers network errors, timeouts and non-2xx
	// upstream responses.
	FailureUnavailable InferenceFailureKind = "unavailable"
	// FailureMalformedResponse is a success status with a payload missing
	// the expected shape (no choices, empty text).
	FailureMalformedResponse InferenceFailureKind = "malformed_response"
	// FailureUnauthenticated is a missing or rejected credential.
	FailureUnauthenticated InferenceFailureKind = "unauthenticated"
)

// InferenceError is the tagged failure an InferenceClient returns.
// Callers absorb it at the component boundary and substitute a safe
// default; it must never reach an end user.
type InferenceError struct {
	Kind InferenceFailureKind
	Err  error
}

func (e *InferenceError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("inference %s", e.Kind)
	}
	return fmt.Sprintf("inference %s: %v", e.Kind, e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// NewInferenceError wraps err with a failure kind.
func NewInferenceError(kind InferenceFailureKind, err error) *InferenceError {
	return &InferenceError{Kind: kind, Err: err}
}
