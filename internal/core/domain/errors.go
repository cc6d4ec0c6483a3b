package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown document format.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Suggestion generation is disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Analysis cannot run without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrServiceUnreachable indicates the AI backend did not answer the
	// reachability probe.
	ErrServiceUnreachable = errors.New("service unreachable")

	// ErrModelMissing indicates the configured model is not installed on the backend.
	ErrModelMissing = errors.New("model not available")

	// ErrEmbeddingFailed indicates an embedding call failed after all retries.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrGenerationFailed indicates a text generation call failed after all retries.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrEmptyDocument indicates the document has no text elements to embed.
	ErrEmptyDocument = errors.New("document has no text elements")
)

// PreconditionError reports a failed readiness check together with a
// remediation hint for the user (for example the command that fixes it).
type PreconditionError struct {
	// Err is the underlying sentinel (ErrServiceUnreachable or ErrModelMissing).
	Err error

	// Hint tells the user how to fix the problem.
	Hint string
}

// Error implements the error interface.
func (e *PreconditionError) Error() string {
	if e.Hint == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v. %s", e.Err, e.Hint)
}

// Unwrap returns the underlying sentinel error.
func (e *PreconditionError) Unwrap() error {
	return e.Err
}
