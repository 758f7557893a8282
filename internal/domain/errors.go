package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when a text is empty after whitespace
// normalization. It is local and non-fatal: the offending chunk or
// query is skipped, nothing else is aborted.
var ErrEmptyInput = errors.New("empty input text")

// BackendErrorKind classifies a backend failure by how the caller
// should react to it.
type BackendErrorKind string

const (
	// KindInvalidRequest covers credential and request-format errors.
	// Retrying the remaining items of a batch will not help, so this
	// kind aborts the whole batch.
	KindInvalidRequest BackendErrorKind = "invalid_request"
	// KindRateLimited is transient; the item degrades to a fallback
	// value instead of failing the batch.
	KindRateLimited BackendErrorKind = "rate_limited"
	// KindTimeout marks a bounded-timeout expiry on a backend call.
	KindTimeout BackendErrorKind = "timeout"
	KindUnknown BackendErrorKind = "unknown"
)

// BackendError is a non-success response from the embedding or
// generation backend.
type BackendError struct {
	Kind    BackendErrorKind
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("backend error (%s, status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("backend error (%s): %s", e.Kind, e.Message)
}

// IsInvalidRequest reports whether err is a BackendError of kind
// invalid_request, the one kind that trips the batch circuit breaker.
func IsInvalidRequest(err error) bool {
	var be *BackendError
	return errors.As(err, &be) && be.Kind == KindInvalidRequest
}

// GenerationBlockedError is returned when the generation backend refused
// to answer and reported a block reason. The reason is surfaced to the
// end user verbatim rather than hidden behind a generic failure.
type GenerationBlockedError struct {
	Reason string
}

func (e *GenerationBlockedError) Error() string {
	return fmt.Sprintf("generation blocked: %s", e.Reason)
}
