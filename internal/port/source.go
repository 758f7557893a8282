package port

import "auditrag/internal/domain"

// DocumentSource enumerates documents and delivers them as plain text.
// Documents whose type cannot be converted to text are skipped by the
// source with a warning, not surfaced as errors.
type DocumentSource interface {
	List() ([]domain.RawDocument, error)
}
