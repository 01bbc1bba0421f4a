package localdex

import "github.com/kailas-cloud/localdex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound           = domain.ErrNotFound
	ErrAlreadyExists      = domain.ErrAlreadyExists
	ErrInvalidReferenceID = domain.ErrInvalidReferenceID
	ErrInvalidQuery       = domain.ErrInvalidQuery
	ErrInvalidEntity      = domain.ErrInvalidEntity
	ErrInvalidSession     = domain.ErrInvalidSession
	ErrUnknownKind        = domain.ErrUnknownKind
	ErrSequenceExhausted  = domain.ErrSequenceExhausted
)
