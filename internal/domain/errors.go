package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing entity.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate entity.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidReferenceID signals a malformed reference id where a valid one is required.
	ErrInvalidReferenceID = errors.New("invalid reference id")
	// ErrInvalidQuery signals an unusable search request.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidEntity signals an entity draft that failed validation.
	ErrInvalidEntity = errors.New("invalid entity")
	// ErrInvalidSession signals a missing or malformed session id.
	ErrInvalidSession = errors.New("invalid session id")
	// ErrUnknownKind signals an entity kind outside the closed set.
	ErrUnknownKind = errors.New("unknown entity kind")

	// ErrRemoteUnavailable signals that the remote search backend could not serve a request.
	ErrRemoteUnavailable = errors.New("remote search backend unavailable")
	// ErrRemoteDisabled signals that no remote search backend is configured.
	ErrRemoteDisabled = errors.New("remote search backend disabled")
	// ErrSequenceExhausted signals that a reference id partition has no sequence numbers left.
	ErrSequenceExhausted = errors.New("reference id sequence exhausted")
)

// RemoteStatusError wraps ErrRemoteUnavailable with the HTTP status returned by the backend.
type RemoteStatusError struct {
	StatusCode int
	Endpoint   string
}

func (e *RemoteStatusError) Error() string {
	return fmt.Sprintf("%s: %s returned %d", ErrRemoteUnavailable.Error(), e.Endpoint, e.StatusCode)
}

func (e *RemoteStatusError) Unwrap() error { return ErrRemoteUnavailable }

// NewRemoteStatus creates a remote status error.
func NewRemoteStatus(endpoint string, statusCode int) error {
	return &RemoteStatusError{StatusCode: statusCode, Endpoint: endpoint}
}
