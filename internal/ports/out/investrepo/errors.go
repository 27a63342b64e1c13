package investrepo

import (
	"errors"
	"fmt"
)

// ErrTransport marks failures to reach the collaborator at all (DNS, connection reset, timeout).
// Adapters wrap it so callers can use errors.Is.
var ErrTransport = errors.New("investment service unreachable")

// Remote rejection codes shared by every adapter.
const (
	CodePermissionDenied = "PERMISSION_DENIED"
	CodeGroupNotFound    = "GROUP_NOT_FOUND"
	CodeDuplicatePhone   = "DUPLICATE_PHONE"
	CodeInvalidRequest   = "INVALID_REQUEST"
)

// RemoteError is a structured rejection returned by the collaborator.
// Message is the collaborator's own text and must be surfaced verbatim.
type RemoteError struct {
	Code    string
	Message string
	Details string

	// Status is the collaborator's HTTP status when one exists (0 otherwise).
	Status int
}

func (e *RemoteError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("remote rejection (status %d)", e.Status)
}

// TransportError wraps err so that errors.Is(err, ErrTransport) holds while keeping the cause.
func TransportError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrTransport, err)
}
