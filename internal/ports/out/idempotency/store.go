package idempotency

import (
	"context"
	"time"

	"github.com/chama-works/investments-api/internal/domain"
)

// Key is the caller-provided idempotency key (Idempotency-Key header).
type Key string

// Fingerprint identifies a request for replay purposes: key + caller + route + body hash.
// Route is the HTTP method plus the route template, e.g. "POST /groups/investments".
type Fingerprint struct {
	Key      Key
	Subject  domain.UserID
	Method   string
	Route    string
	BodyHash string
}

// Record is the stored response replayed for a duplicate submission.
type Record struct {
	StatusCode  int
	ContentType string
	Body        []byte
	CreatedAt   time.Time
}

// Store persists idempotency records so a double-submitted group creation is answered from the
// first response instead of reaching the collaborator twice.
type Store interface {
	Get(ctx context.Context, fp Fingerprint) (Record, bool, error)
	Put(ctx context.Context, fp Fingerprint, rec Record) error

	// Reserve stores rec under fp only when no live record exists, atomically. Otherwise the
	// existing record is returned with reserved=false.
	Reserve(ctx context.Context, fp Fingerprint, rec Record) (existing Record, reserved bool, err error)

	// Delete drops the record under fp; deleting a missing record is not an error.
	Delete(ctx context.Context, fp Fingerprint) error
}
