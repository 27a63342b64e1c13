package idempotency

import (
	"testing"

	"github.com/chama-works/investments-api/internal/adapters/contracttest"
	idempotencyport "github.com/chama-works/investments-api/internal/ports/out/idempotency"
)

func TestContract_IdempotencyStore(t *testing.T) {
	contracttest.RunIdempotencyStore(t, func(t *testing.T) (idempotencyport.Store, func()) {
		t.Helper()
		return NewStore(nil, 0), nil
	})
}
