package idempotency

import (
	"context"
	"sync"
	"time"

	"github.com/chama-works/investments-api/internal/ports/out/clock"
	"github.com/chama-works/investments-api/internal/ports/out/idempotency"
)

// Store is an in-memory implementation of idempotency.Store.
// Records older than the configured TTL are treated as absent and dropped lazily.
// It is safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	m     map[idempotency.Fingerprint]idempotency.Record
	clock clock.Clock
	ttl   time.Duration
}

// NewStore returns a store whose records expire after ttl; ttl <= 0 keeps them forever.
func NewStore(clk clock.Clock, ttl time.Duration) *Store {
	return &Store{
		m:     make(map[idempotency.Fingerprint]idempotency.Record),
		clock: clk,
		ttl:   ttl,
	}
}

func (s *Store) Get(ctx context.Context, fp idempotency.Fingerprint) (idempotency.Record, bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.m[fp]
	if !ok {
		return idempotency.Record{}, false, nil
	}
	if s.expired(rec) {
		delete(s.m, fp)
		return idempotency.Record{}, false, nil
	}
	rec.Body = append([]byte(nil), rec.Body...)
	return rec, true, nil
}

func (s *Store) Put(ctx context.Context, fp idempotency.Fingerprint, rec idempotency.Record) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.CreatedAt.IsZero() && s.clock != nil {
		rec.CreatedAt = s.clock.Now()
	}
	rec.Body = append([]byte(nil), rec.Body...)
	s.m[fp] = rec
	return nil
}

func (s *Store) Reserve(ctx context.Context, fp idempotency.Fingerprint, rec idempotency.Record) (idempotency.Record, bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.m[fp]; ok && !s.expired(cur) {
		cur.Body = append([]byte(nil), cur.Body...)
		return cur, false, nil
	}
	if rec.CreatedAt.IsZero() && s.clock != nil {
		rec.CreatedAt = s.clock.Now()
	}
	rec.Body = append([]byte(nil), rec.Body...)
	s.m[fp] = rec
	return idempotency.Record{}, true, nil
}

func (s *Store) Delete(ctx context.Context, fp idempotency.Fingerprint) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, fp)
	return nil
}

func (s *Store) expired(rec idempotency.Record) bool {
	if s.ttl <= 0 || s.clock == nil {
		return false
	}
	return s.clock.Now().Sub(rec.CreatedAt) > s.ttl
}
