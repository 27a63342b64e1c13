package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestAsPgError_UnwrapsWrappedErrors(t *testing.T) {
	t.Parallel()

	pe := &pgconn.PgError{Code: UniqueViolationCode, ConstraintName: "group_members_phone_unique"}
	got, ok := AsPgError(fmt.Errorf("insert member: %w", pe))
	if !ok || got.Code != "23505" || got.ConstraintName != "group_members_phone_unique" {
		t.Fatalf("AsPgError()=%v,%v", got, ok)
	}

	if _, ok := AsPgError(errors.New("connection reset by peer")); ok {
		t.Fatalf("AsPgError(plain) ok=true, want false")
	}
}

func TestNewPool_RejectsEmptyDSN(t *testing.T) {
	t.Parallel()

	if _, err := NewPool(context.Background(), "", DefaultPoolOptions()); err == nil {
		t.Fatalf("NewPool(\"\") err=nil, want error")
	}
	if _, err := NewPool(context.Background(), "postgres://%zz", DefaultPoolOptions()); err == nil {
		t.Fatalf("NewPool(bad dsn) err=nil, want error")
	}
}
