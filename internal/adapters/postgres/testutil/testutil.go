// Package testutil opens a migrated Postgres pool for adapter tests.
package testutil

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/chama-works/investments-api/internal/adapters/postgres"
	"github.com/chama-works/investments-api/internal/adapters/postgres/migrations"
)

var migrateOnce sync.Once
var migrateErr error

// OpenMigratedPool connects to DATABASE_URL and applies migrations once per test binary.
// Tests are skipped when DATABASE_URL is unset.
func OpenMigratedPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping postgres tests")
	}

	migrateOnce.Do(func() { migrateErr = migrations.Up(dsn) })
	if migrateErr != nil {
		t.Fatalf("migrate: %v", migrateErr)
	}

	pool, err := postgres.NewPool(context.Background(), dsn, postgres.DefaultPoolOptions())
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}
