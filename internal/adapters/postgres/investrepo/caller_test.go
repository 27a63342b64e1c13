package investrepo

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/chama-works/investments-api/internal/adapters/postgres/testutil"
)

// Requests relayed by PostgREST carry request.jwt.claims; the procedures must act as that
// subject and ignore whoever the argument names.
func TestProcedures_CallerComesFromRequestClaims(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)
	ctx := context.Background()
	sub := "user-" + uuid.NewString()[:8]

	cases := []struct {
		name    string
		claims  string
		owner   string
		wantErr string
	}{
		{"spoofed owner", `{"sub":"` + sub + `","role":"authenticated"}`, "someone-else", pgerrcode.InsufficientPrivilege},
		{"anonymous request", `{"role":"anon"}`, sub, pgerrcode.InsufficientPrivilege},
		{"owner omitted", `{"sub":"` + sub + `","role":"authenticated"}`, "", ""},
		{"matching owner", `{"sub":"` + sub + `","role":"authenticated"}`, sub, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx, err := pool.Begin(ctx)
			if err != nil {
				t.Fatalf("Begin: %v", err)
			}
			defer func() { _ = tx.Rollback(ctx) }()

			if _, err := tx.Exec(ctx, "SELECT set_config('request.jwt.claims', $1, true)", tc.claims); err != nil {
				t.Fatalf("set claims: %v", err)
			}
			payload := `{"owner":"` + tc.owner + `","type":"normal","amount":1000}`
			var raw []byte
			err = tx.QueryRow(ctx, "SELECT create_investment($1::jsonb)", payload).Scan(&raw)

			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("create_investment err=%v", err)
				}
				var created struct {
					InvestmentID string `json:"investmentId"`
				}
				if err := json.Unmarshal(raw, &created); err != nil {
					t.Fatalf("decode %s: %v", raw, err)
				}
				var owner string
				if err := tx.QueryRow(ctx, "SELECT owner FROM investments WHERE id = $1::uuid", created.InvestmentID).Scan(&owner); err != nil {
					t.Fatalf("read owner: %v", err)
				}
				if owner != sub {
					t.Fatalf("owner=%q, want %q", owner, sub)
				}
				return
			}
			var pgErr *pgconn.PgError
			if !errors.As(err, &pgErr) || pgErr.Code != tc.wantErr {
				t.Fatalf("err=%v, want SQLSTATE %s", err, tc.wantErr)
			}
		})
	}
}
