package migrations

import (
	"io/fs"
	"strings"
	"testing"
)

func TestDriverURL(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"postgres://u:p@localhost:5432/db?sslmode=disable": "pgx5://u:p@localhost:5432/db?sslmode=disable",
		"postgresql://localhost/db":                        "pgx5://localhost/db",
		"pgx5://localhost/db":                              "pgx5://localhost/db",
	}
	for in, want := range cases {
		if got := driverURL(in); got != want {
			t.Fatalf("driverURL(%q)=%q, want %q", in, got, want)
		}
	}
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	t.Parallel()

	names, err := fs.Glob(files, "sql/*.sql")
	if err != nil {
		t.Fatalf("Glob err=%v", err)
	}
	ups, downs := map[string]bool{}, map[string]bool{}
	for _, n := range names {
		switch {
		case strings.HasSuffix(n, ".up.sql"):
			ups[strings.TrimSuffix(n, ".up.sql")] = true
		case strings.HasSuffix(n, ".down.sql"):
			downs[strings.TrimSuffix(n, ".down.sql")] = true
		default:
			t.Fatalf("unexpected migration file %s", n)
		}
	}
	if len(ups) == 0 {
		t.Fatalf("no migrations embedded")
	}
	for v := range ups {
		if !downs[v] {
			t.Fatalf("migration %s has no down file", v)
		}
	}
}

func TestProcedures_ResolveCallerAndRevokeAnon(t *testing.T) {
	t.Parallel()

	b, err := fs.ReadFile(files, "sql/000002_procedures.up.sql")
	if err != nil {
		t.Fatalf("ReadFile err=%v", err)
	}
	sql := string(b)

	for _, want := range []string{
		"v_creator text := request_caller(p->>'creator')",
		"v_owner text := request_caller(p->>'owner')",
		"v_caller  text := request_caller(p_caller)",
		"REVOKE EXECUTE ON FUNCTION %s FROM anon",
		"REVOKE EXECUTE ON FUNCTION %s FROM PUBLIC",
	} {
		if !strings.Contains(sql, want) {
			t.Fatalf("procedures migration missing %q", want)
		}
	}
	for _, fn := range []string{"create_group_investment", "create_investment", "add_group_members", "list_group_members", "update_group_members"} {
		if !strings.Contains(sql, "'"+fn+"(jsonb)'") {
			t.Fatalf("%s is not covered by the grant block", fn)
		}
	}
}
