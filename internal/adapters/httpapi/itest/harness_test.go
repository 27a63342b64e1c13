package itest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/chama-works/investments-api/internal/adapters/httpapi"
	memclock "github.com/chama-works/investments-api/internal/adapters/memory/clock"
	memidempotency "github.com/chama-works/investments-api/internal/adapters/memory/idempotency"
	meminvestrepo "github.com/chama-works/investments-api/internal/adapters/memory/investrepo"
	pgidempotency "github.com/chama-works/investments-api/internal/adapters/postgres/idempotency"
	pginvestrepo "github.com/chama-works/investments-api/internal/adapters/postgres/investrepo"
	postgres_testutil "github.com/chama-works/investments-api/internal/adapters/postgres/testutil"
	"github.com/chama-works/investments-api/internal/adapters/supabase"
	"github.com/chama-works/investments-api/internal/app/investments"
	"github.com/chama-works/investments-api/internal/platform/auth/jwtverifier"
	"github.com/chama-works/investments-api/internal/platform/config"
	idempotencyport "github.com/chama-works/investments-api/internal/ports/out/idempotency"
	investrepoport "github.com/chama-works/investments-api/internal/ports/out/investrepo"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendPostgres backend = "postgres"
	backendSupabase backend = "supabase"
)

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "memory":
		return []backend{backendMemory}
	case "postgres":
		return []backend{backendPostgres}
	case "supabase":
		return []backend{backendSupabase}
	case "all":
		return []backend{backendMemory, backendPostgres, backendSupabase}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|postgres|supabase|all)")
		return nil
	}
}

type testServer struct {
	baseURL string
	client  *http.Client
}

func newTestServer(t *testing.T, b backend) *testServer {
	t.Helper()

	const issuer = "itest-issuer"
	clk := memclock.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	var (
		repo      investrepoport.Repository
		idemStore idempotencyport.Store
		mint      func(http.Handler) http.Handler
	)

	switch b {
	case backendPostgres:
		pool := postgres_testutil.OpenMigratedPool(t)
		repo = pginvestrepo.NewRepo(pool)
		idemStore = pgidempotency.NewStore(pool, issuer, clk, time.Hour)
	case backendSupabase:
		url, key, secret := os.Getenv("SUPABASE_URL"), os.Getenv("SUPABASE_ANON_KEY"), os.Getenv("SUPABASE_JWT_SECRET")
		if url == "" || key == "" || secret == "" {
			t.Skip("SUPABASE_URL/SUPABASE_ANON_KEY/SUPABASE_JWT_SECRET not set; skipping supabase itest")
		}
		// The procedures act as the JWT subject, so each request carries a token for its debug subject.
		mint = accessTokenMinter(t, config.JWTConfig{Secret: secret, Audience: "authenticated"})
		c, err := supabase.New(supabase.Config{URL: url, AnonKey: key, Timeout: 10 * time.Second})
		if err != nil {
			t.Fatalf("supabase.New: %v", err)
		}
		repo = supabase.NewRepo(c)
		idemStore = memidempotency.NewStore(clk, time.Hour)
	case backendMemory:
		repo = meminvestrepo.NewRepo(clk)
		idemStore = memidempotency.NewStore(clk, time.Hour)
	default:
		t.Fatalf("unknown backend: %s", b)
	}

	api := httpapi.NewServer(investments.NewService(repo), idemStore, httpapi.ServerOptions{})

	// Integration tests use the dev auth middleware to stay fully local and deterministic.
	// An empty default subject means requests MUST provide X-Debug-Subject.
	authMW := httpapi.NewDevAuthMiddleware("")
	if mint != nil {
		dev := authMW
		authMW = func(next http.Handler) http.Handler { return dev(mint(next)) }
	}
	handler := httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{AuthMiddleware: authMW})

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		baseURL: srv.URL,
		client:  srv.Client(),
	}
}

func accessTokenMinter(t *testing.T, cfg config.JWTConfig) func(http.Handler) http.Handler {
	t.Helper()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sub := r.Header.Get("X-Debug-Subject"); sub != "" {
				tok, err := jwtverifier.Sign(cfg, sub, time.Now(), time.Hour)
				if err != nil {
					t.Errorf("sign token: %v", err)
				} else {
					r = r.WithContext(investrepoport.WithAccessToken(r.Context(), tok))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *testServer) url(path string) string {
	if strings.HasPrefix(path, "/") {
		return s.baseURL + path
	}
	return s.baseURL + "/" + path
}

func (s *testServer) doJSON(t *testing.T, method string, path string, subject string, body any, hdr map[string]string) (int, []byte, http.Header) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.url(path), r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if subject != "" {
		req.Header.Set("X-Debug-Subject", subject)
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, resp.Header
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
	Code    string `json:"code"`
}

func mustUnmarshal[T any](t *testing.T, b []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, string(b))
	}
	return out
}

func requireStatus(t *testing.T, status int, body []byte, want int) {
	t.Helper()
	if status != want {
		t.Fatalf("status=%d want=%d body=%s", status, want, string(body))
	}
}

func requireErrorCode(t *testing.T, status int, body []byte, wantStatus int, wantCode string) {
	t.Helper()
	requireStatus(t, status, body, wantStatus)
	got := mustUnmarshal[errorResponse](t, body)
	if got.Code != wantCode {
		t.Fatalf("code=%q want=%q body=%s", got.Code, wantCode, string(body))
	}
}
