package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/chama-works/investments-api/internal/domain"
	"github.com/chama-works/investments-api/internal/ports/out/investrepo"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Config{URL: srv.URL + "/", AnonKey: "anon-key"})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	return c
}

func TestRPC_PostsWrappedArgsWithCallerToken(t *testing.T) {
	t.Parallel()

	type seen struct {
		path, apiKey, auth string
		body               map[string]json.RawMessage
	}
	reqs := make(chan seen, 1)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		s := seen{path: r.URL.Path, apiKey: r.Header.Get("apikey"), auth: r.Header.Get("Authorization")}
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &s.body)
		reqs <- s
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"groupId":"g1","investmentId":"i1"}`))
	})
	repo := NewRepo(c)

	months := 12
	ctx := investrepo.WithAccessToken(context.Background(), "user-jwt")
	got, err := repo.CreateGroupInvestment(ctx, investrepo.CreateGroupInvestmentParams{
		Creator:      "u1",
		GroupName:    "Chama A",
		Type:         domain.InvestmentTypeLocked,
		Amount:       50000,
		LockedMonths: &months,
		ExternalMembers: []domain.ExternalMember{{
			Name: "Wanjiku", NationalID: "1", Phone: "+254712345678", FrontPhoto: "f", BackPhoto: "b",
		}},
	})
	if err != nil {
		t.Fatalf("CreateGroupInvestment() err=%v", err)
	}
	if got.GroupID != "g1" || got.InvestmentID != "i1" {
		t.Fatalf("got %+v, want g1/i1", got)
	}
	req := <-reqs
	if req.path != "/rest/v1/rpc/create_group_investment" {
		t.Fatalf("path=%q", req.path)
	}
	if req.apiKey != "anon-key" || req.auth != "Bearer user-jwt" {
		t.Fatalf("apikey=%q auth=%q", req.apiKey, req.auth)
	}
	if _, ok := req.body["p"]; !ok {
		t.Fatalf("expected args under \"p\", got %v", req.body)
	}
}

func TestRPC_FallsBackToAnonKeyBearer(t *testing.T) {
	t.Parallel()

	auths := make(chan string, 1)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auths <- r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"investmentId":"i9"}`))
	})
	got, err := NewRepo(c).CreateInvestment(context.Background(), investrepo.CreateInvestmentParams{Owner: "u1", Type: domain.InvestmentTypeNormal, Amount: 900})
	if err != nil || got.InvestmentID != "i9" {
		t.Fatalf("CreateInvestment()=%+v err=%v", got, err)
	}
	if got := <-auths; got != "Bearer anon-key" {
		t.Fatalf("auth=%q", got)
	}
}

func TestRPC_StructuredErrorsKeepMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
		wantMsg  string
	}{
		{
			name:     "raise with hint",
			status:   http.StatusBadRequest,
			body:     `{"code":"P0001","message":"A member with phone +254712345678 already exists in this group","details":"+254712345678","hint":"DUPLICATE_PHONE"}`,
			wantCode: investrepo.CodeDuplicatePhone,
			wantMsg:  "A member with phone +254712345678 already exists in this group",
		},
		{
			name:     "permission",
			status:   http.StatusForbidden,
			body:     `{"code":"42501","message":"Only group admins can manage members","details":null,"hint":null}`,
			wantCode: investrepo.CodePermissionDenied,
			wantMsg:  "Only group admins can manage members",
		},
		{
			name:     "gateway auth error",
			status:   http.StatusUnauthorized,
			body:     `{"error":"invalid JWT","error_description":"token expired"}`,
			wantCode: investrepo.CodePermissionDenied,
			wantMsg:  "invalid JWT",
		},
		{
			name:     "plain text 4xx",
			status:   http.StatusBadRequest,
			body:     "bad payload",
			wantCode: investrepo.CodeInvalidRequest,
			wantMsg:  "bad payload",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := NewRepo(c).AddGroupMembers(context.Background(), investrepo.AddGroupMembersParams{Caller: "u1", GroupID: "g1"})
			var re *investrepo.RemoteError
			if !errors.As(err, &re) {
				t.Fatalf("err=%v, want *RemoteError", err)
			}
			if re.Code != tt.wantCode || re.Message != tt.wantMsg || re.Status != tt.status {
				t.Fatalf("got %+v, want code=%s msg=%q status=%d", re, tt.wantCode, tt.wantMsg, tt.status)
			}
		})
	}
}

func TestRPC_UnreachableIsTransport(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := New(Config{URL: url, AnonKey: "k"})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	_, err = NewRepo(c).UpdateGroupMembers(context.Background(), investrepo.UpdateGroupMembersParams{Caller: "u1", GroupID: "g1"})
	if !errors.Is(err, investrepo.ErrTransport) {
		t.Fatalf("err=%v, want ErrTransport", err)
	}
}

func TestRPC_Unstructured5xxIsTransport(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})
	_, err := NewRepo(c).ListGroupMembers(context.Background(), investrepo.ListGroupMembersParams{Caller: "u1", GroupID: "g1"})
	if !errors.Is(err, investrepo.ErrTransport) {
		t.Fatalf("err=%v, want ErrTransport", err)
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("calls=%d, want exactly one attempt", n)
	}
}

func TestRPC_Structured5xxIsTransport(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"Database client error. Retrying the connection."}`))
	})
	_, err := NewRepo(c).CreateGroupInvestment(context.Background(), investrepo.CreateGroupInvestmentParams{
		Creator:   "u1",
		GroupName: "Chama A",
		Type:      domain.InvestmentTypeNormal,
		Amount:    1000,
	})
	if !errors.Is(err, investrepo.ErrTransport) {
		t.Fatalf("err=%v, want ErrTransport", err)
	}
	var re *investrepo.RemoteError
	if errors.As(err, &re) {
		t.Fatalf("5xx must not surface as a remote rejection: %+v", re)
	}
	if !strings.Contains(err.Error(), "Database client error") {
		t.Fatalf("cause should keep the upstream message, got %q", err.Error())
	}
}

func TestNew_RequiresURLAndKey(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{AnonKey: "k"}); err == nil {
		t.Fatalf("New(no url) err=nil")
	}
	if _, err := New(Config{URL: "https://x.supabase.co"}); err == nil {
		t.Fatalf("New(no key) err=nil")
	}
}
