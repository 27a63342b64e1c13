package jwtverifier_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/chama-works/investments-api/internal/platform/auth/jwtverifier"
	"github.com/chama-works/investments-api/internal/platform/config"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func testConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:    "super-secret-jwt-token-with-at-least-32-characters",
		Issuer:    "test-iss",
		Audience:  "authenticated",
		ClockSkew: 0,
	}
}

func TestVerifier_Verify_ValidToken(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	cfg := testConfig()
	v := jwtverifier.NewWithOptions(cfg, clk)

	tok, err := jwtverifier.Sign(cfg, "user-123", clk.Now(), 5*time.Minute)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	sub, err := v.Verify(context.Background(), tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if sub != "user-123" {
		t.Fatalf("sub mismatch: got %q", sub)
	}
}

func TestVerifier_Verify_Expired(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	cfg := testConfig()
	v := jwtverifier.NewWithOptions(cfg, clk)

	tok, _ := jwtverifier.Sign(cfg, "user-123", clk.Now().Add(-10*time.Minute), 5*time.Minute)
	if _, err := v.Verify(context.Background(), tok); err == nil {
		t.Fatalf("expected error")
	}
}

func TestVerifier_Verify_ClockSkewTolerated(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	cfg := testConfig()
	cfg.ClockSkew = time.Minute
	v := jwtverifier.NewWithOptions(cfg, clk)

	tok, _ := jwtverifier.Sign(cfg, "user-123", clk.Now().Add(-5*time.Minute-30*time.Second), 5*time.Minute)
	if _, err := v.Verify(context.Background(), tok); err != nil {
		t.Fatalf("expected token within skew to verify, got %v", err)
	}
}

func TestVerifier_Verify_WrongIssuerOrAudience(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	cfg := testConfig()
	v := jwtverifier.NewWithOptions(cfg, clk)

	wrongIss := cfg
	wrongIss.Issuer = "wrong-iss"
	tok, _ := jwtverifier.Sign(wrongIss, "user-123", clk.Now(), 5*time.Minute)
	if _, err := v.Verify(context.Background(), tok); err == nil {
		t.Fatalf("expected error for wrong iss")
	}

	wrongAud := cfg
	wrongAud.Audience = "anon"
	tok, _ = jwtverifier.Sign(wrongAud, "user-123", clk.Now(), 5*time.Minute)
	if _, err := v.Verify(context.Background(), tok); err == nil {
		t.Fatalf("expected error for wrong aud")
	}
}

func TestVerifier_Verify_BadSignature(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	cfg := testConfig()
	v := jwtverifier.NewWithOptions(cfg, clk)

	other := cfg
	other.Secret = "a-different-secret-of-sufficient-length!!"
	tok, _ := jwtverifier.Sign(other, "user-123", clk.Now(), 5*time.Minute)
	if _, err := v.Verify(context.Background(), tok); err == nil {
		t.Fatalf("expected error for bad signature")
	}
}

func TestVerifier_Verify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	cfg := testConfig()
	v := jwtverifier.NewWithOptions(cfg, clk)

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	claims := jwt.RegisteredClaims{
		Subject:   "user-123",
		Issuer:    cfg.Issuer,
		Audience:  jwt.ClaimStrings{cfg.Audience},
		ExpiresAt: jwt.NewNumericDate(clk.Now().Add(time.Minute)),
	}
	rs, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	if _, err := v.Verify(context.Background(), rs); err == nil {
		t.Fatalf("expected RS256 token to be rejected")
	}

	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := v.Verify(context.Background(), none); err == nil {
		t.Fatalf("expected alg=none token to be rejected")
	}
}

func TestVerifier_Verify_MissingSubjectOrExpiry(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{now: time.Unix(1700000000, 0)}
	cfg := testConfig()
	v := jwtverifier.NewWithOptions(cfg, clk)

	noSub, _ := jwtverifier.Sign(cfg, "", clk.Now(), time.Minute)
	if _, err := v.Verify(context.Background(), noSub); err == nil {
		t.Fatalf("expected error for missing sub")
	}

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:  "user-123",
		Issuer:   cfg.Issuer,
		Audience: jwt.ClaimStrings{cfg.Audience},
	}).SignedString([]byte(cfg.Secret))
	if _, err := v.Verify(context.Background(), noExp); err == nil {
		t.Fatalf("expected error for missing exp")
	}
}
