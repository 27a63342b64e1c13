package config

import (
	"fmt"
	"os"
	"time"
)

// JWTConfig configures HS256 access-token verification. Supabase signs user tokens with the
// project's JWT secret, so verification needs no key discovery.
type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string

	ClockSkew time.Duration
}

func LoadJWTConfigFromEnv() (JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return JWTConfig{}, fmt.Errorf("missing required env var: JWT_SECRET")
	}

	cfg := JWTConfig{
		Secret:    secret,
		Issuer:    os.Getenv("JWT_ISSUER"),
		Audience:  valueOrDefault("JWT_AUDIENCE", "authenticated"),
		ClockSkew: 30 * time.Second,
	}

	if v := os.Getenv("JWT_CLOCK_SKEW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return JWTConfig{}, fmt.Errorf("JWT_CLOCK_SKEW must be a duration (e.g. 30s): %w", err)
		}
		cfg.ClockSkew = d
	}

	return cfg, nil
}
