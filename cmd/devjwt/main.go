package main

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/chama-works/investments-api/internal/platform/auth/jwtverifier"
	"github.com/chama-works/investments-api/internal/platform/config"
	"github.com/chama-works/investments-api/internal/platform/logging"
)

// Tiny dev-only HS256 token issuer.
//
// It signs with the same JWT_SECRET the API verifies with, so local runs can exercise real
// bearer auth without a Supabase project.
//
//	GET /token?sub=<user id>

func main() {
	log := logging.New(config.LoggingConfig{Level: getenv("LOG_LEVEL", "info"), Format: getenv("LOG_FORMAT", "text")})

	cfg, err := config.LoadJWTConfigFromEnv()
	if err != nil {
		log.Error("invalid jwt config", "error", err)
		os.Exit(1)
	}
	port := getenv("PORT", "5556")
	ttl := getenvDuration("TTL", 30*time.Minute)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		sub := strings.TrimSpace(r.URL.Query().Get("sub"))
		if sub == "" {
			http.Error(w, "missing sub", http.StatusBadRequest)
			return
		}

		now := time.Now().UTC()
		token, err := jwtverifier.Sign(cfg, sub, now, ttl)
		if err != nil {
			log.Error("failed to mint token", "error", err)
			http.Error(w, "failed to mint token", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token": token,
			"sub":   sub,
			"iss":   cfg.Issuer,
			"aud":   cfg.Audience,
			"exp":   now.Add(ttl).Unix(),
		})
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("devjwt listening", "addr", srv.Addr, "iss", cfg.Issuer, "aud", cfg.Audience, "ttl", ttl)
	if err := srv.ListenAndServe(); err != nil {
		log.Error("devjwt exited", "error", err)
		os.Exit(1)
	}
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getenvDuration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
