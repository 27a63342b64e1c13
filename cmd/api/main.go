package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/chama-works/investments-api/internal/adapters/httpapi"
	memidempotency "github.com/chama-works/investments-api/internal/adapters/memory/idempotency"
	meminvestrepo "github.com/chama-works/investments-api/internal/adapters/memory/investrepo"
	postgres "github.com/chama-works/investments-api/internal/adapters/postgres"
	pgidempotency "github.com/chama-works/investments-api/internal/adapters/postgres/idempotency"
	pginvestrepo "github.com/chama-works/investments-api/internal/adapters/postgres/investrepo"
	"github.com/chama-works/investments-api/internal/adapters/postgres/migrations"
	"github.com/chama-works/investments-api/internal/adapters/supabase"
	"github.com/chama-works/investments-api/internal/app/investments"
	"github.com/chama-works/investments-api/internal/platform/auth/jwtverifier"
	platformclock "github.com/chama-works/investments-api/internal/platform/clock"
	"github.com/chama-works/investments-api/internal/platform/config"
	"github.com/chama-works/investments-api/internal/platform/logging"
	"github.com/chama-works/investments-api/internal/platform/metrics"
	idempotencyport "github.com/chama-works/investments-api/internal/ports/out/idempotency"
	investrepoport "github.com/chama-works/investments-api/internal/ports/out/investrepo"
)

const idempotencyPurgeInterval = 15 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}
	log := logging.New(cfg.Logging)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("api exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Auth configuration:
	// - Production: JWT_* env vars and bearer auth
	// - Local dev: AUTH_MODE=dev bypasses JWT verification and uses X-Debug-Subject
	var authMW func(http.Handler) http.Handler
	authIssuer := "dev"
	switch cfg.Auth.Mode {
	case config.AuthModeDev:
		log.Warn("dev auth enabled; requests are trusted via X-Debug-Subject")
		authMW = httpapi.NewDevAuthMiddleware(cfg.Auth.DevSubject)
	default:
		authMW = httpapi.NewAuthMiddleware(jwtverifier.New(cfg.Auth.JWT))
		if cfg.Auth.JWT.Issuer != "" {
			authIssuer = cfg.Auth.JWT.Issuer
		}
	}

	clk := platformclock.NewSystemClock()

	var (
		repo      investrepoport.Repository
		idemStore idempotencyport.Store
	)
	switch cfg.Storage.Backend {
	case config.StoragePostgres:
		if err := migrations.Up(cfg.Storage.DatabaseURL); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		pool, err := postgres.NewPool(ctx, cfg.Storage.DatabaseURL, postgres.DefaultPoolOptions())
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer pool.Close()

		store := pgidempotency.NewStore(pool, authIssuer, clk, cfg.Idempotency.TTL)
		go purgeIdempotencyKeys(ctx, log, store)
		repo = pginvestrepo.NewRepo(pool)
		idemStore = store
	case config.StorageSupabase:
		client, err := supabase.New(supabase.Config{
			URL:     cfg.Storage.SupabaseURL,
			AnonKey: cfg.Storage.SupabaseAnonKey,
			Timeout: cfg.Storage.SupabaseTimeout,
		})
		if err != nil {
			return fmt.Errorf("supabase: %w", err)
		}
		repo = supabase.NewRepo(client)
		idemStore = memidempotency.NewStore(clk, cfg.Idempotency.TTL)
	default:
		repo = meminvestrepo.NewRepo(clk)
		idemStore = memidempotency.NewStore(clk, cfg.Idempotency.TTL)
	}
	log.Info("storage configured", "backend", cfg.Storage.Backend)

	m := metrics.New()
	svc := investments.NewService(repo, investments.WithLogger(log), investments.WithRecorder(m))
	api := httpapi.NewServer(svc, idemStore, httpapi.ServerOptions{Logger: log, Replays: m})

	opts := httpapi.RouterOptions{
		AuthMiddleware: authMW,
		RateLimiter:    httpapi.NewRateLimiter(cfg.RateLimit, m.RateLimited),
		Logger:         log,
	}
	if cfg.HTTP.MetricsEnabled {
		opts.Metrics = m
		opts.MetricsHandler = m.Handler()
	}

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.HTTP.Port),
		Handler:           httpapi.NewRouterWithOptions(api, opts),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("api listening", "addr", srv.Addr, "auth_mode", cfg.Auth.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func purgeIdempotencyKeys(ctx context.Context, log *slog.Logger, store *pgidempotency.Store) {
	t := time.NewTicker(idempotencyPurgeInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := store.PurgeExpired(ctx)
			if err != nil {
				log.Warn("idempotency purge failed", "error", err)
				continue
			}
			if n > 0 {
				log.Debug("idempotency keys purged", "count", n)
			}
		}
	}
}
