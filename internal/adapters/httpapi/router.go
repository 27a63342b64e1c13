package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterOptions struct {
	// AuthMiddleware guards every API route. /healthz and /metrics stay public.
	AuthMiddleware func(http.Handler) http.Handler
	// RateLimiter applies to mutating routes only. Nil disables limiting.
	RateLimiter *RateLimiter
	// Metrics enables request instrumentation; MetricsHandler, when set, is mounted at /metrics.
	Metrics        RequestMetrics
	MetricsHandler http.Handler
	Logger         *slog.Logger
}

// NewRouter constructs the API router with no auth. Tests and local tooling use it; cmd/api
// always goes through NewRouterWithOptions.
func NewRouter(s *Server) http.Handler {
	return NewRouterWithOptions(s, RouterOptions{})
}

func NewRouterWithOptions(s *Server, opts RouterOptions) http.Handler {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	if opts.Metrics != nil {
		r.Use(requestMetrics(opts.Metrics))
	}
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}

	r.Group(func(r chi.Router) {
		if opts.AuthMiddleware != nil {
			r.Use(opts.AuthMiddleware)
		}

		r.Post("/validation/amount", s.ValidateAmount)
		r.Post("/validation/duration", s.ValidateDuration)
		r.Get("/groups/{groupId}/members", s.ListMembers)

		r.Group(func(r chi.Router) {
			r.Use(opts.RateLimiter.Middleware)

			r.Post("/investments", s.CreateInvestment)
			r.Post("/groups/investments", s.CreateGroupInvestment)
			r.Post("/groups/{groupId}/members", s.AddMembers)
			r.Patch("/groups/{groupId}/members", s.UpdateMembers)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})
	return r
}
