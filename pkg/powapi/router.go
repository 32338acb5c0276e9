package powapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/dmitrymomot/proofengine/pkg/hexkdf"
	"github.com/dmitrymomot/proofengine/pkg/logger"
	"github.com/dmitrymomot/proofengine/pkg/pow"
)

const maxBodySize = 64 << 10

// Option configures the router.
type Option func(*api)

// WithLogger sets the request logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(a *api) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithDeriver sets the deriver behind POST /scrypt. The default is
// hexkdf.New, which refuses derivations above kdf.DefaultMaxMemory.
func WithDeriver(d *hexkdf.Deriver) Option {
	return func(a *api) {
		if d != nil {
			a.deriver = d
		}
	}
}

// WithAllowedOrigins sets the CORS origins. Defaults to "*".
func WithAllowedOrigins(origins ...string) Option {
	return func(a *api) {
		if len(origins) > 0 {
			a.origins = origins
		}
	}
}

type api struct {
	svc     *pow.Service
	deriver *hexkdf.Deriver
	logger  *slog.Logger
	origins []string
}

// Router returns the HTTP handler for svc.
func Router(svc *pow.Service, opts ...Option) http.Handler {
	a := &api{
		svc:     svc,
		deriver: hexkdf.New(),
		logger:  logger.Discard(),
		origins: []string{"*"},
	}
	for _, opt := range opts {
		opt(a)
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		a.requestLogger,
		middleware.Recoverer,
		cors.New(cors.Options{
			AllowedOrigins: a.origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
		}).Handler,
	)

	r.Post("/getChallenges", a.getChallenges)
	r.Post("/verify", a.verify)
	r.Post("/scrypt", a.scrypt)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", healthHandler(a.logger))
		r.Get("/ready", healthHandler(a.logger, a.svc.Ping))
	})

	return r
}

func (a *api) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		a.logger.InfoContext(r.Context(), "http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			logger.Duration(time.Since(start)),
		)
	})
}

// healthHandler answers liveness probes when no checks are given and
// readiness probes otherwise.
func healthHandler(log *slog.Logger, checks ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(checks) == 0 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ALIVE"))
			return
		}
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed", logger.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("NOT_READY"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	}
}
