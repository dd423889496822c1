package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/philly/snapgram/internal/adapters/metrics"
	"github.com/philly/snapgram/internal/adapters/rest"
	"github.com/philly/snapgram/internal/adapters/rest/middleware"
	"github.com/philly/snapgram/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// NewHTTPServer creates and configures the HTTP server with all routes
func NewHTTPServer(
	config Config,
	server *rest.Server,
	jwtMiddleware *middleware.JWTMiddleware,
	authAdapter *middleware.AuthAdapter,
	m *metrics.Metrics,
	log logger.Logger,
) *http.Server {
	return &http.Server{
		Addr:         config.ServerAddress,
		Handler:      NewRouter(server, rest.Auth{JWT: jwtMiddleware.Middleware, Resolve: authAdapter.Middleware}, m, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewRouter builds the chi router: shared middleware, /metrics and the API.
func NewRouter(server *rest.Server, auth rest.Auth, m *metrics.Metrics, log logger.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, Observability(m, log), chimw.Recoverer)

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	server.Mount(r, auth)
	return r
}

// Observability logs every request and records its latency under the
// matched route pattern. It must run inside the chi router so the pattern
// is known once the request is served.
func Observability(m *metrics.Metrics, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx := logger.WithAttrs(r.Context(), "request_id", chimw.GetReqID(r.Context()))
			r = r.WithContext(ctx)
			wrr := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(wrr, r)

			duration := time.Since(start)
			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := wrr.Status()
			if status == 0 {
				status = http.StatusOK
			}

			m.ObserveHTTP(r.Method, route, status, duration)
			log.Info(ctx, "HTTP request completed",
				"method", r.Method,
				"route", route,
				"path", r.URL.Path,
				"status", status,
				"duration_ms", duration.Milliseconds(),
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		})
	}
}

// provideHealthChecks pings Postgres always and Redis when configured.
func provideHealthChecks(pool *pgxpool.Pool, rdb *redis.Client) rest.HealthChecks {
	checks := rest.HealthChecks{{Name: "database", Ping: pool.Ping}}
	if rdb != nil {
		checks = append(checks, rest.HealthCheck{
			Name: "redis",
			Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}
	return checks
}

func provideVersion() rest.Version {
	return rest.Version(Version)
}

// Version is set at build time with -ldflags.
var Version = "dev"
