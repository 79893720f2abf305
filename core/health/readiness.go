package health

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/adamzdara/Sample-Codes/core/logger"
)

// Check verifies one dependency.
type Check func(context.Context) error

// Readiness answers 200 "READY" when every check passes and
// 503 Service Unavailable otherwise.
//
// Example:
//
//	mux.Handle("GET /health/ready", health.Readiness(log,
//		redis.Healthcheck(redisClient),
//		pg.Healthcheck(pool),
//	))
func Readiness(log *slog.Logger, checks ...Check) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed", logger.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = io.WriteString(w, "NOT READY")
				return
			}
		}

		_, _ = io.WriteString(w, "READY")
	})
}
