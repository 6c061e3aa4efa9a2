package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iho/gobank/internal/infrastructure/metrics"
)

// Metrics returns a middleware that records HTTP metrics into m.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			m.HTTPInFlight.Inc()
			defer m.HTTPInFlight.Dec()

			wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			path := normalizePath(r.URL.Path)

			m.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
			m.HTTPDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

type metricsRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

const apiPrefix = "/api/v1/"

// normalizePath replaces the resource ID in an API path with :id so the
// label set stays bounded.
// /api/v1/accounts/01ABC123/reconciliation -> /api/v1/accounts/:id/reconciliation
func normalizePath(path string) string {
	rest, ok := strings.CutPrefix(path, apiPrefix)
	if !ok {
		return path
	}

	parts := strings.SplitN(rest, "/", 3)
	if len(parts) < 2 || parts[1] == "" {
		return path
	}

	parts[1] = ":id"
	return apiPrefix + strings.Join(parts, "/")
}
