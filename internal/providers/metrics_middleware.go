package providers

import (
	"net/http"
	"strings"
	"time"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func MetricsMiddleware(metrics MetricsProviderInterface, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		duration := time.Since(start)
		endpoint := normalizeEndpoint(r.URL.Path)
		metrics.IncRequestsTotal(endpoint, sw.status)
		metrics.ObserveRequestDuration(endpoint, duration)
	})
}

// normalizeEndpoint collapses record ids out of the path so the endpoint
// label stays low-cardinality: /billing/records/abc becomes
// /billing/records/{id}.
func normalizeEndpoint(path string) string {
	const prefix = "/billing/records/"
	if rest, ok := strings.CutPrefix(path, prefix); ok {
		if rest != "" && rest != "batch" && !strings.Contains(rest, "/") {
			return prefix + "{id}"
		}
	}
	return path
}
