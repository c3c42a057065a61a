package providers

import (
	"net/http"
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

// knownEndpoints bounds the endpoint label; any other path is reported as "other".
var knownEndpoints = map[string]bool{
	"/intel":        true,
	"/intel/import": true,
	"/types":        true,
}

// endpointLabel is "<METHOD> <path>" so methods sharing a path stay apart.
func endpointLabel(r *http.Request) string {
	path := r.URL.Path
	if !knownEndpoints[path] {
		path = "other"
	}
	return r.Method + " " + path
}

func MetricsMiddleware(metrics MetricsProviderInterface, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		duration := time.Since(start)
		endpoint := endpointLabel(r)
		metrics.IncRequestsTotal(endpoint, sw.status)
		metrics.ObserveRequestDuration(endpoint, duration)
	})
}
