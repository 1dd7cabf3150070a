package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/seawatts/nugget-sub007/internal/metrics"
)

// statusWriter wraps http.ResponseWriter to capture status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// Metrics returns middleware that records Prometheus metrics.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		metrics.HTTPRequestsTotal.WithLabelValues(
			r.Method, path, strconv.Itoa(wrapped.status),
		).Inc()

		metrics.HTTPRequestDuration.WithLabelValues(
			r.Method, path,
		).Observe(duration)
	})
}

// normalizePath normalizes paths to avoid high cardinality in metrics.
func normalizePath(path string) string {
	if strings.HasPrefix(path, "/children/") {
		rest := strings.TrimPrefix(path, "/children/")
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			return "/children/:id" + normalizeChildSubpath(rest[i:])
		}
		return "/children/:id"
	}
	if strings.HasPrefix(path, "/threads/") {
		rest := strings.TrimPrefix(path, "/threads/")
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			return "/threads/:id" + rest[i:]
		}
		return "/threads/:id"
	}
	return path
}

func normalizeChildSubpath(sub string) string {
	if strings.HasPrefix(sub, "/milestones/") {
		return "/milestones/:id" + pathTail(strings.TrimPrefix(sub, "/milestones/"))
	}
	return sub
}

func pathTail(rest string) string {
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		return rest[i:]
	}
	return ""
}
