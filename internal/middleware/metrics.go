package middleware

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"raw-viewer/internal/metrics"
)

// statusRecorder captures the status code for the request counters.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.statusCode = code
	rec.ResponseWriter.WriteHeader(code)
}

// Hijack hands the connection over for websocket upgrades.
func (rec *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rec.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("underlying ResponseWriter does not support hijacking")
	}
	conn, brw, err := h.Hijack()
	if err == nil {
		rec.statusCode = http.StatusSwitchingProtocols
	}
	return conn, brw, err
}

// MetricsConfig controls which requests are counted.
type MetricsConfig struct {
	// SkipPaths are path prefixes excluded from the request metrics.
	SkipPaths []string
}

// DefaultMetricsConfig excludes the scrape endpoint and the probes, so
// monitoring traffic does not drown the numbers for real requests.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		SkipPaths: []string{"/metrics", "/health", "/healthz", "/livez", "/readyz"},
	}
}

// Metrics records request counts, latency, and in-flight gauge for every
// non-excluded request.
func Metrics(config MetricsConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipMetrics(r.URL.Path, config) {
				next.ServeHTTP(w, r)
				return
			}

			metrics.HTTPRequestsInFlight.Inc()
			defer metrics.HTTPRequestsInFlight.Dec()

			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)

			path := normalizePath(r.URL.Path)
			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.statusCode)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

func skipMetrics(path string, config MetricsConfig) bool {
	for _, prefix := range config.SkipPaths {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// normalizePath collapses deep paths so static file names cannot blow up
// label cardinality. The API surface is two segments deep; anything past
// the third segment is folded into a {path} placeholder.
func normalizePath(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if part == "" {
			continue
		}
		if i > 3 {
			parts[i] = "{path}"
			return strings.Join(parts[:i+1], "/")
		}
	}
	return path
}
