package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsHandler returns the Prometheus metrics handler. It is served by
// the standalone metrics listener rather than the main router.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
