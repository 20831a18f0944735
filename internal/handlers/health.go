package handlers

import (
	"net/http"
	"runtime"
	"time"

	"raw-viewer/internal/accel"
	"raw-viewer/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status      string `json:"status"`
	Ready       bool   `json:"ready"`
	Version     string `json:"version"`
	Uptime      string `json:"uptime"`
	Decoder     string `json:"decoder"`
	DecoderOk   bool   `json:"decoderOk"`
	Accelerated bool   `json:"accelerated"`

	// Pipeline info
	QueueDepth int    `json:"queueDepth"`
	JobState   string `json:"jobState,omitempty"`

	// Cache info
	CacheArtifacts int   `json:"cacheArtifacts,omitempty"`
	CacheSizeBytes int64 `json:"cacheSizeBytes,omitempty"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	_, decoderErr := h.decoder.Check()

	response := HealthResponse{
		Ready:        decoderErr == nil,
		Version:      startup.Version,
		Uptime:       time.Since(h.started).Round(time.Second).String(),
		Decoder:      h.decoder.Binary(),
		DecoderOk:    decoderErr == nil,
		Accelerated:  accel.Available(),
		QueueDepth:   h.coordinator.QueueDepth(),
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	if st, ok := h.coordinator.Status(); ok {
		response.JobState = string(st.State)
	}

	// Include cache stats if available
	if count, size, err := h.store.Stats(); err == nil {
		response.CacheArtifacts = count
		response.CacheSizeBytes = size
	}

	if response.Ready {
		response.Status = statusHealthy
	} else {
		response.Status = statusDegraded
	}

	w.Header().Set("Content-Type", "application/json")

	// Return 503 only if the decoder is missing entirely
	if !response.Ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}

	writeJSON(w, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	// For HEAD requests, only send headers (no body)
	if r.Method != http.MethodHead {
		writeJSON(w, map[string]string{
			"status": "alive",
		})
	}
}

// ReadinessCheck returns 200 only when the RAW decoder is on PATH and the
// service can do useful work
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := h.decoder.Check(); err == nil {
		w.WriteHeader(http.StatusOK)
		writeJSON(w, map[string]string{
			"status": "ready",
		})
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		writeJSON(w, map[string]string{
			"status": "not_ready",
		})
	}
}
