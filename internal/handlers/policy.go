package handlers

import (
	"net/http"

	"raw-viewer/internal/hardware"
	"raw-viewer/internal/metrics"
)

// GetPolicy reports the processing policy derived from the hardware as
// sampled right now, not a cached snapshot. GET /api/policy
func (h *Handlers) GetPolicy(w http.ResponseWriter, _ *http.Request) {
	policy := hardware.Compute()
	metrics.SetPolicy(policy.Workers, policy.BatteryPercent, policy.BatteryKnown, policy.Accelerated)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, policy)
}
