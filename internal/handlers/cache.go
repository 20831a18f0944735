package handlers

import (
	"net/http"

	"raw-viewer/internal/logging"
	"raw-viewer/internal/metrics"
)

// GetCacheInfo reports the artifact count and total bytes in the cache.
// GET /api/cache
func (h *Handlers) GetCacheInfo(w http.ResponseWriter, _ *http.Request) {
	count, size, err := h.store.Stats()
	if err != nil {
		logging.Error("Failed to read cache stats: %v", err)
		http.Error(w, "Failed to read cache", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]interface{}{
		"artifacts": count,
		"sizeBytes": size,
	})
}

// ClearCache handles clearing the artifact cache. Nothing calls this
// implicitly; it backs the explicit maintenance endpoint only.
// DELETE /api/cache
func (h *Handlers) ClearCache(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	removed, err := h.store.Clear()
	if err != nil {
		logging.Error("Failed to clear cache: %v", err)
		http.Error(w, "Failed to clear cache", http.StatusInternalServerError)
		return
	}

	metrics.CacheClearsTotal.Inc()
	metrics.CacheArtifactsRemoved.Add(float64(removed))
	logging.Info("Cache cleared, removed %d artifacts", removed)

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]interface{}{
		"success": true,
		"removed": removed,
	})
}
