package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"

	"raw-viewer/internal/filters"
	"raw-viewer/internal/logging"
	"raw-viewer/internal/pipeline"
)

// filterRequest names a cached artifact and the filter values to apply
// to it. An empty Filters map re-encodes the image unchanged.
type filterRequest struct {
	Image   string             `json:"image"`
	Filters map[string]float64 `json:"filters"`
}

// ApplyFilter re-filters an already rendered artifact and returns the
// new edit's basename. POST /api/filter
func (h *Handlers) ApplyFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	if req.Image == "" {
		writeJSONError(w, "image required", http.StatusBadRequest)
		return
	}

	// Security check
	imagePath := filepath.Join(h.store.Dir(), filepath.Base(req.Image))

	outPath, err := h.processor.ApplyToCached(imagePath, filters.Params(req.Filters))
	if err != nil {
		if errors.Is(err, pipeline.ErrSourceNotFound) {
			writeJSONError(w, "image not found", http.StatusNotFound)
			return
		}
		logging.Error("Filter apply failed for %s: %v", filepath.Base(imagePath), err)
		writeJSONError(w, "apply filter failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{"edited": filepath.Base(outPath)})
}
