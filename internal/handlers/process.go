package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"

	"raw-viewer/internal/filters"
	"raw-viewer/internal/jobs"
	"raw-viewer/internal/logging"
	"raw-viewer/internal/mediatypes"
	"raw-viewer/internal/pipeline"
)

// processRequest selects a RAW source and optional filter overrides.
// File is a name inside the RAW directory; an empty value falls back to
// the configured default RAW. A nil Filters map selects the per-tier
// presets.
type processRequest struct {
	File    string             `json:"file"`
	Filters map[string]float64 `json:"filters,omitempty"`
}

// processResponse carries the preview artifact that is already rendered
// and the queued record for the full-resolution job.
type processResponse struct {
	Preview string      `json:"preview"`
	Job     jobs.Status `json:"job"`
}

// statusResponse is the job record plus the readiness flag clients poll for.
type statusResponse struct {
	jobs.Status
	Done bool `json:"done"`
}

// ProcessRaw renders the preview tier synchronously and queues the
// full-resolution render. POST /api/process
func (h *Handlers) ProcessRaw(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	source := h.defaultRaw
	if req.File != "" {
		// Security check
		name := filepath.Base(req.File)
		if !mediatypes.IsRawFile(name) {
			writeJSONError(w, "not a RAW file: "+name, http.StatusBadRequest)
			return
		}
		source = filepath.Join(h.rawDir, name)
	}
	if source == "" {
		writeJSONError(w, "file required", http.StatusBadRequest)
		return
	}

	var params filters.Params
	if req.Filters != nil {
		params = filters.Params(req.Filters)
	}

	previewPath, err := h.processor.FastPreview(r.Context(), source, params)
	if err != nil {
		if errors.Is(err, pipeline.ErrSourceNotFound) {
			writeJSONError(w, "raw not found: "+filepath.Base(source), http.StatusBadRequest)
			return
		}
		logging.Error("Preview render failed for %s: %v", filepath.Base(source), err)
		writeJSONError(w, "preview failed", http.StatusInternalServerError)
		return
	}

	st, err := h.coordinator.Submit(source, params, filepath.Base(previewPath))
	if err != nil {
		writeJSONError(w, "cannot queue full render: "+err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, processResponse{
		Preview: filepath.Base(previewPath),
		Job:     st,
	})
}

// GetStatus reports the most recent job record. done flips to true once
// the full-resolution artifact is in the cache. GET /api/status
func (h *Handlers) GetStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	st, ok := h.coordinator.Status()
	if !ok {
		writeJSON(w, map[string]bool{"done": false})
		return
	}
	writeJSON(w, statusResponse{Status: st, Done: st.Done()})
}
