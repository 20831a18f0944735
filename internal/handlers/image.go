package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"raw-viewer/internal/logging"
	"raw-viewer/internal/mediatypes"
)

// rawFileInfo describes one RAW file in the source directory.
type rawFileInfo struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modTime"`
}

// GetImage serves a rendered artifact from the cache directory by its
// basename. GET /api/image?f=preview_abcd1234.jpg
func (h *Handlers) GetImage(w http.ResponseWriter, r *http.Request) {
	fname := r.URL.Query().Get("f")
	if fname == "" {
		http.Error(w, "filename required", http.StatusBadRequest)
		return
	}

	// Security check
	safe := filepath.Base(fname)
	if !mediatypes.IsJPEGFile(safe) {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	path := filepath.Join(h.store.Dir(), safe)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFile(w, r, path)
}

// ListRawFiles lists the RAW files available for processing.
// GET /api/files
func (h *Handlers) ListRawFiles(w http.ResponseWriter, _ *http.Request) {
	entries, err := os.ReadDir(h.rawDir)
	if err != nil {
		logging.Error("Failed to read RAW directory %s: %v", h.rawDir, err)
		http.Error(w, "Failed to list files", http.StatusInternalServerError)
		return
	}

	files := []rawFileInfo{}
	for _, entry := range entries {
		if entry.IsDir() || !mediatypes.IsRawFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, rawFileInfo{
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, files)
}
