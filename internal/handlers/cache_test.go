package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"raw-viewer/internal/cache"
)

// =============================================================================
// GetCacheInfo Tests
// =============================================================================

func TestGetCacheInfoEmpty(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t, "dcraw-absent")

	req := httptest.NewRequest(http.MethodGet, "/api/cache", nil)
	w := httptest.NewRecorder()
	h.GetCacheInfo(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var result struct {
		Artifacts int   `json:"artifacts"`
		SizeBytes int64 `json:"sizeBytes"`
	}
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if result.Artifacts != 0 {
		t.Errorf("Expected 0 artifacts, got %d", result.Artifacts)
	}
	if result.SizeBytes != 0 {
		t.Errorf("Expected 0 bytes, got %d", result.SizeBytes)
	}
}

func TestGetCacheInfoCountsArtifacts(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t, "dcraw-absent")

	data := jpegBytes(t)
	if _, err := h.store.Put(cache.TierPreview, "aaaa1111", data); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if _, err := h.store.Put(cache.TierFull, "aaaa1111", data); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// A foreign file in the directory is not an artifact.
	foreign := filepath.Join(h.store.Dir(), "README")
	if err := os.WriteFile(foreign, []byte("leave me alone"), 0644); err != nil {
		t.Fatalf("Failed to write foreign file: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/cache", nil)
	w := httptest.NewRecorder()
	h.GetCacheInfo(w, req)

	var result struct {
		Artifacts int   `json:"artifacts"`
		SizeBytes int64 `json:"sizeBytes"`
	}
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if result.Artifacts != 2 {
		t.Errorf("Expected 2 artifacts, got %d", result.Artifacts)
	}
	if want := int64(2 * len(data)); result.SizeBytes != want {
		t.Errorf("Expected %d bytes, got %d", want, result.SizeBytes)
	}
}

// =============================================================================
// ClearCache Tests
// =============================================================================

func TestClearCacheRejectsWrongMethod(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t, "dcraw-absent")

	req := httptest.NewRequest(http.MethodGet, "/api/cache", nil)
	w := httptest.NewRecorder()
	h.ClearCache(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", w.Code)
	}
}

func TestClearCacheRemovesArtifacts(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t, "dcraw-absent")

	data := jpegBytes(t)
	if _, err := h.store.Put(cache.TierPreview, "bbbb2222", data); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if _, err := h.store.PutEdit(data); err != nil {
		t.Fatalf("PutEdit failed: %v", err)
	}

	foreign := filepath.Join(h.store.Dir(), "README")
	if err := os.WriteFile(foreign, []byte("leave me alone"), 0644); err != nil {
		t.Fatalf("Failed to write foreign file: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/cache", nil)
	w := httptest.NewRecorder()
	h.ClearCache(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var result struct {
		Success bool `json:"success"`
		Removed int  `json:"removed"`
	}
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if !result.Success {
		t.Error("Expected success=true")
	}
	if result.Removed != 2 {
		t.Errorf("Expected 2 removed, got %d", result.Removed)
	}

	count, _, err := h.store.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected an empty cache after clearing, got %d artifacts", count)
	}

	if _, err := os.Stat(foreign); err != nil {
		t.Errorf("Foreign file should survive a clear: %v", err)
	}
}
