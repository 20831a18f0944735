package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"raw-viewer/internal/logging"
)

// Tier selects which artifact family a key addresses.
type Tier string

const (
	// TierPreview is the fast half-resolution tier.
	TierPreview Tier = "preview"
	// TierFull is the full-resolution tier.
	TierFull Tier = "full"
)

// Store is a content-addressed artifact store over a single flat
// directory. There is no index and no metadata: a file existing under its
// derived name IS the cache hit signal, so the store stays correct across
// restarts for free. Writes publish atomically via a temp file and rename.
//
// Concurrent writers for the same key are harmless. Both render the same
// bytes and the last rename wins.
type Store struct {
	dir string
}

// NewStore creates the cache directory if needed and returns a store
// rooted there.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the cache directory.
func (s *Store) Dir() string {
	return s.dir
}

// ArtifactName returns the flat file name for a tier and key.
func ArtifactName(tier Tier, key string) string {
	return fmt.Sprintf("%s_%s.jpg", tier, key)
}

// PathFor returns the absolute path an artifact would occupy, whether or
// not it exists yet.
func (s *Store) PathFor(tier Tier, key string) string {
	return filepath.Join(s.dir, ArtifactName(tier, key))
}

// Lookup reports whether the artifact for tier and key has been published,
// returning its path on a hit.
func (s *Store) Lookup(tier Tier, key string) (string, bool) {
	path := s.PathFor(tier, key)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return path, true
}

// Put publishes an artifact for tier and key and returns its path.
// The write is atomic: readers either see the complete file or none.
func (s *Store) Put(tier Tier, key string, data []byte) (string, error) {
	path := s.PathFor(tier, key)
	if err := writeFileAtomic(s.dir, path, data); err != nil {
		return "", fmt.Errorf("storing %s: %w", ArtifactName(tier, key), err)
	}
	logging.Debug("Stored %s (%d bytes)", ArtifactName(tier, key), len(data))
	return path, nil
}

// PutEdit publishes an ad-hoc edit artifact under a random name and
// returns its path. Edits are not content-addressed: every call produces
// a fresh file.
func (s *Store) PutEdit(data []byte) (string, error) {
	id := uuid.New()
	name := fmt.Sprintf("edit_%x.jpg", id[:4])
	path := filepath.Join(s.dir, name)
	if err := writeFileAtomic(s.dir, path, data); err != nil {
		return "", fmt.Errorf("storing %s: %w", name, err)
	}
	logging.Debug("Stored %s (%d bytes)", name, len(data))
	return path, nil
}

// isArtifact reports whether a directory entry name belongs to the store:
// published artifacts plus any temp files left by interrupted writes.
func isArtifact(name string) bool {
	if strings.HasPrefix(name, ".tmp-") {
		return true
	}
	if !strings.HasSuffix(name, ".jpg") {
		return false
	}
	return strings.HasPrefix(name, "preview_") ||
		strings.HasPrefix(name, "full_") ||
		strings.HasPrefix(name, "edit_")
}

// Stats returns the artifact count and total bytes held by the store in
// a single directory scan.
func (s *Store) Stats() (int, int64, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, 0, fmt.Errorf("reading cache directory: %w", err)
	}
	count := 0
	var total int64
	for _, entry := range entries {
		if entry.IsDir() || !isArtifact(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		count++
		total += info.Size()
	}
	return count, total, nil
}

// Size returns the total bytes held by store artifacts.
func (s *Store) Size() (int64, error) {
	_, total, err := s.Stats()
	return total, err
}

// Clear removes every store artifact and returns how many files were
// deleted. Foreign files in the directory are left alone. Nothing in the
// pipeline calls this; it backs the explicit maintenance endpoint only.
func (s *Store) Clear() (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("reading cache directory: %w", err)
	}
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !isArtifact(entry.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			logging.Warn("Failed to remove cache file %s: %v", entry.Name(), err)
			continue
		}
		removed++
	}
	logging.Info("Cleared %d cache artifacts", removed)
	return removed, nil
}

// writeFileAtomic writes data to a temp file in dir and renames it over
// path. The temp file lives in the destination directory so the rename
// never crosses filesystems.
func writeFileAtomic(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		cleanup()
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publishing file: %w", err)
	}
	return nil
}
