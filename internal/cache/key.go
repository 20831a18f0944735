package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Descriptor identifies one source file state: absolute path, size in
// bytes and modification time in whole seconds. Any change to the source
// produces a different descriptor and therefore different cache keys.
type Descriptor struct {
	Path    string
	Size    int64
	ModTime int64
}

// DescribeSource stats path and builds its Descriptor. The path is
// resolved to absolute form so the same file always hashes identically
// regardless of how it was referenced.
func DescribeSource(path string) (Descriptor, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Descriptor{}, fmt.Errorf("resolving %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Descriptor{}, fmt.Errorf("describing %s: %w", abs, err)
	}
	return Descriptor{
		Path:    abs,
		Size:    info.Size(),
		ModTime: info.ModTime().Unix(),
	}, nil
}

// Key derives the cache key for a source state and a canonical filter
// string: SHA-256 over the concatenated components, truncated to the
// first 16 hex characters. Collisions across distinct inputs are
// accepted at this length.
func Key(desc Descriptor, canonical string) string {
	h := sha256.New()
	h.Write([]byte(desc.Path))
	h.Write([]byte(strconv.FormatInt(desc.Size, 10)))
	h.Write([]byte(strconv.FormatInt(desc.ModTime, 10)))
	h.Write([]byte(canonical))
	return hex.EncodeToString(h.Sum(nil))[:16]
}
