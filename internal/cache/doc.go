// Package cache implements the content-addressed artifact store for
// rendered JPEGs.
//
// A cache key captures everything that determines output bytes: the
// source file's absolute path, size and modification time, plus the
// canonical form of the filter parameters. Keys are the first 16 hex
// characters of a SHA-256 over those components, and artifacts live flat
// in one directory as preview_<key>.jpg and full_<key>.jpg, with ad-hoc
// edits as edit_<random>.jpg.
//
// The design keeps no index, no locks and no eviction. Existence of the
// artifact file is the hit signal, so a restart loses nothing, and
// publication is a temp-file write followed by an atomic rename so a
// reader can never observe a partial artifact.
package cache
