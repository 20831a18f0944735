package mediatypes

import (
	"path/filepath"
	"strings"
)

// FileType represents the type of a source or rendered file.
type FileType string

const (
	// FileTypeRaw represents a camera RAW file.
	FileTypeRaw FileType = "raw"
	// FileTypeJPEG represents a rendered JPEG artifact.
	FileTypeJPEG FileType = "jpeg"
	// FileTypeOther represents an unknown or unsupported file type.
	FileTypeOther FileType = "other"
)

// RawExtensions maps file extensions to whether they are RAW formats the
// decoder is expected to handle.
var RawExtensions = map[string]bool{
	".arw": true,
	".cr2": true,
	".cr3": true,
	".nef": true,
	".nrw": true,
	".dng": true,
	".raf": true,
	".orf": true,
	".rw2": true,
	".pef": true,
	".srw": true,
	".erf": true,
	".kdc": true,
	".dcr": true,
	".mrw": true,
	".3fr": true,
	".iiq": true,
	".rwl": true,
	".x3f": true,
	".raw": true,
}

// JPEGExtensions maps file extensions to whether they are JPEG files.
var JPEGExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
}

// MimeTypes maps file extensions to their MIME types.
var MimeTypes = map[string]string{
	// Rendered artifacts
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",

	// RAW formats with registered or conventional names
	".arw": "image/x-sony-arw",
	".cr2": "image/x-canon-cr2",
	".cr3": "image/x-canon-cr3",
	".nef": "image/x-nikon-nef",
	".nrw": "image/x-nikon-nrw",
	".dng": "image/x-adobe-dng",
	".raf": "image/x-fuji-raf",
	".orf": "image/x-olympus-orf",
	".rw2": "image/x-panasonic-rw2",
	".pef": "image/x-pentax-pef",
	".srw": "image/x-samsung-srw",
	".x3f": "image/x-sigma-x3f",
}

// GetFileType returns the FileType for a given file extension.
// The extension should be lowercase and include the leading dot (e.g., ".arw").
// Returns FileTypeOther if the extension is not recognized.
func GetFileType(ext string) FileType {
	if RawExtensions[ext] {
		return FileTypeRaw
	}
	if JPEGExtensions[ext] {
		return FileTypeJPEG
	}
	return FileTypeOther
}

// GetMimeType returns the MIME type for a given file extension.
// The extension should be lowercase and include the leading dot.
// Returns "application/octet-stream" if the extension is not recognized.
func GetMimeType(ext string) string {
	if mime, ok := MimeTypes[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}

// Ext returns the lowercased extension of a filename, including the dot.
func Ext(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// IsRawFile returns true if the filename has a recognized RAW extension.
func IsRawFile(name string) bool {
	return RawExtensions[Ext(name)]
}

// IsJPEGFile returns true if the filename has a JPEG extension.
func IsJPEGFile(name string) bool {
	return JPEGExtensions[Ext(name)]
}
