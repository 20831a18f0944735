// Package mediatypes provides shared type definitions and utilities for
// recognizing source and rendered files across the raw-viewer application.
//
// This package exists as a dependency-free foundation that can be imported by
// other packages without creating import cycles. It contains primitive types,
// constants, and pure utility functions with no external dependencies beyond
// the standard library.
//
// # File Types
//
// The package defines a FileType enum for categorizing files:
//
//	mediatypes.FileTypeRaw   // Camera RAW formats (arw, cr2, nef, dng, ...)
//	mediatypes.FileTypeJPEG  // Rendered JPEG artifacts
//	mediatypes.FileTypeOther // Unrecognized or unsupported files
//
// # Extension Detection
//
// Use IsRawFile to decide whether a directory entry is a decodable source:
//
//	if mediatypes.IsRawFile(entry.Name()) {
//	    // offer it for processing
//	}
//
// or GetFileType when the extension is already in hand:
//
//	fileType := mediatypes.GetFileType(mediatypes.Ext(filename))
//
// # MIME Types
//
// Use GetMimeType to get the appropriate MIME type for HTTP responses:
//
//	mimeType := mediatypes.GetMimeType(mediatypes.Ext(filename))
package mediatypes
