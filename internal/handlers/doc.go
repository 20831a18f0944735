// Package handlers provides HTTP request handlers for the raw viewer API.
//
// It includes handlers for:
//   - RAW processing (synchronous preview, queued full-resolution render)
//   - Processing status polling and websocket push
//   - Serving rendered artifacts from the cache
//   - Ad-hoc filtering of cached images
//   - Hardware policy introspection
//   - Cache maintenance, health checks, and version info
package handlers
