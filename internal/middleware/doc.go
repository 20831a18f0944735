// Package middleware provides HTTP middleware for the viewer's API and
// static surface.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Prometheus request metrics with path normalization
//   - Response compression (gzip) for text and JSON payloads
//   - Configurable filtering for static files and health checks
package middleware
