// Package main provides the entry point for the Raw Viewer application.
//
// Raw Viewer is a self-hosted web service that turns camera RAW files into
// browser-ready JPEGs with a two-tier pipeline: a fast synchronous preview
// for immediate display and a high-quality full-resolution render produced
// in the background.
//
// # Application Lifecycle
//
// The application follows a structured initialization sequence:
//
//  1. Memory Configuration: Sets GOMEMLIMIT from environment or container limits
//  2. Configuration Loading: Reads environment variables and validates directories
//  3. Acceleration Startup: Brings up libvips; a failure leaves the CPU path active
//  4. Component Initialization:
//     - Artifact Store: content-addressed JPEG cache on disk
//     - RAW Decoder: dcraw subprocess wrapper
//     - Processing Pipeline: decode, filter, and encode for both tiers
//     - Memory Monitor: pauses background renders under heap pressure
//     - Job Coordinator: bounded worker pool for full-resolution renders
//     - Websocket Hub: pushes terminal job states to connected clients
//     - Metrics Collector: samples cache and queue state for Prometheus
//  5. Warm Start: renders the default RAW's preview before serving traffic
//  6. HTTP Server Setup: Configures routes, middleware, and starts servers
//  7. Graceful Shutdown: Handles SIGINT/SIGTERM, stops all components cleanly
//
// # HTTP Server
//
// The application runs two HTTP servers:
//
//  1. Main Server (default port 8080):
//     - Static file serving for the viewer UI
//     - Processing API: preview generation, render status, ad-hoc re-filtering
//     - Artifact serving from the cache directory
//     - RAW source listing and hardware policy introspection
//     - Cache inspection and clearing
//     - Websocket status push
//
//  2. Metrics Server (default port 9090, optional):
//     - Prometheus metrics endpoint (/metrics)
//     - Health check endpoint (/health)
//
// # Environment Variables
//
// Configuration is primarily through environment variables:
//
//   - RAW_DIR: Directory containing RAW source files (default: /photos)
//   - CACHE_DIR: Directory for generated JPEG artifacts (default: /cache)
//   - DEFAULT_RAW: RAW file rendered at startup and used when a request names none
//   - PORT: Main HTTP server port (default: 8080)
//   - METRICS_PORT: Metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable metrics server (default: true)
//   - PIPELINE_WORKERS: Concurrent full-resolution renders (default: 2)
//   - PREVIEW_QUALITY: Preview-tier JPEG quality (default: 80)
//   - FULL_QUALITY: Full-tier JPEG quality (default: 92)
//   - EDIT_QUALITY: Re-filter JPEG quality (default: 90)
//   - RAW_DECODER: Decoder executable name (default: dcraw)
//   - LOG_LEVEL: Logging level (debug/info/warn/error)
//   - GOMEMLIMIT / MEMORY_LIMIT / MEMORY_RATIO: Heap limit configuration
//
// # Graceful Shutdown
//
// The application handles SIGINT and SIGTERM signals gracefully:
//
//  1. Stop metrics collector
//  2. Stop memory monitor (wakes workers parked on the memory gate)
//  3. Drain job coordinator (renders already queued still finish)
//  4. Stop websocket hub (clients disconnect)
//  5. Shutdown metrics server (if running)
//  6. Shutdown main HTTP server (30s timeout)
//  7. Shut down the acceleration runtime
//
// # Build Requirements
//
// The application requires CGO for libvips, and the dcraw executable must be
// on PATH at runtime:
//
//   - libvips: accelerated filter arithmetic and JPEG export
//   - dcraw: RAW decoding to TIFF
//
// # Related Packages
//
//   - [raw-viewer/internal/pipeline]: two-tier RAW processing orchestration
//   - [raw-viewer/internal/jobs]: background render coordination
//   - [raw-viewer/internal/cache]: artifact store and cache key derivation
//   - [raw-viewer/internal/handlers]: HTTP request handlers
//   - [raw-viewer/internal/hardware]: adaptive processing policy
//   - [raw-viewer/internal/startup]: configuration and initialization
package main
