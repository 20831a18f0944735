// Package startup owns process initialization: environment configuration,
// directory validation, the decoder availability probe, and the sectioned
// lifecycle log lines main emits from boot through shutdown.
//
// # Environment variables
//
// [LoadConfig] reads everything from the environment, logs the resolved
// configuration in sections, and fails only when the cache directory
// cannot be made writable. Recognized variables:
//
//   - RAW_DIR: directory holding camera RAW sources (default: /photos)
//   - CACHE_DIR: rendered artifact cache, must be writable (default: /cache)
//   - DEFAULT_RAW: file under RAW_DIR to render at boot; empty disables
//     the warm start
//   - PORT: HTTP listener port (default: 8080)
//   - METRICS_PORT: standalone Prometheus listener port (default: 9090)
//   - METRICS_ENABLED: serve metrics at all (default: true)
//   - PIPELINE_WORKERS: full-resolution render workers (default: 2)
//   - PREVIEW_QUALITY, FULL_QUALITY, EDIT_QUALITY: per-tier JPEG
//     qualities, 1-100 (defaults: 80, 92, 90; out-of-range values fall
//     back with a warning)
//   - RAW_DECODER: decoder executable name or path (default: dcraw)
//   - LOG_LEVEL / DEBUG: log verbosity, read by internal/logging
//   - LOG_STATIC_FILES: include static asset requests in the access log
//     (default: false)
//   - LOG_HEALTH_CHECKS: include probe requests in the access log
//     (default: true)
//   - MEMORY_LIMIT, MEMORY_RATIO, GOMEMLIMIT: heap limit inputs, read by
//     internal/memory before LoadConfig runs
//
// The cache directory is created if absent and write-tested with a probe
// file. The RAW directory is expected to be a mount; when it is missing
// the condition is logged and startup continues, since an empty viewer
// is more useful than a crash loop while a volume attaches.
//
// # Decoder probe
//
// [LogDecoderInit] resolves the decoder on PATH and runs it once with a
// short timeout. dcraw has no version flag, so a bare invocation that
// prints usage counts as present. The boolean result feeds the readiness
// endpoint and the decoder gauge; a missing decoder is logged loudly but
// does not abort startup.
//
// # Lifecycle logging
//
// main narrates the boot sequence through [LogCacheReady],
// [LogDecoderInit], [LogPipelineInit], [LogWarmStart],
// [LogWarmStartComplete], [LogHTTPRoutes], and [LogServerStarted], and
// the teardown through [LogShutdownInitiated], [LogShutdownStep],
// [LogShutdownStepComplete], and [LogShutdownComplete]. Keeping the
// formatting here means the log shape survives refactors of main.
//
// Version, Commit, and BuildTime are injected with -ldflags and exposed
// through [GetBuildInfo] for the /version endpoint:
//
//	go build -ldflags "-X raw-viewer/internal/startup.Version=1.4.0 \
//	    -X raw-viewer/internal/startup.Commit=$(git rev-parse --short HEAD)"
package startup
