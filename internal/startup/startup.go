package startup

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"raw-viewer/internal/logging"

	"github.com/gorilla/mux"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// Config holds all application configuration
type Config struct {
	RawDir          string
	CacheDir        string
	Port            string
	MetricsPort     string
	PipelineWorkers int
	PreviewQuality  int
	FullQuality     int
	EditQuality     int
	DecoderBinary   string
	LogStaticFiles  bool
	LogHealthChecks bool
	MetricsEnabled  bool

	// Warm start: when the default RAW exists, its preview is generated at
	// boot and the full-resolution render is queued
	DefaultRaw     string
	DefaultRawPath string
	WarmStart      bool
}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	rawDir := getEnv("RAW_DIR", "/photos")
	cacheDir := getEnv("CACHE_DIR", "/cache")
	defaultRaw := getEnv("DEFAULT_RAW", "")
	port := getEnv("PORT", "8080")
	metricsPort := getEnv("METRICS_PORT", "9090")
	pipelineWorkers := getEnvInt("PIPELINE_WORKERS", 2)
	previewQuality := getEnvInt("PREVIEW_QUALITY", 80)
	fullQuality := getEnvInt("FULL_QUALITY", 92)
	editQuality := getEnvInt("EDIT_QUALITY", 90)
	decoderBinary := getEnv("RAW_DECODER", "dcraw")
	logStaticFiles := getEnvBool("LOG_STATIC_FILES", false)
	logHealthChecks := getEnvBool("LOG_HEALTH_CHECKS", true)
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)

	defaultRawDisplay := defaultRaw
	if defaultRawDisplay == "" {
		defaultRawDisplay = "(none)"
	}

	logging.Info("  RAW_DIR:           %s", rawDir)
	logging.Info("  CACHE_DIR:         %s", cacheDir)
	logging.Info("  DEFAULT_RAW:       %s", defaultRawDisplay)
	logging.Info("  PORT:              %s", port)
	logging.Info("  METRICS_PORT:      %s", metricsPort)
	logging.Info("  METRICS_ENABLED:   %v", metricsEnabled)
	logging.Info("  PIPELINE_WORKERS:  %d", pipelineWorkers)
	logging.Info("  PREVIEW_QUALITY:   %d", previewQuality)
	logging.Info("  FULL_QUALITY:      %d", fullQuality)
	logging.Info("  EDIT_QUALITY:      %d", editQuality)
	logging.Info("  RAW_DECODER:       %s", decoderBinary)
	logging.Info("  LOG_STATIC_FILES:  %v", logStaticFiles)
	logging.Info("  LOG_HEALTH_CHECKS: %v", logHealthChecks)
	logging.Info("  LOG_LEVEL:         %s", logging.GetLevel())

	if pipelineWorkers < 1 {
		logging.Warn("  Invalid PIPELINE_WORKERS, using default: 2")
		pipelineWorkers = 2
	}
	previewQuality = validQuality("PREVIEW_QUALITY", previewQuality, 80)
	fullQuality = validQuality("FULL_QUALITY", fullQuality, 92)
	editQuality = validQuality("EDIT_QUALITY", editQuality, 90)

	// Resolve paths
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	rawDir, err := filepath.Abs(rawDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve RAW directory path: %w", err)
	}
	logging.Info("  RAW directory (absolute):   %s", rawDir)

	cacheDir, err = filepath.Abs(cacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache directory path: %w", err)
	}
	logging.Info("  Cache directory (absolute): %s", cacheDir)

	// Check/create RAW directory (warning only; the mount may appear later)
	if err := ensureDirectory(rawDir, "raw"); err != nil {
		logging.Warn("  RAW directory issue: %v", err)
	}

	config := &Config{
		RawDir:          rawDir,
		CacheDir:        cacheDir,
		Port:            port,
		MetricsPort:     metricsPort,
		PipelineWorkers: pipelineWorkers,
		PreviewQuality:  previewQuality,
		FullQuality:     fullQuality,
		EditQuality:     editQuality,
		DecoderBinary:   decoderBinary,
		LogStaticFiles:  logStaticFiles,
		LogHealthChecks: logHealthChecks,
		MetricsEnabled:  metricsEnabled,
		DefaultRaw:      defaultRaw,
	}

	// Cache directory must exist and be writable; every artifact lands there
	if err := ensureDirectory(cacheDir, "cache"); err != nil {
		return nil, fmt.Errorf("cache directory error: %w", err)
	}

	logging.Debug("  Testing cache directory write access...")
	if err := testWriteAccess(cacheDir); err != nil {
		return nil, fmt.Errorf("cache directory is not writable (required for artifacts): %w", err)
	}
	logging.Info("  [OK] Cache directory is writable")

	// Resolve the warm start source if configured
	if defaultRaw != "" {
		path := defaultRaw
		if !filepath.IsAbs(path) {
			path = filepath.Join(rawDir, path)
		}
		config.DefaultRawPath = path

		if info, err := os.Stat(path); err != nil {
			logging.Warn("  Default RAW not found: %s (warm start disabled)", path)
		} else if info.IsDir() {
			logging.Warn("  Default RAW is a directory: %s (warm start disabled)", path)
		} else {
			config.WarmStart = true
			logging.Info("  [OK] Default RAW present: %s", path)
		}
	}

	// Summary
	logging.Info("")
	logging.Info("  Feature availability:")
	logging.Info("    Cache:      ENABLED (required)")
	logging.Info("    Metrics:    %s", enabledString(config.MetricsEnabled))
	logging.Info("    Warm start: %s", enabledString(config.WarmStart))

	return config, nil
}

func validQuality(key string, value, defaultValue int) int {
	if value < 1 || value > 100 {
		logging.Warn("  Invalid %s (must be 1-100), using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

// LogCacheReady logs cache store initialization
func LogCacheReady(artifacts int, sizeBytes int64, duration time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("CACHE INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  [OK] Cache ready in %v: %d artifacts (%.1f MB)",
		duration, artifacts, float64(sizeBytes)/(1024*1024))
}

// LogDecoderInit logs RAW decoder initialization and checks the binary.
// Returns whether the decoder is usable.
func LogDecoderInit(binary string) bool {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("RAW DECODER")
	logging.Info("------------------------------------------------------------")

	if err := checkDecoder(binary); err != nil {
		logging.Warn("  Decoder check failed: %v", err)
		logging.Warn("  RAW processing will fail until %s is installed", binary)
		return false
	}

	logging.Info("  [OK] %s is available", binary)
	return true
}

// LogPipelineInit logs processing pipeline configuration
func LogPipelineInit(workers, queueSize int, accelerated bool) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("PIPELINE INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Background workers: %d", workers)
	logging.Info("  Queue capacity:     %d", queueSize)
	logging.Info("  Acceleration:       %s", enabledString(accelerated))
}

// LogWarmStart logs the start of default RAW processing
func LogWarmStart(name string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("WARM START")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Generating startup preview for %s...", name)
}

// LogWarmStartComplete logs a successful warm start
func LogWarmStartComplete(duration time.Duration) {
	logging.Info("  [OK] Startup preview ready in %v", duration)
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			// Route might not have methods specified (e.g., static file server)
			methods = []string{"*"}
		}

		name := route.GetName()

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   name,
			})
		}

		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs all registered HTTP routes dynamically
func LogHTTPRoutes(router *mux.Router, logStaticFiles, logHealthChecks bool) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP SERVER SETUP")
	logging.Info("------------------------------------------------------------")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}

		logging.Debug("  Registered routes (%d total):", len(routes))
		logging.Debug("")

		// Group routes by prefix for cleaner output
		groups := make(map[string][]RouteInfo)
		for _, route := range routes {
			prefix := getRouteGroup(route.Path)
			groups[prefix] = append(groups[prefix], route)
		}

		// Sort group keys
		groupKeys := make([]string, 0, len(groups))
		for k := range groups {
			groupKeys = append(groupKeys, k)
		}
		sort.Strings(groupKeys)

		// Print routes by group
		for _, group := range groupKeys {
			groupRoutes := groups[group]
			if group != "" {
				logging.Debug("  [%s]", group)
			} else {
				logging.Debug("  [root]")
			}

			for _, route := range groupRoutes {
				methodPadded := fmt.Sprintf("%-6s", route.Method)
				logging.Debug("    %s %s", methodPadded, route.Path)
			}
			logging.Debug("")
		}
	}

	logging.Info("  HTTP logging enabled")
	if logStaticFiles {
		logging.Info("    Static file logging: ON")
	} else {
		logging.Info("    Static file logging: OFF (set LOG_STATIC_FILES=true to enable)")
	}
	if logHealthChecks {
		logging.Info("    Health check logging: ON")
	} else {
		logging.Info("    Health check logging: OFF (set LOG_HEALTH_CHECKS=true to enable)")
	}
}

// getRouteGroup extracts a group name from a route path
func getRouteGroup(path string) string {
	// Remove leading slash
	path = strings.TrimPrefix(path, "/")

	// Get first segment
	parts := strings.SplitN(path, "/", 2)
	if len(parts) == 0 {
		return ""
	}

	first := parts[0]

	// Special handling for API routes
	if first == "api" && len(parts) > 1 {
		subParts := strings.SplitN(parts[1], "/", 2)
		return "api/" + subParts[0]
	}

	return first
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    Application:   http://0.0.0.0:%s", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://0.0.0.0:%s/metrics", config.MetricsPort)
	} else {
		logging.Info("    Metrics:       DISABLED")
	}
	logging.Info("")
	logging.Info("  Local access:")
	logging.Info("    Application:   http://localhost:%s", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://localhost:%s/metrics", config.MetricsPort)
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// Helper functions

func printBanner() {
	banner := `
------------------------------------------------------------
    ____                  _    ___
   / __ \____ __      __ | |  / (_)__ _      _____  ___
  / /_/ / __ '/ | /| / / | | / / / _ \ | /| / / _ \/ __|
 / _, _/ /_/ /| |/ |/ /  | |/ / /  __/ |/ |/ /  __/ |
/_/ |_|\__,_/ |__/|__/   |___/_/\___/|__/|__/\___/|_|

------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	if logging.IsDebugEnabled() {
		logging.Debug("  Goroutines:      %d", runtime.NumGoroutine())

		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}

		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")

	if name == "raw" && logging.IsDebugEnabled() {
		entries, err := os.ReadDir(path)
		if err == nil {
			fileCount := 0
			dirCount := 0
			for _, e := range entries {
				if e.IsDir() {
					dirCount++
				} else {
					fileCount++
				}
			}
			logging.Debug("    Contents: %d files, %d directories (top level)", fileCount, dirCount)
		}
	}

	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
		// Don't return error since write access was confirmed
	}
	return nil
}

// checkDecoder verifies the RAW decoder binary is on PATH and runnable.
// dcraw has no version flag; a bare invocation prints its usage banner and
// exits nonzero, which still proves the binary executes.
func checkDecoder(binary string) error {
	path, err := exec.LookPath(binary)
	if err != nil {
		return fmt.Errorf("%s not found in PATH", binary)
	}
	logging.Debug("  Decoder path: %s", path)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	output, _ := exec.CommandContext(ctx, binary).CombinedOutput()
	if line := firstLine(output); line != "" {
		logging.Debug("  Decoder banner: %s", line)
	}

	return nil
}

func firstLine(output []byte) string {
	for _, line := range strings.Split(string(output), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
