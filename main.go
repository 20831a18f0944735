package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"raw-viewer/internal/accel"
	"raw-viewer/internal/cache"
	"raw-viewer/internal/handlers"
	"raw-viewer/internal/hardware"
	"raw-viewer/internal/jobs"
	"raw-viewer/internal/logging"
	"raw-viewer/internal/memory"
	"raw-viewer/internal/metrics"
	"raw-viewer/internal/middleware"
	"raw-viewer/internal/pipeline"
	"raw-viewer/internal/raw"
	"raw-viewer/internal/startup"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	startTime := time.Now()

	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	// Configure GOMEMLIMIT before any significant allocation happens
	memory.ConfigureFromEnv()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Bring up the acceleration runtime; every call site has a CPU fallback
	if err := accel.Init(); err != nil {
		logging.Warn("Acceleration unavailable, filters run on CPU: %v", err)
	}

	// Initialize metrics
	metrics.InitializeMetrics()
	metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion)

	// Initialize artifact store
	cacheStart := time.Now()
	store, err := cache.NewStore(config.CacheDir)
	if err != nil {
		startup.LogFatal("Failed to initialize cache store: %v", err)
	}
	artifacts, sizeBytes, err := store.Stats()
	if err != nil {
		logging.Warn("Failed to read cache stats: %v", err)
	}
	startup.LogCacheReady(artifacts, sizeBytes, time.Since(cacheStart))

	// Initialize RAW decoder
	decoder := raw.NewDcraw(config.DecoderBinary)
	if startup.LogDecoderInit(decoder.Binary()) {
		metrics.DecoderAvailable.Set(1)
	} else {
		metrics.DecoderAvailable.Set(0)
	}

	// Initialize processing pipeline
	processor := pipeline.New(store, decoder, pipeline.Config{
		PreviewQuality: config.PreviewQuality,
		FullQuality:    config.FullQuality,
		EditQuality:    config.EditQuality,
	})

	// Memory monitor gates full renders under heap pressure
	monitor := memory.NewMonitor(memory.DefaultConfig())
	monitor.Start()

	// Websocket hub pushes terminal job states to connected clients
	hub := handlers.NewHub()
	hub.Run()

	// Job coordinator runs full-resolution renders in the background
	coordinator := jobs.New(processor, jobs.Config{Workers: config.PipelineWorkers})
	coordinator.SetThrottler(monitor)
	coordinator.SetNotify(hub.BroadcastStatus)
	coordinator.Start()
	startup.LogPipelineInit(config.PipelineWorkers, jobs.DefaultQueueSize, accel.Available())

	// Seed the policy gauges so the first scrape reflects boot state
	policy := hardware.Compute()
	metrics.SetPolicy(policy.Workers, policy.BatteryPercent, policy.BatteryKnown, policy.Accelerated)

	// Start metrics collector
	collector := metrics.NewCollector(&appStats{store: store, coordinator: coordinator}, 1*time.Minute)
	collector.Start()

	// Warm start: render the default RAW's preview before serving traffic
	if config.WarmStart {
		warmStart(config, processor, coordinator)
	}

	// Initialize handlers
	h := handlers.New(store, processor, coordinator, decoder, hub, config)

	// Setup router
	router := setupRouter(h)

	// Log routes dynamically
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	// Apply metrics middleware
	measured := middleware.Metrics(middleware.DefaultMetricsConfig())(router)

	// Apply logging middleware
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	loggedHandler := middleware.Logger(loggingConfig)(measured)

	// Apply compression middleware
	handler := middleware.Compression(middleware.DefaultCompressionConfig())(loggedHandler)

	// Create server; WriteTimeout stays 0 for websocket connections
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// Start standalone metrics server
	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsSrv = newMetricsServer(config.MetricsPort)
		go func() {
			if err := metricsSrv.ListenAndServe(); err != http.ErrServerClosed {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	// Start graceful shutdown handler
	go handleShutdown(srv, metricsSrv, coordinator, hub, monitor, collector)

	// Start server
	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

// appStats adapts the artifact store and job coordinator to the metrics
// collector's StatsProvider interface.
type appStats struct {
	store       *cache.Store
	coordinator *jobs.Coordinator
}

// GetStats implements metrics.StatsProvider
func (a *appStats) GetStats() metrics.Stats {
	count, size, err := a.store.Stats()
	if err != nil {
		logging.Debug("Cache stats unavailable: %v", err)
	}
	return metrics.Stats{
		CacheArtifacts: count,
		CacheSizeBytes: size,
		QueueDepth:     a.coordinator.QueueDepth(),
	}
}

// warmStart renders the default RAW's preview synchronously and queues its
// full-resolution render, exactly as the first process request would. A
// failure is logged and skipped; the server still comes up.
func warmStart(config *startup.Config, processor *pipeline.Processor, coordinator *jobs.Coordinator) {
	startup.LogWarmStart(config.DefaultRaw)
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	previewPath, err := processor.FastPreview(ctx, config.DefaultRawPath, nil)
	if err != nil {
		logging.Warn("Warm start preview failed: %v", err)
		return
	}
	startup.LogWarmStartComplete(time.Since(start))

	if _, err := coordinator.Submit(config.DefaultRawPath, nil, filepath.Base(previewPath)); err != nil {
		logging.Warn("Warm start full render not queued: %v", err)
	}
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	// Processing API
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/process", h.ProcessRaw).Methods("POST")
	api.HandleFunc("/status", h.GetStatus).Methods("GET")
	api.HandleFunc("/image", h.GetImage).Methods("GET")
	api.HandleFunc("/filter", h.ApplyFilter).Methods("POST")
	api.HandleFunc("/files", h.ListRawFiles).Methods("GET")
	api.HandleFunc("/policy", h.GetPolicy).Methods("GET")

	// Cache management
	api.HandleFunc("/cache", h.GetCacheInfo).Methods("GET")
	api.HandleFunc("/cache", h.ClearCache).Methods("DELETE")

	// Status push
	api.HandleFunc("/ws", h.ServeWS).Methods("GET")

	// Static files
	r.PathPrefix("/").Handler(http.FileServer(http.Dir("./static")))

	return r
}

// newMetricsServer builds the standalone metrics listener. It stays off
// the main router so scrapes skip the logging and compression stack.
func newMetricsServer(port string) *http.Server {
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", handlers.MetricsHandler())
	metricsMux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			logging.Error("Failed to write health response: %v", err)
		}
	})

	return &http.Server{
		Addr:         ":" + port,
		Handler:      metricsMux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}
}

func handleShutdown(srv, metricsSrv *http.Server, coordinator *jobs.Coordinator, hub *handlers.Hub, monitor *memory.Monitor, collector *metrics.Collector) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Stopping metrics collector")
	collector.Stop()
	startup.LogShutdownStepComplete("Metrics collector stopped")

	// The monitor stops before the coordinator so workers parked on the
	// memory gate wake up and can finish draining
	startup.LogShutdownStep("Stopping memory monitor")
	monitor.Stop()
	startup.LogShutdownStepComplete("Memory monitor stopped")

	startup.LogShutdownStep("Draining job coordinator")
	coordinator.Stop()
	startup.LogShutdownStepComplete("Job coordinator drained")

	startup.LogShutdownStep("Stopping websocket hub")
	hub.Stop()
	startup.LogShutdownStepComplete("Websocket hub stopped")

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	accel.Shutdown()

	startup.LogShutdownComplete()
}
