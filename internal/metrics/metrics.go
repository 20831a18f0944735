package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "raw_viewer_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "raw_viewer_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "raw_viewer_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Pipeline metrics
var (
	PipelineGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "raw_viewer_pipeline_generations_total",
			Help: "Total number of artifact generations by tier",
		},
		[]string{"tier", "status"},
	)

	PipelineGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "raw_viewer_pipeline_generation_duration_seconds",
			Help:    "Artifact generation duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"tier"},
	)

	PipelineCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "raw_viewer_pipeline_cache_hits_total",
			Help: "Total number of artifact cache hits by tier",
		},
		[]string{"tier"},
	)

	PipelineCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "raw_viewer_pipeline_cache_misses_total",
			Help: "Total number of artifact cache misses by tier",
		},
		[]string{"tier"},
	)

	PipelineDecodeFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "raw_viewer_pipeline_decode_fallbacks_total",
			Help: "Total number of decode retries with fallback options",
		},
		[]string{"tier"},
	)

	EditsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "raw_viewer_edits_total",
			Help: "Total number of re-filter edits applied to cached artifacts",
		},
	)
)

// Cache storage metrics
var (
	CacheArtifactCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "raw_viewer_cache_artifacts",
			Help: "Number of artifacts currently in the cache",
		},
	)

	CacheSizeBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "raw_viewer_cache_size_bytes",
			Help: "Total size of cached artifacts in bytes",
		},
	)

	CacheClearsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "raw_viewer_cache_clears_total",
			Help: "Total number of cache clear operations",
		},
	)

	CacheArtifactsRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "raw_viewer_cache_artifacts_removed_total",
			Help: "Total number of artifacts removed by cache clears",
		},
	)
)

// Background job metrics
var (
	JobsSubmittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "raw_viewer_jobs_submitted_total",
			Help: "Total number of full-tier jobs accepted onto the queue",
		},
	)

	JobsRejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "raw_viewer_jobs_rejected_total",
			Help: "Total number of full-tier jobs rejected because the queue was full",
		},
	)

	JobsCompletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "raw_viewer_jobs_completed_total",
			Help: "Total number of full-tier jobs finished by outcome",
		},
		[]string{"status"},
	)

	JobsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "raw_viewer_jobs_in_flight",
			Help: "Number of full-tier jobs currently running",
		},
	)

	JobQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "raw_viewer_job_queue_depth",
			Help: "Number of full-tier jobs waiting on the queue",
		},
	)

	JobDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "raw_viewer_job_duration_seconds",
			Help:    "Full-tier job duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)
)

// Hardware policy metrics
var (
	PolicyWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "raw_viewer_policy_workers",
			Help: "Worker count granted by the most recent hardware policy",
		},
	)

	PolicyBatteryPercent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "raw_viewer_policy_battery_percent",
			Help: "Battery charge percent at the most recent policy sample (-1 when unknown)",
		},
	)

	PolicyAccelerated = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "raw_viewer_policy_accelerated",
			Help: "Whether filter acceleration is active (1 = active, 0 = CPU only)",
		},
	)

	DecoderAvailable = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "raw_viewer_decoder_available",
			Help: "Whether the RAW decoder binary was found at startup (1 = found)",
		},
	)
)

// Memory metrics
var (
	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "raw_viewer_memory_usage_ratio",
			Help: "Heap usage as a fraction of the configured memory limit",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "raw_viewer_memory_paused",
			Help: "Whether background processing is paused for memory pressure (1 = paused)",
		},
	)

	MemoryGCPauses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "raw_viewer_memory_gc_pauses_total",
			Help: "Total number of forced GC runs triggered by memory pressure",
		},
	)

	GoMemLimit = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "raw_viewer_go_mem_limit_bytes",
			Help: "Configured GOMEMLIMIT in bytes (0 when unset)",
		},
	)

	GoMemAllocBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "raw_viewer_go_mem_alloc_bytes",
			Help: "Bytes of allocated heap objects",
		},
	)

	GoMemSysBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "raw_viewer_go_mem_sys_bytes",
			Help: "Bytes of memory obtained from the OS",
		},
	)

	GoGCRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "raw_viewer_go_gc_runs_total",
			Help: "Total number of completed GC cycles",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "raw_viewer_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}

// SetPolicy publishes the most recent hardware policy sample. An
// unknown battery level is exported as -1 so dashboards can tell it
// apart from an empty battery.
func SetPolicy(workers, batteryPercent int, batteryKnown, accelerated bool) {
	PolicyWorkers.Set(float64(workers))
	if batteryKnown {
		PolicyBatteryPercent.Set(float64(batteryPercent))
	} else {
		PolicyBatteryPercent.Set(-1)
	}
	if accelerated {
		PolicyAccelerated.Set(1)
	} else {
		PolicyAccelerated.Set(0)
	}
}
