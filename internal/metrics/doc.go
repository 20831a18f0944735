// Package metrics defines the Prometheus instrumentation for the raw
// viewer. Every series carries the "raw_viewer_" prefix so the exposition
// stays distinguishable when scraped alongside other services.
//
// # Metric Categories
//
// ## HTTP Metrics
//
// Request throughput and latency, recorded by the middleware:
//   - HTTPRequestsTotal: Counter of requests by method, path, and status
//   - HTTPRequestDuration: Histogram of request latency by method and path
//   - HTTPRequestsInFlight: Gauge of requests currently being served
//
// ## Pipeline Metrics
//
// Monitor artifact generation across the two rendering tiers:
//   - PipelineGenerationsTotal: Counter by tier (preview/full) and outcome
//   - PipelineGenerationDuration: Histogram of generation time by tier
//   - PipelineCacheHits / PipelineCacheMisses: Counters by tier
//   - PipelineDecodeFallbacks: Counter of decode retries with fallback options
//   - EditsTotal: Counter of re-filter edits applied to cached artifacts
//
// ## Cache Storage Metrics
//
// Track the artifact cache on disk:
//   - CacheArtifactCount: Gauge of artifacts currently cached
//   - CacheSizeBytes: Gauge of total cached bytes
//   - CacheClearsTotal / CacheArtifactsRemoved: Counters of clear operations
//
// ## Job Metrics
//
// Monitor the background full-tier queue:
//   - JobsSubmittedTotal / JobsRejectedTotal: Counters of queue admissions
//   - JobsCompletedTotal: Counter of finished jobs by outcome
//   - JobsInFlight: Gauge of running jobs
//   - JobQueueDepth: Gauge of queued jobs
//   - JobDuration: Histogram of job duration
//
// ## Hardware Policy Metrics
//
// Expose the most recent hardware policy sample:
//   - PolicyWorkers: Gauge of the granted worker count
//   - PolicyBatteryPercent: Gauge of the battery level (-1 when unknown)
//   - PolicyAccelerated: Gauge indicating filter acceleration (1 = active)
//   - DecoderAvailable: Gauge indicating the decoder binary was found
//
// ## Memory Metrics
//
// Go heap state and the pressure monitor's view of it:
//   - GoMemLimit: Gauge of the configured GOMEMLIMIT
//   - GoMemAllocBytes: Gauge of live heap bytes
//   - GoMemSysBytes: Gauge of memory obtained from the OS
//   - GoGCRuns: Counter of completed GC cycles
//   - MemoryUsageRatio: Gauge of heap usage over the limit (0.0-1.0)
//   - MemoryPaused: Gauge set to 1 while render workers are parked
//   - MemoryGCPauses: Counter of GC runs forced under pressure
//
// ## Application Info
//
//   - AppInfo: constant gauge labeled with version, commit, and Go version
//
// # Registration and recording
//
// All collectors register against the default registry through promauto
// at package load, so any promhttp handler serves them without further
// wiring. Other packages record directly on the exported variables:
//
//	metrics.PipelineCacheHits.WithLabelValues("preview").Inc()
//	metrics.JobDuration.Observe(12.4)
//
// Call [InitializeMetrics] once at startup to pre-populate the label
// combinations, so dashboards see zeroed series instead of gaps before
// the first event.
//
// # Collector
//
// [Collector] polls a [StatsProvider] on an interval and refreshes the
// cache and queue gauges together with the Go runtime memory numbers:
//
//	collector := metrics.NewCollector(statsProvider, time.Minute)
//	collector.Start()
//	defer collector.Stop()
//
// # Prometheus Queries
//
// Starting points for dashboards:
//
// Preview cache hit rate:
//
//	rate(raw_viewer_pipeline_cache_hits_total{tier="preview"}[5m]) /
//	(rate(raw_viewer_pipeline_cache_hits_total{tier="preview"}[5m]) +
//	 rate(raw_viewer_pipeline_cache_misses_total{tier="preview"}[5m]))
//
// P95 full render time:
//
//	histogram_quantile(0.95, sum(rate(raw_viewer_pipeline_generation_duration_seconds_bucket{tier="full"}[5m])) by (le))
//
// Queue rejection rate:
//
//	rate(raw_viewer_jobs_rejected_total[5m]) / rate(raw_viewer_jobs_submitted_total[5m])
//
// HTTP error rate:
//
//	sum(rate(raw_viewer_http_requests_total{status=~"5.."}[5m])) / sum(rate(raw_viewer_http_requests_total[5m]))
package metrics
