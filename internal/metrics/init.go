package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	tiers := []string{"preview", "full"}

	// --- Pipeline metrics (per tier × outcome) ---
	for _, tier := range tiers {
		PipelineGenerationsTotal.WithLabelValues(tier, "success")
		PipelineGenerationsTotal.WithLabelValues(tier, "error")
		PipelineGenerationDuration.WithLabelValues(tier)
		PipelineCacheHits.WithLabelValues(tier)
		PipelineCacheMisses.WithLabelValues(tier)
		PipelineDecodeFallbacks.WithLabelValues(tier)
	}

	// --- Job outcomes ---
	for _, status := range []string{"succeeded", "failed"} {
		JobsCompletedTotal.WithLabelValues(status)
	}
}
