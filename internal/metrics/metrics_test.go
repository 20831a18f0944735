package metrics

import (
	"testing"
)

func TestHTTPMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"HTTPRequestsTotal", HTTPRequestsTotal},
		{"HTTPRequestDuration", HTTPRequestDuration},
		{"HTTPRequestsInFlight", HTTPRequestsInFlight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestPipelineMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"PipelineGenerationsTotal", PipelineGenerationsTotal},
		{"PipelineGenerationDuration", PipelineGenerationDuration},
		{"PipelineCacheHits", PipelineCacheHits},
		{"PipelineCacheMisses", PipelineCacheMisses},
		{"PipelineDecodeFallbacks", PipelineDecodeFallbacks},
		{"EditsTotal", EditsTotal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestCacheMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"CacheArtifactCount", CacheArtifactCount},
		{"CacheSizeBytes", CacheSizeBytes},
		{"CacheClearsTotal", CacheClearsTotal},
		{"CacheArtifactsRemoved", CacheArtifactsRemoved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestJobMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"JobsSubmittedTotal", JobsSubmittedTotal},
		{"JobsRejectedTotal", JobsRejectedTotal},
		{"JobsCompletedTotal", JobsCompletedTotal},
		{"JobsInFlight", JobsInFlight},
		{"JobQueueDepth", JobQueueDepth},
		{"JobDuration", JobDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestPolicyMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"PolicyWorkers", PolicyWorkers},
		{"PolicyBatteryPercent", PolicyBatteryPercent},
		{"PolicyAccelerated", PolicyAccelerated},
		{"DecoderAvailable", DecoderAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestMemoryMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"MemoryUsageRatio", MemoryUsageRatio},
		{"MemoryPaused", MemoryPaused},
		{"MemoryGCPauses", MemoryGCPauses},
		{"GoMemLimit", GoMemLimit},
		{"GoMemAllocBytes", GoMemAllocBytes},
		{"GoMemSysBytes", GoMemSysBytes},
		{"GoGCRuns", GoGCRuns},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestHTTPMetricTypes(t *testing.T) {
	t.Run("HTTPRequestsTotal is CounterVec", func(_ *testing.T) {
		// Try to increment it with labels to verify it's a CounterVec
		HTTPRequestsTotal.WithLabelValues("GET", "/test", "200").Add(0)
	})

	t.Run("HTTPRequestDuration is HistogramVec", func(_ *testing.T) {
		// Try to observe with labels to verify it's a HistogramVec
		HTTPRequestDuration.WithLabelValues("GET", "/test").Observe(0.1)
	})

	t.Run("HTTPRequestsInFlight is Gauge", func(_ *testing.T) {
		// Try to set it to verify it's a Gauge
		HTTPRequestsInFlight.Set(0)
	})
}

func TestPipelineMetricOperations(t *testing.T) {
	t.Run("PipelineGenerationsTotal with labels", func(_ *testing.T) {
		// Should not panic
		PipelineGenerationsTotal.WithLabelValues("preview", "success").Add(0)
		PipelineGenerationsTotal.WithLabelValues("full", "error").Add(0)
	})

	t.Run("PipelineGenerationDuration observe", func(_ *testing.T) {
		// Should not panic
		PipelineGenerationDuration.WithLabelValues("preview").Observe(0.3)
		PipelineGenerationDuration.WithLabelValues("full").Observe(12.0)
	})

	t.Run("PipelineCacheHits increment", func(_ *testing.T) {
		// Should not panic
		PipelineCacheHits.WithLabelValues("preview").Add(0)
		PipelineCacheMisses.WithLabelValues("full").Add(0)
	})

	t.Run("PipelineDecodeFallbacks increment", func(_ *testing.T) {
		// Should not panic
		PipelineDecodeFallbacks.WithLabelValues("preview").Add(0)
	})

	t.Run("EditsTotal increment", func(_ *testing.T) {
		// Should not panic
		EditsTotal.Add(0)
	})
}

func TestCacheMetricOperations(t *testing.T) {
	t.Run("CacheArtifactCount set", func(_ *testing.T) {
		// Should not panic
		CacheArtifactCount.Set(42)
	})

	t.Run("CacheSizeBytes set", func(_ *testing.T) {
		// Should not panic
		CacheSizeBytes.Set(1024 * 1024 * 200) // 200 MB
	})

	t.Run("CacheClearsTotal increment", func(_ *testing.T) {
		// Should not panic
		CacheClearsTotal.Add(0)
		CacheArtifactsRemoved.Add(0)
	})
}

func TestJobMetricOperations(t *testing.T) {
	t.Run("JobsSubmittedTotal increment", func(_ *testing.T) {
		// Should not panic
		JobsSubmittedTotal.Add(0)
		JobsRejectedTotal.Add(0)
	})

	t.Run("JobsCompletedTotal by outcome", func(_ *testing.T) {
		// Should not panic
		JobsCompletedTotal.WithLabelValues("succeeded").Add(0)
		JobsCompletedTotal.WithLabelValues("failed").Add(0)
	})

	t.Run("JobsInFlight toggle", func(_ *testing.T) {
		// Should not panic
		JobsInFlight.Inc()
		JobsInFlight.Dec()
	})

	t.Run("JobQueueDepth set", func(_ *testing.T) {
		// Should not panic
		JobQueueDepth.Set(5)
		JobQueueDepth.Set(0)
	})

	t.Run("JobDuration observe", func(_ *testing.T) {
		// Should not panic
		JobDuration.Observe(3.5)
		JobDuration.Observe(45.0)
	})
}

func TestPolicyMetricOperations(t *testing.T) {
	t.Run("PolicyWorkers set", func(_ *testing.T) {
		PolicyWorkers.Set(6)
	})

	t.Run("PolicyBatteryPercent set", func(_ *testing.T) {
		PolicyBatteryPercent.Set(80)
		PolicyBatteryPercent.Set(-1)
	})

	t.Run("PolicyAccelerated toggle", func(_ *testing.T) {
		PolicyAccelerated.Set(1)
		PolicyAccelerated.Set(0)
	})

	t.Run("DecoderAvailable toggle", func(_ *testing.T) {
		DecoderAvailable.Set(1)
		DecoderAvailable.Set(0)
	})
}

func TestSetPolicy(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("SetPolicy panicked: %v", r)
		}
	}()

	SetPolicy(6, 80, true, true)
	SetPolicy(1, 0, false, false)
	SetPolicy(3, 15, true, false)
}

func TestMemoryMetricOperations(t *testing.T) {
	t.Run("MemoryUsageRatio", func(_ *testing.T) {
		MemoryUsageRatio.Set(0.75)
		MemoryUsageRatio.Set(0.90)
	})

	t.Run("MemoryPaused", func(_ *testing.T) {
		MemoryPaused.Set(0)
		MemoryPaused.Set(1)
	})

	t.Run("MemoryGCPauses", func(_ *testing.T) {
		MemoryGCPauses.Inc()
		MemoryGCPauses.Add(5)
	})

	t.Run("GoMemLimit", func(_ *testing.T) {
		GoMemLimit.Set(1024 * 1024 * 1024) // 1GB
	})

	t.Run("GoMemAllocBytes", func(_ *testing.T) {
		GoMemAllocBytes.Set(100 * 1024 * 1024) // 100MB
	})

	t.Run("GoMemSysBytes", func(_ *testing.T) {
		GoMemSysBytes.Set(200 * 1024 * 1024) // 200MB
	})

	t.Run("GoGCRuns", func(_ *testing.T) {
		GoGCRuns.Add(10)
	})
}

func TestMetricLabels(t *testing.T) {
	t.Run("HTTPRequestsTotal labels", func(_ *testing.T) {
		// Test common HTTP methods and status codes
		methods := []string{"GET", "POST", "PUT", "DELETE", "PATCH"}
		statuses := []string{"200", "202", "400", "404", "500", "503"}

		for _, method := range methods {
			for _, status := range statuses {
				// Should not panic
				HTTPRequestsTotal.WithLabelValues(method, "/test", status).Add(0)
			}
		}
	})

	t.Run("PipelineGenerationsTotal labels", func(_ *testing.T) {
		tiers := []string{"preview", "full"}
		statuses := []string{"success", "error"}

		for _, tier := range tiers {
			for _, status := range statuses {
				// Should not panic
				PipelineGenerationsTotal.WithLabelValues(tier, status).Add(0)
			}
		}
	})
}

func TestPipelineDurationBuckets(_ *testing.T) {
	// Verify that the duration buckets make sense for the two tiers.
	// Expected buckets: 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60

	// We can't directly access the buckets, but we can observe values
	// and ensure they don't panic
	testDurations := []float64{
		0.05,  // Fast preview
		0.3,   // Typical preview
		2.0,   // Slow preview
		8.0,   // Typical full render
		45.0,  // Slow full render
		120.0, // Very slow (overflow bucket)
	}

	for _, duration := range testDurations {
		// Should not panic
		PipelineGenerationDuration.WithLabelValues("preview").Observe(duration)
		PipelineGenerationDuration.WithLabelValues("full").Observe(duration)
	}
}

func TestAppInfoMetric(t *testing.T) {
	if AppInfo == nil {
		t.Fatal("AppInfo metric is nil")
	}

	t.Run("SetAppInfo function", func(_ *testing.T) {
		SetAppInfo("1.0.0", "abc123", "go1.25.0")
		SetAppInfo("2.0.0", "def456", "go1.25.1")
	})
}

func TestMetricsAreRegistered(t *testing.T) {
	// Test that metrics can be used without panic. This verifies
	// they're properly registered with Prometheus.

	t.Run("Collect HTTP metrics", func(_ *testing.T) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("Collecting HTTP metrics panicked: %v", r)
			}
		}()

		HTTPRequestsTotal.WithLabelValues("GET", "/", "200").Add(1)
		HTTPRequestDuration.WithLabelValues("GET", "/").Observe(0.1)
		HTTPRequestsInFlight.Inc()
		HTTPRequestsInFlight.Dec()
	})

	t.Run("Collect pipeline metrics", func(_ *testing.T) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("Collecting pipeline metrics panicked: %v", r)
			}
		}()

		PipelineGenerationsTotal.WithLabelValues("full", "success").Add(1)
		PipelineGenerationDuration.WithLabelValues("full").Observe(6.5)
		PipelineCacheHits.WithLabelValues("preview").Inc()
		PipelineCacheMisses.WithLabelValues("preview").Inc()
	})

	t.Run("Collect job metrics", func(_ *testing.T) {
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("Collecting job metrics panicked: %v", r)
			}
		}()

		JobsSubmittedTotal.Inc()
		JobsCompletedTotal.WithLabelValues("succeeded").Inc()
		JobsInFlight.Set(2)
		JobDuration.Observe(15.0)
	})
}

func TestMetricsConcurrentAccess(t *testing.T) {
	// Test that metrics can be updated concurrently without panic
	done := make(chan bool, 10)

	for i := 0; i < 10; i++ {
		go func(id int) {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Goroutine %d panicked: %v", id, r)
				}
				done <- true
			}()

			// Update various metrics concurrently
			HTTPRequestsTotal.WithLabelValues("GET", "/test", "200").Inc()
			PipelineCacheHits.WithLabelValues("preview").Inc()
			JobsSubmittedTotal.Inc()
			EditsTotal.Inc()
		}(i)
	}

	// Wait for all goroutines
	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestInitializeMetrics(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("InitializeMetrics() panicked: %v", r)
		}
	}()

	InitializeMetrics()
}

func TestInitializeMetricsIdempotent(t *testing.T) {
	// Calling InitializeMetrics multiple times should not panic or cause
	// duplicate registration errors (WithLabelValues on existing labels is safe).
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("InitializeMetrics() panicked on second call: %v", r)
		}
	}()

	InitializeMetrics()
	InitializeMetrics()
}

func TestInitializeMetricsPrePopulatesTiers(t *testing.T) {
	InitializeMetrics()

	// After initialization, these label combos should exist and not panic
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Accessing pre-populated pipeline metrics panicked: %v", r)
		}
	}()

	for _, tier := range []string{"preview", "full"} {
		PipelineGenerationsTotal.WithLabelValues(tier, "success").Add(0)
		PipelineGenerationsTotal.WithLabelValues(tier, "error").Add(0)
		PipelineCacheHits.WithLabelValues(tier).Add(0)
		PipelineCacheMisses.WithLabelValues(tier).Add(0)
		PipelineDecodeFallbacks.WithLabelValues(tier).Add(0)
	}

	for _, status := range []string{"succeeded", "failed"} {
		JobsCompletedTotal.WithLabelValues(status).Add(0)
	}
}

func BenchmarkHTTPMetricsIncrement(b *testing.B) {
	b.Run("Counter increment", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			HTTPRequestsTotal.WithLabelValues("GET", "/api/files", "200").Inc()
		}
	})

	b.Run("Histogram observe", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			HTTPRequestDuration.WithLabelValues("GET", "/api/files").Observe(0.1)
		}
	})

	b.Run("Gauge set", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			HTTPRequestsInFlight.Set(float64(i % 100))
		}
	})
}

func BenchmarkPipelineMetrics(b *testing.B) {
	b.Run("Generation counter", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			PipelineGenerationsTotal.WithLabelValues("preview", "success").Inc()
		}
	})

	b.Run("Cache hits", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			PipelineCacheHits.WithLabelValues("preview").Inc()
		}
	})

	b.Run("Duration histogram", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			PipelineGenerationDuration.WithLabelValues("preview").Observe(0.1)
		}
	})
}
