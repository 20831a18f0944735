package metrics

import (
	"runtime"
	"time"

	"raw-viewer/internal/logging"
)

// StatsProvider supplies point-in-time application statistics for the
// periodic collector.
type StatsProvider interface {
	GetStats() Stats
}

// Stats holds a snapshot of cache and queue state.
type Stats struct {
	CacheArtifacts int
	CacheSizeBytes int64
	QueueDepth     int
}

// Collector periodically samples application and Go runtime state into
// the Prometheus gauges.
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
	lastGCCount   uint32
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	c.collectRuntimeMetrics()

	if c.statsProvider == nil {
		return
	}

	stats := c.statsProvider.GetStats()

	CacheArtifactCount.Set(float64(stats.CacheArtifacts))
	CacheSizeBytes.Set(float64(stats.CacheSizeBytes))
	JobQueueDepth.Set(float64(stats.QueueDepth))

	logging.Debug("Metrics collected: artifacts=%d, cache=%d bytes, queued=%d",
		stats.CacheArtifacts, stats.CacheSizeBytes, stats.QueueDepth)
}

func (c *Collector) collectRuntimeMetrics() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	GoMemAllocBytes.Set(float64(ms.Alloc))
	GoMemSysBytes.Set(float64(ms.Sys))

	if ms.NumGC >= c.lastGCCount {
		GoGCRuns.Add(float64(ms.NumGC - c.lastGCCount))
	}
	c.lastGCCount = ms.NumGC
}
