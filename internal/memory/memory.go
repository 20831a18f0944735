package memory

import (
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"raw-viewer/internal/logging"
	"raw-viewer/internal/metrics"
)

// Config tunes the pressure monitor.
type Config struct {
	// MemoryLimitBytes caps the heap the monitor measures against. Zero
	// means inherit GOMEMLIMIT; if that is unset too, monitoring is off.
	MemoryLimitBytes int64

	// HighWaterMark is the usage ratio below which a paused monitor
	// resumes. Keeping it under the critical mark gives hysteresis, so a
	// heap hovering near the edge does not flap workers on and off.
	HighWaterMark float64

	// CriticalWaterMark is the usage ratio at which render workers are
	// parked and a GC is kicked.
	CriticalWaterMark float64

	// CheckInterval is the sampling period.
	CheckInterval time.Duration
}

// DefaultConfig pauses at 85% of the limit and resumes below 70%,
// sampling every five seconds.
func DefaultConfig() Config {
	return Config{
		HighWaterMark:     0.7,
		CriticalWaterMark: 0.85,
		CheckInterval:     5 * time.Second,
	}
}

// Monitor samples heap usage against the limit and parks callers of
// WaitIfPaused while usage sits above the critical watermark. A single
// full-resolution raster runs to hundreds of megabytes, so the job
// workers check in before every render.
type Monitor struct {
	config Config
	limit  int64

	mu         sync.RWMutex
	allocBytes uint64
	paused     bool
	resume     chan struct{}

	done     chan struct{}
	stopOnce sync.Once
}

// NewMonitor builds a monitor over the configured or inherited limit.
func NewMonitor(config Config) *Monitor {
	limit := resolveLimit(config.MemoryLimitBytes)
	return &Monitor{
		config: config,
		limit:  limit,
		resume: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// resolveLimit falls back to GOMEMLIMIT when no explicit limit is given.
// debug.SetMemoryLimit(-1) reads the current limit without changing it;
// the runtime reports math.MaxInt64 when none is set.
func resolveLimit(explicit int64) int64 {
	if explicit > 0 {
		return explicit
	}
	if inherited := debug.SetMemoryLimit(-1); inherited > 0 && inherited < 1<<62 {
		logging.Info("Memory monitor inheriting GOMEMLIMIT: %.1f MB", float64(inherited)/(1024*1024))
		return inherited
	}
	logging.Warn("Memory monitor has no limit, render backpressure disabled")
	return 0
}

// Start launches the sampling loop. Without a limit there is nothing to
// measure against and the monitor stays inert.
func (m *Monitor) Start() {
	if m.limit == 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(m.config.CheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.sample()
			case <-m.done:
				return
			}
		}
	}()
}

// Stop ends sampling and releases every caller parked in WaitIfPaused.
// It must run before the job coordinator drains, or parked workers
// never finish.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.done) })
}

// sample reads the heap, updates the gauges, and flips the paused state
// across the watermarks.
func (m *Monitor) sample() {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.allocBytes = stats.Alloc
	if m.limit <= 0 {
		return
	}

	usage := float64(stats.Alloc) / float64(m.limit)
	metrics.MemoryUsageRatio.Set(usage)

	switch {
	case !m.paused && usage >= m.config.CriticalWaterMark:
		logging.Warn("Heap at %.1f%% of limit, parking render workers", usage*100)
		m.paused = true
		metrics.MemoryPaused.Set(1)
		metrics.MemoryGCPauses.Inc()
		go runtime.GC()
	case m.paused && usage < m.config.HighWaterMark:
		logging.Info("Heap back to %.1f%% of limit, releasing render workers", usage*100)
		m.paused = false
		metrics.MemoryPaused.Set(0)
		close(m.resume)
		m.resume = make(chan struct{})
	}
}

// WaitIfPaused blocks while the monitor is paused. It returns true when
// rendering may proceed and false when the monitor stopped while
// waiting.
func (m *Monitor) WaitIfPaused() bool {
	m.mu.RLock()
	if !m.paused {
		m.mu.RUnlock()
		return true
	}
	resume := m.resume
	m.mu.RUnlock()

	select {
	case <-resume:
		return true
	case <-m.done:
		return false
	}
}

// IsPaused reports whether workers are currently parked.
func (m *Monitor) IsPaused() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.paused
}

// GetUsage returns heap usage as a fraction of the limit, zero when no
// limit is configured.
func (m *Monitor) GetUsage() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.limit <= 0 {
		return 0
	}
	return float64(m.allocBytes) / float64(m.limit)
}
