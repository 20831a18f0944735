package memory

import (
	"runtime/debug"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MemoryLimitBytes != 0 {
		t.Errorf("Expected MemoryLimitBytes to be 0, got %d", cfg.MemoryLimitBytes)
	}

	if cfg.HighWaterMark != 0.7 {
		t.Errorf("Expected HighWaterMark to be 0.7, got %f", cfg.HighWaterMark)
	}

	if cfg.CriticalWaterMark != 0.85 {
		t.Errorf("Expected CriticalWaterMark to be 0.85, got %f", cfg.CriticalWaterMark)
	}

	if cfg.CheckInterval != 5*time.Second {
		t.Errorf("Expected CheckInterval to be 5s, got %v", cfg.CheckInterval)
	}
}

func TestNewMonitorAdoptsGoMemLimit(t *testing.T) {
	prev := debug.SetMemoryLimit(-1)
	defer debug.SetMemoryLimit(prev)

	const runtimeLimit = int64(256 * 1024 * 1024)
	debug.SetMemoryLimit(runtimeLimit)

	monitor := NewMonitor(DefaultConfig())
	if monitor.limit != runtimeLimit {
		t.Errorf("Expected monitor to adopt GOMEMLIMIT %d, got %d", runtimeLimit, monitor.limit)
	}
}

func TestNewMonitorExplicitLimitWins(t *testing.T) {
	prev := debug.SetMemoryLimit(-1)
	defer debug.SetMemoryLimit(prev)

	debug.SetMemoryLimit(256 * 1024 * 1024)

	cfg := DefaultConfig()
	cfg.MemoryLimitBytes = 512 * 1024 * 1024

	monitor := NewMonitor(cfg)
	if monitor.limit != cfg.MemoryLimitBytes {
		t.Errorf("Expected explicit limit %d, got %d", cfg.MemoryLimitBytes, monitor.limit)
	}
}
