package memory

import (
	"math"
	"os"
	"runtime/debug"
	"strconv"

	"raw-viewer/internal/logging"
)

// DefaultMemoryRatio is the share of the container limit handed to the
// Go heap. The remainder stays free for dcraw subprocesses, libvips
// buffers, stacks, and OS caches, none of which GOMEMLIMIT can see.
const DefaultMemoryRatio = 0.85

// ConfigResult.Source values.
const (
	sourceGOMEMLIMIT  = "GOMEMLIMIT"
	sourceMEMORYLIMIT = "MEMORY_LIMIT"
	sourceNone        = "none"
)

// ConfigResult reports what ConfigureFromEnv decided.
type ConfigResult struct {
	// Configured is true when a heap limit is in effect.
	Configured bool

	// Source names the environment variable that supplied the limit, or
	// "none".
	Source string

	// ContainerLimit is the raw container limit in bytes, zero when the
	// limit came from GOMEMLIMIT directly or nothing was set.
	ContainerLimit int64

	// GoMemLimit is the effective heap limit in bytes.
	GoMemLimit int64

	// Ratio is the fraction of ContainerLimit applied, zero when no
	// derivation happened.
	Ratio float64
}

// ConfigureFromEnv derives GOMEMLIMIT from the container memory limit.
// It must run at the top of main, ahead of any allocation worth
// accounting for.
//
// An explicit GOMEMLIMIT wins outright. Otherwise MEMORY_LIMIT (bytes,
// typically injected through the Downward API) is scaled by
// MEMORY_RATIO and applied. With neither set, the heap stays unlimited
// and the pressure monitor will report itself inert.
func ConfigureFromEnv() ConfigResult {
	if raw := os.Getenv("GOMEMLIMIT"); raw != "" {
		// The runtime already parsed and applied it; read it back for the
		// report.
		result := ConfigResult{Source: sourceGOMEMLIMIT}
		if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < math.MaxInt64 {
			result.Configured = true
			result.GoMemLimit = limit
		}
		logging.Info("GOMEMLIMIT set via environment: %s", raw)
		return result
	}

	raw := os.Getenv("MEMORY_LIMIT")
	if raw == "" {
		logging.Debug("MEMORY_LIMIT not set, leaving the heap unlimited")
		return ConfigResult{Source: sourceNone}
	}

	containerLimit, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || containerLimit <= 0 {
		logging.Warn("Ignoring invalid MEMORY_LIMIT %q", raw)
		return ConfigResult{Source: sourceNone}
	}

	ratio := ratioFromEnv()
	heapLimit := int64(float64(containerLimit) * ratio)
	debug.SetMemoryLimit(heapLimit)

	logging.Info("Configured GOMEMLIMIT: %s (%.0f%% of the %s container limit)",
		formatBytes(heapLimit), ratio*100, formatBytes(containerLimit))

	return ConfigResult{
		Configured:     true,
		Source:         sourceMEMORYLIMIT,
		ContainerLimit: containerLimit,
		GoMemLimit:     heapLimit,
		Ratio:          ratio,
	}
}

// ratioFromEnv reads MEMORY_RATIO, falling back to the default for
// missing, unparseable, or out-of-range values.
func ratioFromEnv() float64 {
	raw := os.Getenv("MEMORY_RATIO")
	if raw == "" {
		return DefaultMemoryRatio
	}
	ratio, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		logging.Warn("Cannot parse MEMORY_RATIO %q: %v, using %.2f", raw, err, DefaultMemoryRatio)
		return DefaultMemoryRatio
	}
	if ratio <= 0 || ratio > 1 {
		logging.Warn("MEMORY_RATIO %q outside (0, 1], using %.2f", raw, DefaultMemoryRatio)
		return DefaultMemoryRatio
	}
	return ratio
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return strconv.FormatInt(b, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return strconv.FormatFloat(float64(b)/float64(div), 'f', 1, 64) + " " + string("KMGTPE"[exp]) + "iB"
}
