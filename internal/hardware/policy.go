package hardware

import (
	"raw-viewer/internal/accel"
)

// PreviewMaxDim bounds the longest edge of preview-tier output. It is
// deliberately fixed: previews must be cheap on any hardware.
const PreviewMaxDim = 1024

const (
	// Charge at or below this halves the advisory worker count.
	lowBatteryWorkers = 20
	// Charge at or below this reduces full-tier encode quality.
	lowBatteryEncode = 15
	// Quality never drops below this floor.
	minEncodeQuality  = 85
	encodeQualityDrop = 6
)

// Policy is the advisory processing posture derived from machine state at
// one point in time. Callers recompute it at each decision point instead
// of caching it, so battery drain and acceleration failures are picked up
// between requests.
type Policy struct {
	CPUCount       int  `json:"cpu_count"`
	BatteryPercent int  `json:"battery_percent"`
	BatteryKnown   bool `json:"battery_known"`
	Accelerated    bool `json:"accelerated"`
	Workers        int  `json:"workers"`
	PreviewMaxDim  int  `json:"preview_max_dim"`
}

// computePolicy derives the policy from already-sampled inputs.
//
// The worker ladder: 8 or more CPUs advise min(6, cpu-1) workers, 4 to 7
// CPUs advise cpu-1, fewer advise 1. At or below 20% battery the advice
// halves (integer floor) but never below 1.
func computePolicy(cpu, batteryPct int, batteryKnown, accelerated bool) Policy {
	workers := 1
	switch {
	case cpu >= 8:
		workers = cpu - 1
		if workers > 6 {
			workers = 6
		}
	case cpu >= 4:
		workers = cpu - 1
	}

	if batteryKnown && batteryPct <= lowBatteryWorkers {
		workers /= 2
		if workers < 1 {
			workers = 1
		}
	}

	return Policy{
		CPUCount:       cpu,
		BatteryPercent: batteryPct,
		BatteryKnown:   batteryKnown,
		Accelerated:    accelerated,
		Workers:        workers,
		PreviewMaxDim:  PreviewMaxDim,
	}
}

// Compute samples the machine and derives the current policy. Accelerated
// is true only when the acceleration runtime is both present and
// successfully enabled.
func Compute() Policy {
	pct, known := BatteryPercent()
	return computePolicy(CPUCount(), pct, known, accel.Available())
}

// EncodeQuality returns the JPEG quality for a full-tier encode given the
// requested quality. On low battery the quality drops one notch, clamped
// to a floor that keeps output usable. Other tiers pass their quality
// through untouched; only full-resolution encodes are expensive enough to
// matter.
func (p Policy) EncodeQuality(requested int) int {
	if p.BatteryKnown && p.BatteryPercent <= lowBatteryEncode {
		q := requested - encodeQualityDrop
		if q < minEncodeQuality {
			q = minEncodeQuality
		}
		return q
	}
	return requested
}
