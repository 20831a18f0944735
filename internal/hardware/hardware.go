package hardware

import (
	"runtime"

	"github.com/distatus/battery"

	"raw-viewer/internal/logging"
)

// CPUCount returns the number of CPUs available to the process. It reads
// GOMAXPROCS rather than NumCPU so container CPU limits are respected
// (Go sets GOMAXPROCS from the cgroup quota since 1.19).
func CPUCount() int {
	return runtime.GOMAXPROCS(0)
}

// BatteryPercent samples the battery charge as a percentage. ok is false
// when no battery is present or the platform reports nothing usable;
// callers treat that as running on mains power.
func BatteryPercent() (percent int, ok bool) {
	batteries, err := battery.GetAll()
	if len(batteries) == 0 {
		if err != nil {
			logging.Debug("battery query failed: %v", err)
		}
		return 0, false
	}

	bat := batteries[0]
	if bat.Full <= 0 {
		return 0, false
	}
	pct := int(bat.Current / bat.Full * 100)
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct, true
}
