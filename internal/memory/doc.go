// Package memory configures the Go runtime's memory limit for container
// environments and provides a pressure monitor that gates the render
// workers.
//
// # Why this exists
//
// A full-resolution camera RAW decodes into a raster of well over a
// hundred megabytes, and every filter stage touches all of it. In a
// container with a memory limit, a couple of concurrent renders can walk
// straight into an OOM kill: Go detects cgroup CPU quotas on its own,
// but it never reads the memory limit, so GOMEMLIMIT has to be set
// explicitly.
//
// # Configuring GOMEMLIMIT
//
// Call [ConfigureFromEnv] at the top of main, before anything allocates:
//
//	func main() {
//	    memory.ConfigureFromEnv()
//	    // ... rest of startup
//	}
//
// Resolution order:
//
//   - GOMEMLIMIT: if already set, it wins and nothing is changed.
//
//   - MEMORY_LIMIT: the container limit in bytes, usually injected via
//     the Kubernetes Downward API. GOMEMLIMIT is derived from it.
//
//   - MEMORY_RATIO: fraction of MEMORY_LIMIT given to the Go heap,
//     0.0 < ratio <= 1.0, default 0.85. The remainder covers everything
//     the limit does not: dcraw subprocesses holding full sensor
//     rasters, libvips pixel buffers allocated through CGO, goroutine
//     stacks, and OS caches. Run several decodes at once and 0.75 is a
//     better starting point.
//
// A Downward API stanza that wires the limit through:
//
//	resources:
//	  limits:
//	    memory: "512Mi"
//	env:
//	- name: MEMORY_LIMIT
//	  valueFrom:
//	    resourceFieldRef:
//	      resource: limits.memory
//
// GOMEMLIMIT is a soft limit: the collector works harder as the heap
// approaches it, but CGO and child processes are invisible to it, which
// is exactly what the ratio headroom is for.
//
// # Pressure monitor
//
// [Monitor] samples heap usage against the configured limit and parks
// callers while usage sits above the critical watermark:
//
//	monitor := memory.NewMonitor(memory.DefaultConfig())
//	monitor.Start()
//	defer monitor.Stop()
//
// The job coordinator consults it before each render:
//
//	coordinator.SetThrottler(monitor)
//
// Workers block in WaitIfPaused until usage falls back below the resume
// watermark or the monitor stops. Stopping the monitor releases every
// parked caller, so on shutdown it must stop before the coordinator
// drains.
//
// # References
//
//   - GC guide and GOMEMLIMIT semantics: https://go.dev/doc/gc-guide
//   - Downward API: https://kubernetes.io/docs/concepts/workloads/pods/downward-api/
package memory
