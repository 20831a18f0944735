package jobs

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"raw-viewer/internal/filters"
	"raw-viewer/internal/logging"
	"raw-viewer/internal/metrics"
)

// State is the lifecycle stage of a background job.
type State string

const (
	StateQueued    State = "queued"
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Status is the single retained job record. Only the most recent write
// survives: submitting a new job does not cancel a prior one, both run to
// completion, and whichever publishes last is what callers see.
type Status struct {
	ID      string    `json:"id"`
	Source  string    `json:"source"`
	State   State     `json:"state"`
	Preview string    `json:"preview,omitempty"`
	Full    string    `json:"full,omitempty"`
	Error   string    `json:"error,omitempty"`
	Queued  time.Time `json:"queued"`
}

// Done reports whether the full-resolution artifact is available.
func (s Status) Done() bool {
	return s.Full != ""
}

var (
	// ErrQueueFull is returned by Submit when the queue is at capacity.
	ErrQueueFull = errors.New("job queue full")
	// ErrStopped is returned by Submit once shutdown has begun.
	ErrStopped = errors.New("job coordinator stopped")
)

// Runner executes the full-resolution render for a submitted job.
type Runner interface {
	FullProcess(ctx context.Context, rawPath string, params filters.Params) (string, error)
}

// Throttler gates job starts while memory is under pressure.
type Throttler interface {
	WaitIfPaused() bool
}

// Config sizes the coordinator. Workers is fixed for the process lifetime
// and independent of the hardware policy's advisory worker count, which
// tunes the render internals rather than this pool.
type Config struct {
	// Workers is the number of concurrent full renders (0 = DefaultWorkers).
	Workers int
	// QueueSize is the submission buffer capacity (0 = DefaultQueueSize).
	QueueSize int
}

const (
	DefaultWorkers   = 2
	DefaultQueueSize = 64
)

// job is one accepted submission. The preview artifact name travels with
// the job so every later status record can repeat it.
type job struct {
	id      string
	source  string
	preview string
	params  filters.Params
	queued  time.Time
}

// Coordinator runs full-resolution renders on a bounded worker pool and
// publishes their progress into a single atomic status slot.
type Coordinator struct {
	runner    Runner
	throttler Throttler
	notify    func(Status)

	queue   chan job
	workers int
	wg      sync.WaitGroup

	mu      sync.RWMutex
	stopped bool

	status atomic.Pointer[Status]
}

// New creates a coordinator around the given runner. Call Start to launch
// the pool.
func New(runner Runner, cfg Config) *Coordinator {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}

	return &Coordinator{
		runner:  runner,
		queue:   make(chan job, cfg.QueueSize),
		workers: cfg.Workers,
	}
}

// SetThrottler installs a memory gate consulted before each job starts.
// Must be called before Start.
func (c *Coordinator) SetThrottler(t Throttler) {
	c.throttler = t
}

// SetNotify installs a callback invoked with each terminal status record.
// Must be called before Start.
func (c *Coordinator) SetNotify(fn func(Status)) {
	c.notify = fn
}

// Start launches the worker pool.
func (c *Coordinator) Start() {
	logging.Info("Job coordinator started: %d workers, queue capacity %d", c.workers, cap(c.queue))
	for i := 0; i < c.workers; i++ {
		c.wg.Add(1)
		go c.worker(i)
	}
}

// Stop rejects further submissions, drains jobs already queued, and waits
// for the workers to finish.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	close(c.queue)
	c.mu.Unlock()

	c.wg.Wait()
	logging.Info("Job coordinator stopped")
}

// Submit queues a full-resolution render and publishes its QUEUED record.
// previewName is the already-generated preview artifact for the same
// source and parameters. Submit never blocks: a full queue returns
// ErrQueueFull immediately and the caller decides whether to retry.
func (c *Coordinator) Submit(source string, params filters.Params, previewName string) (Status, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.stopped {
		return Status{}, ErrStopped
	}

	j := job{
		id:      uuid.New().String(),
		source:  source,
		preview: previewName,
		params:  params,
		queued:  time.Now(),
	}

	select {
	case c.queue <- j:
	default:
		metrics.JobsRejectedTotal.Inc()
		logging.Warn("Job queue full, rejecting %s", filepath.Base(source))
		return Status{}, ErrQueueFull
	}

	metrics.JobsSubmittedTotal.Inc()
	metrics.JobQueueDepth.Set(float64(len(c.queue)))

	st := c.publish(j, StateQueued, "", nil)
	logging.Debug("Job %s queued for %s", j.id, filepath.Base(source))
	return st, nil
}

// Status returns the most recently published job record. ok is false
// before the first submission.
func (c *Coordinator) Status() (Status, bool) {
	st := c.status.Load()
	if st == nil {
		return Status{}, false
	}
	return *st, true
}

// QueueDepth reports how many accepted jobs are waiting to start.
func (c *Coordinator) QueueDepth() int {
	return len(c.queue)
}

func (c *Coordinator) worker(id int) {
	defer c.wg.Done()

	logging.Debug("Job worker %d started", id)

	for j := range c.queue {
		metrics.JobQueueDepth.Set(float64(len(c.queue)))

		if c.throttler != nil {
			c.throttler.WaitIfPaused()
		}

		c.run(j)
	}

	logging.Debug("Job worker %d finished", id)
}

// run executes one job to completion. Errors never propagate out of the
// pool: the terminal status record is the only place a background failure
// surfaces.
func (c *Coordinator) run(j job) {
	c.publish(j, StateRunning, "", nil)
	metrics.JobsInFlight.Inc()
	start := time.Now()

	fullPath, err := c.runner.FullProcess(context.Background(), j.source, j.params)

	elapsed := time.Since(start)
	metrics.JobsInFlight.Dec()
	metrics.JobDuration.Observe(elapsed.Seconds())

	if err != nil {
		metrics.JobsCompletedTotal.WithLabelValues(string(StateFailed)).Inc()
		logging.Error("Job %s failed for %s after %v: %v", j.id, filepath.Base(j.source), elapsed, err)
		c.publish(j, StateFailed, "", err)
		return
	}

	metrics.JobsCompletedTotal.WithLabelValues(string(StateSucceeded)).Inc()
	logging.Info("Job %s finished for %s in %v", j.id, filepath.Base(j.source), elapsed)
	c.publish(j, StateSucceeded, filepath.Base(fullPath), nil)
}

// publish swaps the status slot unconditionally. A slow older job that
// finishes after a newer submission overwrites the newer record; that
// last-writer-wins behavior is deliberate and documented on Status.
func (c *Coordinator) publish(j job, state State, fullName string, err error) Status {
	st := Status{
		ID:      j.id,
		Source:  filepath.Base(j.source),
		State:   state,
		Preview: j.preview,
		Queued:  j.queued,
	}
	if state == StateSucceeded {
		st.Full = fullName
	}
	if err != nil {
		st.Error = err.Error()
	}
	c.status.Store(&st)

	if c.notify != nil && (state == StateSucceeded || state == StateFailed) {
		c.notify(st)
	}
	return st
}
