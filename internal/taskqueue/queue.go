package taskqueue

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"mchsplit/internal/logging"
)

// Unbounded disables automatic flushing: tasks accumulate until Flush.
const Unbounded = 0

// Task is one deferred unit of work.
type Task func(ctx context.Context) error

// Stats is a point-in-time snapshot of queue counters.
type Stats struct {
	Pushed      int
	Executed    int
	Failed      int
	Waves       int
	AutoFlushes int
	Pending     int
}

type config struct {
	logger *slog.Logger
}

// Option configures a Queue.
type Option func(*config)

// WithLogger routes wave lifecycle logs to logger at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// Queue buffers tasks and runs them concurrently in waves of at most
// capacity tasks.
type Queue struct {
	capacity int
	logger   *slog.Logger

	mu      sync.Mutex
	pending []Task
	stats   Stats
}

// New constructs a queue that flushes automatically whenever capacity tasks
// are pending. A capacity of Unbounded (or any value below one) never
// flushes automatically.
func New(capacity int, opts ...Option) *Queue {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if capacity < 0 {
		capacity = Unbounded
	}
	initial := 0
	if capacity > 0 {
		initial = capacity
	}
	return &Queue{
		capacity: capacity,
		logger:   logging.NewComponentLogger(cfg.logger, "taskqueue"),
		pending:  make([]Task, 0, initial),
	}
}

// Capacity returns the configured wave size, or Unbounded.
func (q *Queue) Capacity() int {
	return q.capacity
}

// Push appends task to the pending batch. When the batch reaches capacity,
// Push drains it as one wave and returns only after every task in that wave
// has finished; the returned error is that wave's *WaveError, if any.
func (q *Queue) Push(ctx context.Context, task Task) error {
	if task == nil {
		return nil
	}
	q.mu.Lock()
	q.pending = append(q.pending, task)
	q.stats.Pushed++
	if q.capacity == Unbounded || len(q.pending) < q.capacity {
		q.mu.Unlock()
		return nil
	}
	batch, wave := q.swapLocked()
	q.stats.AutoFlushes++
	q.mu.Unlock()

	return q.runWave(ctx, wave, batch)
}

// Flush drains everything currently pending as one wave and waits for all
// of it to finish. Tasks pushed while the wave runs land in the next batch.
// Flushing an empty queue is a no-op.
func (q *Queue) Flush(ctx context.Context) error {
	q.mu.Lock()
	if len(q.pending) == 0 {
		q.mu.Unlock()
		return nil
	}
	batch, wave := q.swapLocked()
	q.mu.Unlock()

	return q.runWave(ctx, wave, batch)
}

// Stats returns a snapshot of the queue counters.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	snapshot := q.stats
	snapshot.Pending = len(q.pending)
	return snapshot
}

// swapLocked hands the pending batch to the caller and starts a fresh one.
// q.mu must be held.
func (q *Queue) swapLocked() ([]Task, int) {
	batch := q.pending
	size := 0
	if q.capacity > 0 {
		size = q.capacity
	}
	q.pending = make([]Task, 0, size)
	q.stats.Waves++
	return batch, q.stats.Waves
}

func (q *Queue) runWave(ctx context.Context, wave int, batch []Task) error {
	start := time.Now()
	q.logger.Debug("task wave started",
		logging.Int("wave", wave),
		logging.Int("tasks", len(batch)),
	)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	wg.Add(len(batch))
	for _, task := range batch {
		go func(task Task) {
			defer wg.Done()
			if err := runTask(ctx, task); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(task)
	}
	wg.Wait()

	q.mu.Lock()
	q.stats.Executed += len(batch)
	q.stats.Failed += len(errs)
	q.mu.Unlock()

	q.logger.Debug("task wave finished",
		logging.Int("wave", wave),
		logging.Int("tasks", len(batch)),
		logging.Int("failed", len(errs)),
		logging.Duration("elapsed", time.Since(start)),
	)

	if len(errs) == 0 {
		return nil
	}
	return &WaveError{Wave: wave, Errs: errs}
}

func runTask(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return task(ctx)
}
