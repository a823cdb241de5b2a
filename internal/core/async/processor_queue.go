package async

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/hr-bulk-import/internal/async"
	"github.com/joseph-ayodele/hr-bulk-import/internal/core"
	"github.com/joseph-ayodele/hr-bulk-import/internal/metrics"
)

// ErrQueueClosed is returned by Enqueue after Shutdown.
var ErrQueueClosed = errors.New("import queue is shutting down")

// Runner runs one import job.
type Runner interface {
	RunImport(ctx context.Context, path, jobID string) (*core.Result, error)
}

// ImportQueue feeds spreadsheets to a fixed set of job workers. Each job
// runs under its own timeout detached from the caller's context.
type ImportQueue struct {
	runner  Runner
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan async.Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*ImportQueue)

func WithWorkers(n int) Option {
	return func(q *ImportQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *ImportQueue) {
		if n > 0 {
			q.ch = make(chan async.Job, n)
		}
	}
}
func WithJobTimeout(d time.Duration) Option {
	return func(q *ImportQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewImportQueue(runner Runner, logger *slog.Logger, opts ...Option) *ImportQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ImportQueue{
		runner:  runner,
		logger:  logger,
		workers: 1,
		timeout: 30 * time.Minute,
		ch:      make(chan async.Job, 64),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *ImportQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("job worker started", "worker_id", workerID)

				for job := range q.ch {
					metrics.QueueDepth(len(q.ch))
					q.run(workerID, job)
				}

				q.logger.Info("job worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *ImportQueue) run(workerID int, job async.Job) {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()

	res, err := q.runner.RunImport(ctx, job.Path, job.ID)
	switch {
	case err != nil:
		q.logger.Error("import failed", "worker_id", workerID, "job_id", job.ID, "path", job.Path, "error", err)
	case !res.Success:
		q.logger.Warn("import finished with failed rows", "worker_id", workerID, "job_id", res.JobID,
			"failed", res.Failed, "total", res.Total, "report", res.ReportPath)
	default:
		q.logger.Info("import finished", "worker_id", workerID, "job_id", res.JobID,
			"total", res.Total, "elapsed_ms", res.Elapsed.Milliseconds())
	}
}

// Enqueue blocks while the queue is full or until ctx is done.
func (q *ImportQueue) Enqueue(ctx context.Context, job async.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "path", job.Path)
		return ErrQueueClosed
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}
	select {
	case q.ch <- job:
	default:
		q.logger.Warn("queue full, applying backpressure", "path", job.Path)
		select {
		case q.ch <- job:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	metrics.QueueDepth(len(q.ch))
	q.logger.Info("queued spreadsheet for import", "path", job.Path, "job_id", job.ID)
	return nil
}

// Shutdown stops accepting jobs and waits for queued ones to finish or for
// ctx to end.
func (q *ImportQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}

var _ async.Queue = (*ImportQueue)(nil)
