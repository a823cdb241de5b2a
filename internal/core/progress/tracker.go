// Package progress reports import progress to the job ledger in batches.
package progress

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/joseph-ayodele/hr-bulk-import/internal/entity"
)

// Ledger is the subset of the upload job repository the tracker writes to.
type Ledger interface {
	Create(ctx context.Context, processID, fileName, fileHash string, total int64) (*entity.UploadJob, error)
	Start(ctx context.Context, processID string) error
	IncrementProgress(ctx context.Context, processID string, delta int64) error
	MarkCompleted(ctx context.Context, processID string) error
	MarkFailed(ctx context.Context, processID string) error
}

// Tracker follows one job. RowDone may be called from any goroutine; every
// row is counted exactly once and the ledger sees one increment per full
// batch plus one for the remainder.
type Tracker struct {
	ledger Ledger
	jobID  string
	batch  int64
	logger *slog.Logger

	done      atomic.Int64
	flushOnce sync.Once
}

// New returns a tracker for jobID. A batch size below one is treated as one.
func New(ledger Ledger, jobID string, batch int, logger *slog.Logger) *Tracker {
	if batch < 1 {
		batch = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		ledger: ledger,
		jobID:  jobID,
		batch:  int64(batch),
		logger: logger.With("job_id", jobID),
	}
}

func (t *Tracker) JobID() string { return t.jobID }

// CreateJob writes the PENDING ledger entry. checksum identifies the source
// file and may be empty.
func (t *Tracker) CreateJob(ctx context.Context, total int64, label, checksum string) error {
	if _, err := t.ledger.Create(ctx, t.jobID, label, checksum, total); err != nil {
		return fmt.Errorf("create job entry: %w", err)
	}
	t.logger.Info("import.job.created", "total", total, "file", label)
	return nil
}

// Start moves the job to PROCESSING.
func (t *Tracker) Start(ctx context.Context) error {
	if err := t.ledger.Start(ctx, t.jobID); err != nil {
		return fmt.Errorf("start job: %w", err)
	}
	return nil
}

// Advance adds delta to the processed count.
func (t *Tracker) Advance(ctx context.Context, delta int64) error {
	if delta <= 0 {
		return nil
	}
	if err := t.ledger.IncrementProgress(ctx, t.jobID, delta); err != nil {
		return fmt.Errorf("advance job progress: %w", err)
	}
	t.logger.Debug("import.job.progress", "delta", delta, "done", t.done.Load())
	return nil
}

// RowDone counts one finished row and advances the ledger when the count
// reaches a multiple of the batch size.
func (t *Tracker) RowDone(ctx context.Context) error {
	if n := t.done.Add(1); n%t.batch == 0 {
		return t.Advance(ctx, t.batch)
	}
	return nil
}

// Flush advances the ledger by the rows not yet reported. Only the first
// call has any effect.
func (t *Tracker) Flush(ctx context.Context) error {
	var err error
	t.flushOnce.Do(func() {
		err = t.Advance(ctx, t.done.Load()%t.batch)
	})
	return err
}

// Done returns the number of rows counted so far.
func (t *Tracker) Done() int64 { return t.done.Load() }

// MarkCompleted finalizes the job as COMPLETED.
func (t *Tracker) MarkCompleted(ctx context.Context) error {
	if err := t.ledger.MarkCompleted(ctx, t.jobID); err != nil {
		return fmt.Errorf("mark job completed: %w", err)
	}
	t.logger.Info("import.job.completed", "done", t.done.Load())
	return nil
}

// MarkFailed finalizes the job as FAILED.
func (t *Tracker) MarkFailed(ctx context.Context) error {
	if err := t.ledger.MarkFailed(ctx, t.jobID); err != nil {
		return fmt.Errorf("mark job failed: %w", err)
	}
	t.logger.Warn("import.job.failed", "done", t.done.Load())
	return nil
}
