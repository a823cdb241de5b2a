package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/hr-bulk-import/constants"
	"github.com/joseph-ayodele/hr-bulk-import/internal/common"
	"github.com/joseph-ayodele/hr-bulk-import/internal/core/commit"
	"github.com/joseph-ayodele/hr-bulk-import/internal/core/failures"
	"github.com/joseph-ayodele/hr-bulk-import/internal/core/normalize"
	"github.com/joseph-ayodele/hr-bulk-import/internal/core/progress"
	"github.com/joseph-ayodele/hr-bulk-import/internal/core/reference"
	"github.com/joseph-ayodele/hr-bulk-import/internal/core/resolve"
	"github.com/joseph-ayodele/hr-bulk-import/internal/entity"
	"github.com/joseph-ayodele/hr-bulk-import/internal/events"
	"github.com/joseph-ayodele/hr-bulk-import/internal/ingest"
	"github.com/joseph-ayodele/hr-bulk-import/internal/metrics"
	"github.com/joseph-ayodele/hr-bulk-import/internal/spreadsheet"
)

// ErrJobFailed wraps every error returned after the job entry was created
// and then marked FAILED.
var ErrJobFailed = errors.New("import job failed")

// Store is the persistence collaborator: lookup reads plus single-row inserts.
type Store interface {
	reference.Fetcher
	commit.Inserter
}

// Result is the outcome of one import job.
type Result struct {
	Success    bool
	JobID      string
	Total      int
	Failed     int
	Report     *failures.Report
	ReportPath string
	Elapsed    time.Duration
}

// Importer runs spreadsheet imports. One Importer may run several jobs at
// once; everything job-scoped is built inside RunImport.
type Importer struct {
	logger     *slog.Logger
	store      Store
	ledger     progress.Ledger
	normalizer *normalize.Normalizer
	publisher  events.Publisher
	tracer     trace.Tracer
	workers    int
	batchSize  int
	reportDir  string
	readSheet  func(path string, logger *slog.Logger) (*entity.Sheet, error)
}

type Option func(*Importer)

// WithWorkers sets the number of rows processed concurrently.
func WithWorkers(n int) Option { return func(i *Importer) { i.workers = n } }

// WithBatchSize sets how many finished rows make one ledger increment.
func WithBatchSize(n int) Option { return func(i *Importer) { i.batchSize = n } }

func WithLogger(l *slog.Logger) Option { return func(i *Importer) { i.logger = l } }

func WithNormalizer(n *normalize.Normalizer) Option { return func(i *Importer) { i.normalizer = n } }

func WithPublisher(p events.Publisher) Option { return func(i *Importer) { i.publisher = p } }

func WithTracer(t trace.Tracer) Option { return func(i *Importer) { i.tracer = t } }

// WithReportDir writes failure workbooks to dir instead of next to the input.
func WithReportDir(dir string) Option { return func(i *Importer) { i.reportDir = dir } }

func NewImporter(store Store, ledger progress.Ledger, opts ...Option) *Importer {
	imp := &Importer{
		store:     store,
		ledger:    ledger,
		workers:   5,
		batchSize: 10,
		readSheet: readSheet,
	}
	for _, opt := range opts {
		opt(imp)
	}
	if imp.logger == nil {
		imp.logger = slog.Default()
	}
	if imp.normalizer == nil {
		imp.normalizer = normalize.New(nil)
	}
	if imp.publisher == nil {
		imp.publisher = events.NopPublisher{}
	}
	if imp.tracer == nil {
		imp.tracer = otel.Tracer("github.com/joseph-ayodele/hr-bulk-import/internal/core")
	}
	if imp.workers < 1 {
		imp.workers = 1
	}
	return imp
}

// readSheet loads the workbook with amount columns read as stored, and
// fingerprints the file so repeated uploads can be recognised.
func readSheet(path string, logger *slog.Logger) (*entity.Sheet, error) {
	sheet, err := spreadsheet.ReadWith(path, spreadsheet.Options{
		RawColumns: normalize.AmountFields(),
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}
	if sheet.Checksum, err = ingest.Checksum(path); err != nil {
		return nil, err
	}
	return sheet, nil
}

// rowOutcome is what a worker reports for one row. err is set only for
// failures that end the whole job.
type rowOutcome struct {
	row    int
	failed *entity.FailedRecord
	err    error
}

// run carries the per-job state shared by the workers. Everything except
// the aggregator and the tracker is read-only once workers start.
type run struct {
	jobID     string
	path      string
	sheet     *entity.Sheet
	tracker   *progress.Tracker
	resolver  *resolve.Resolver
	committer *commit.Committer
	agg       *failures.Aggregator
	logger    *slog.Logger
	start     time.Time

	failOnce sync.Once
	failErr  error
}

// markFailed sets the job FAILED once, however many paths ask for it.
func (r *run) markFailed(ctx context.Context) error {
	r.failOnce.Do(func() {
		r.failErr = r.tracker.MarkFailed(context.WithoutCancel(ctx))
	})
	return r.failErr
}

// RunImport reads path, records the job in the ledger and imports every row.
// Rows that fail validation, resolution or insertion end up in the failure
// report and do not fail the job. An infrastructure failure stops dispatch,
// marks the job FAILED and is returned. An empty jobID gets a new UUID.
func (imp *Importer) RunImport(ctx context.Context, path, jobID string) (*Result, error) {
	if jobID == "" {
		jobID = uuid.NewString()
	}
	ctx = common.WithLogger(common.WithJobID(ctx, jobID), imp.logger)
	ctx, span := imp.tracer.Start(ctx, "import.job", trace.WithAttributes(
		attribute.String("job.id", jobID),
		attribute.String("job.file", filepath.Base(path)),
	))
	defer span.End()

	logger := imp.logger.With("job_id", jobID)
	r := &run{jobID: jobID, path: path, logger: logger, start: time.Now()}

	sheet, err := imp.readSheet(path, logger)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read spreadsheet")
		logger.Error("import.job.read_failed", "path", path, "err", err)
		return nil, fmt.Errorf("read spreadsheet: %w", err)
	}
	r.sheet = sheet
	span.SetAttributes(attribute.Int("job.rows", len(sheet.Rows)))

	r.tracker = progress.New(imp.ledger, jobID, imp.batchSize, imp.logger)
	if err := r.tracker.CreateJob(ctx, int64(len(sheet.Rows)), filepath.Base(path), sheet.Checksum); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create job")
		return nil, err
	}
	metrics.JobStarted()
	logger.Info("import.job.started", "rows", len(sheet.Rows), "workers", imp.workers, "batch", imp.batchSize)

	cache, err := reference.Load(ctx, imp.store, logger)
	if err != nil {
		return nil, imp.fail(ctx, span, r, err)
	}
	for d, n := range cache.Stats() {
		metrics.ReferenceEntries(string(d), n)
	}
	r.resolver = resolve.New(cache, imp.normalizer)
	r.committer = commit.New(imp.store, imp.logger)
	r.agg = failures.New()

	if err := r.tracker.Start(ctx); err != nil {
		return nil, imp.fail(ctx, span, r, err)
	}
	if err := imp.dispatch(ctx, r); err != nil {
		return nil, imp.fail(ctx, span, r, err)
	}
	if err := r.tracker.Flush(ctx); err != nil {
		return nil, imp.fail(ctx, span, r, err)
	}
	if err := r.tracker.MarkCompleted(ctx); err != nil {
		return nil, imp.fail(ctx, span, r, err)
	}

	res := &Result{
		Success: true,
		JobID:   jobID,
		Total:   len(sheet.Rows),
		Failed:  r.agg.Len(),
		Elapsed: time.Since(r.start),
	}
	if report := r.agg.Report(sheet.Columns); report != nil {
		res.Success = false
		res.Report = report
		res.ReportPath = failures.FailedPath(path, imp.reportDir)
		if err := report.WriteFile(res.ReportPath, logger); err != nil {
			logger.Error("import.report.write_failed", "path", res.ReportPath, "err", err)
			res.ReportPath = ""
		}
	}

	metrics.JobFinished(string(constants.JobStatusCompleted), res.Elapsed)
	span.SetAttributes(attribute.Int("job.failed_rows", res.Failed))
	logger.Info("import.job.finished",
		"rows", res.Total,
		"failed", res.Failed,
		"report", res.ReportPath,
		"elapsed_ms", res.Elapsed.Milliseconds(),
	)
	imp.publish(ctx, r, constants.JobStatusCompleted, res.Failed, res.ReportPath, nil)
	return res, nil
}

// dispatch runs one task per row on a pool of imp.workers goroutines and
// drains outcomes as they complete. The first fatal outcome marks the job
// FAILED at once; no new rows are started after it, rows already running
// finish, and their outcomes are no longer counted.
func (imp *Importer) dispatch(ctx context.Context, r *run) error {
	var (
		g          errgroup.Group
		stopped    atomic.Bool
		dispatched atomic.Int64
	)
	g.SetLimit(imp.workers)
	outcomes := make(chan rowOutcome, imp.workers)

	go func() {
		for _, row := range r.sheet.Rows {
			if stopped.Load() || ctx.Err() != nil {
				break
			}
			dispatched.Add(1)
			g.Go(func() error {
				out := imp.processRow(ctx, r, row)
				outcomes <- out
				return out.err
			})
		}
		_ = g.Wait()
		close(outcomes)
	}()

	var fatal error
	for out := range outcomes {
		if fatal != nil {
			continue
		}
		if out.err != nil {
			fatal = out.err
			stopped.Store(true)
			r.logger.Error("import.row.fatal", "row", out.row, "err", out.err)
			if err := r.markFailed(ctx); err != nil {
				r.logger.Error("import.job.mark_failed", "err", err)
			}
			continue
		}
		if out.failed != nil {
			r.agg.Add(*out.failed)
		}
		if err := r.tracker.RowDone(ctx); err != nil {
			fatal = err
			stopped.Store(true)
		}
	}
	if fatal == nil && dispatched.Load() < int64(len(r.sheet.Rows)) {
		fatal = fmt.Errorf("import interrupted after %d of %d rows: %w", dispatched.Load(), len(r.sheet.Rows), ctx.Err())
	}
	return fatal
}

// processRow runs Normalizer, Resolver and Committer for one row. A panic
// is turned into a fatal outcome.
func (imp *Importer) processRow(ctx context.Context, r *run, row entity.SheetRow) (out rowOutcome) {
	out.row = row.Number
	ctx = common.WithRow(ctx, row.Number)
	ctx, span := imp.tracer.Start(ctx, "import.row", trace.WithAttributes(attribute.Int("row", row.Number)))
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			out.err = fmt.Errorf("%w: panic on row %d: %v", common.ErrInternal, row.Number, p)
		}
		if out.err != nil {
			span.RecordError(out.err)
			span.SetStatus(codes.Error, "row aborted the job")
		}
		span.End()
	}()

	rec, diags := imp.normalizer.Normalize(row.Record)
	res, resolveDiags := r.resolver.Resolve(rec)
	diags = append(diags, resolveDiags...)

	if len(diags) == 0 {
		commitDiags, err := r.committer.Commit(ctx, rec, res)
		if err != nil {
			out.err = err
			return out
		}
		diags = append(diags, commitDiags...)
	}

	if len(diags) == 0 {
		metrics.RowProcessed(metrics.ResultCommitted, time.Since(start))
		return out
	}
	metrics.RowProcessed(metrics.ResultFailed, time.Since(start))
	span.SetAttributes(attribute.Int("row.diagnostics", len(diags)))
	common.LoggerFromContext(ctx).Info("import.row.failed",
		"diagnostics", len(diags),
		"first", diags[0].String(),
	)
	out.failed = &entity.FailedRecord{Row: row.Number, Record: row.Record, Diagnostics: diags}
	return out
}

// fail marks the job FAILED and returns cause, joined with any ledger error.
func (imp *Importer) fail(ctx context.Context, span trace.Span, r *run, cause error) error {
	ctx = context.WithoutCancel(ctx)
	err := cause
	if markErr := r.markFailed(ctx); markErr != nil {
		err = errors.Join(cause, markErr)
	}
	span.RecordError(cause)
	span.SetStatus(codes.Error, cause.Error())
	metrics.JobFinished(string(constants.JobStatusFailed), time.Since(r.start))
	r.logger.Error("import.job.aborted", "err", cause, "done", r.tracker.Done())

	failed := 0
	if r.agg != nil {
		failed = r.agg.Len()
	}
	imp.publish(ctx, r, constants.JobStatusFailed, failed, "", cause)
	return fmt.Errorf("%w: %w", ErrJobFailed, err)
}

func (imp *Importer) publish(ctx context.Context, r *run, status constants.JobStatus, failed int, report string, cause error) {
	ev := events.JobEvent{
		JobID:      r.jobID,
		FileName:   filepath.Base(r.path),
		Status:     status,
		Total:      int64(len(r.sheet.Rows)),
		Failed:     int64(failed),
		ReportPath: report,
		At:         time.Now().UTC(),
	}
	if cause != nil {
		ev.Error = cause.Error()
	}
	if err := imp.publisher.Publish(ctx, ev); err != nil {
		r.logger.Warn("import.event.publish_failed", "status", status, "err", err)
	}
}
