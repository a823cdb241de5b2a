package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/hr-bulk-import/constants"
	"github.com/joseph-ayodele/hr-bulk-import/internal/common"
	"github.com/joseph-ayodele/hr-bulk-import/internal/entity"
)

// UploadJobRepository is the job ledger. Every mutation is scoped to rows
// that are not soft-deleted and fails with common.ErrJobNotFound otherwise.
type UploadJobRepository interface {
	Create(ctx context.Context, processID, fileName, fileHash string, total int64) (*entity.UploadJob, error)
	Start(ctx context.Context, processID string) error
	IncrementProgress(ctx context.Context, processID string, delta int64) error
	MarkCompleted(ctx context.Context, processID string) error
	MarkFailed(ctx context.Context, processID string) error
	SoftDelete(ctx context.Context, processID string) error
	Get(ctx context.Context, processID string) (*entity.UploadJob, error)
	// FindByHash returns the newest live job created from a file with the
	// given checksum, or common.ErrNotFound.
	FindByHash(ctx context.Context, fileHash string) (*entity.UploadJob, error)
}

type uploadJobRepo struct {
	store *Store
	log   *slog.Logger
}

func NewUploadJobRepository(store *Store, log *slog.Logger) UploadJobRepository {
	if log == nil {
		log = slog.Default()
	}
	return &uploadJobRepo{store: store, log: log}
}

var uploadJobColumns = []string{
	"process_id", "file_name", "file_hash", "total_records", "processed_records",
	"status", "is_deleted", "created_at", "updated_at",
}

func (r *uploadJobRepo) Create(ctx context.Context, processID, fileName, fileHash string, total int64) (*entity.UploadJob, error) {
	now := time.Now().UTC()
	job := &entity.UploadJob{
		ProcessID:    processID,
		FileName:     fileName,
		FileHash:     fileHash,
		TotalRecords: total,
		Status:       constants.JobStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	query, args := entsql.Dialect(r.store.dialect).
		Insert(constants.TableUploadProcessLogs).
		Columns(uploadJobColumns...).
		Values(job.ProcessID, job.FileName, nullString(job.FileHash), job.TotalRecords, job.ProcessedRecords,
			string(job.Status), job.IsDeleted, job.CreatedAt, job.UpdatedAt).
		Query()
	if _, err := r.store.db.ExecContext(ctx, query, args...); err != nil {
		r.log.Error("upload_job create failed", "job_id", processID, "err", err)
		return nil, classify(err)
	}
	r.log.Info("upload_job created", "job_id", processID, "file", fileName, "total", total)
	return job, nil
}

func (r *uploadJobRepo) Start(ctx context.Context, processID string) error {
	return r.setStatus(ctx, processID, constants.JobStatusProcessing)
}

func (r *uploadJobRepo) IncrementProgress(ctx context.Context, processID string, delta int64) error {
	upd := entsql.Dialect(r.store.dialect).
		Update(constants.TableUploadProcessLogs).
		Add("processed_records", delta).
		Set("updated_at", time.Now().UTC())
	if err := r.exec(ctx, processID, upd); err != nil {
		r.log.Error("upload_job progress failed", "job_id", processID, "delta", delta, "err", err)
		return err
	}
	r.log.Debug("upload_job progress", "job_id", processID, "delta", delta)
	return nil
}

func (r *uploadJobRepo) MarkCompleted(ctx context.Context, processID string) error {
	return r.setStatus(ctx, processID, constants.JobStatusCompleted)
}

func (r *uploadJobRepo) MarkFailed(ctx context.Context, processID string) error {
	return r.setStatus(ctx, processID, constants.JobStatusFailed)
}

func (r *uploadJobRepo) SoftDelete(ctx context.Context, processID string) error {
	upd := entsql.Dialect(r.store.dialect).
		Update(constants.TableUploadProcessLogs).
		Set("is_deleted", true).
		Set("updated_at", time.Now().UTC())
	if err := r.exec(ctx, processID, upd); err != nil {
		r.log.Error("upload_job delete failed", "job_id", processID, "err", err)
		return err
	}
	r.log.Info("upload_job deleted", "job_id", processID)
	return nil
}

func (r *uploadJobRepo) Get(ctx context.Context, processID string) (*entity.UploadJob, error) {
	b := entsql.Dialect(r.store.dialect)
	query, args := b.Select(uploadJobColumns...).
		From(b.Table(constants.TableUploadProcessLogs)).
		Where(entsql.EQ("process_id", processID)).
		Query()
	job, err := r.scan(r.store.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("upload job %s: %w", processID, common.ErrNotFound)
	}
	return job, err
}

func (r *uploadJobRepo) FindByHash(ctx context.Context, fileHash string) (*entity.UploadJob, error) {
	if fileHash == "" {
		return nil, fmt.Errorf("find upload job: empty file hash: %w", common.ErrInvalidInput)
	}
	b := entsql.Dialect(r.store.dialect)
	query, args := b.Select(uploadJobColumns...).
		From(b.Table(constants.TableUploadProcessLogs)).
		Where(entsql.And(
			entsql.EQ("file_hash", fileHash),
			entsql.EQ("is_deleted", false),
		)).
		OrderBy(entsql.Desc("created_at")).
		Limit(1).
		Query()
	job, err := r.scan(r.store.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("upload job with hash %s: %w", fileHash, common.ErrNotFound)
	}
	return job, err
}

func (r *uploadJobRepo) scan(row *sql.Row) (*entity.UploadJob, error) {
	var (
		job      entity.UploadJob
		fileName sql.NullString
		fileHash sql.NullString
		status   string
	)
	err := row.Scan(
		&job.ProcessID, &fileName, &fileHash, &job.TotalRecords, &job.ProcessedRecords,
		&status, &job.IsDeleted, &job.CreatedAt, &job.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, classify(err)
	}
	job.FileName = fileName.String
	job.FileHash = fileHash.String
	job.Status = constants.JobStatus(status)
	return &job, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *uploadJobRepo) setStatus(ctx context.Context, processID string, status constants.JobStatus) error {
	upd := entsql.Dialect(r.store.dialect).
		Update(constants.TableUploadProcessLogs).
		Set("status", string(status)).
		Set("updated_at", time.Now().UTC())
	if err := r.exec(ctx, processID, upd); err != nil {
		r.log.Error("upload_job status change failed", "job_id", processID, "status", status, "err", err)
		return err
	}
	r.log.Info("upload_job status changed", "job_id", processID, "status", status)
	return nil
}

// exec scopes upd to the live job row and requires that it matched.
func (r *uploadJobRepo) exec(ctx context.Context, processID string, upd *entsql.UpdateBuilder) error {
	query, args := upd.Where(entsql.And(
		entsql.EQ("process_id", processID),
		entsql.EQ("is_deleted", false),
	)).Query()
	res, err := r.store.db.ExecContext(ctx, query, args...)
	if err != nil {
		return classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify(err)
	}
	if n == 0 {
		return fmt.Errorf("upload job %s: %w", processID, common.ErrJobNotFound)
	}
	return nil
}
