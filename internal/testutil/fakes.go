package testutil

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/joseph-ayodele/hr-bulk-import/constants"
	"github.com/joseph-ayodele/hr-bulk-import/internal/common"
	"github.com/joseph-ayodele/hr-bulk-import/internal/entity"
)

// Fetcher serves lookup tables from memory. Errs makes a table fail.
type Fetcher struct {
	Tables map[string][]map[string]any
	Errs   map[string]error

	mu    sync.Mutex
	calls []string
}

// NewFetcher returns a Fetcher over ReferenceTables.
func NewFetcher() *Fetcher {
	return &Fetcher{Tables: ReferenceTables(), Errs: map[string]error{}}
}

func (f *Fetcher) FetchTable(_ context.Context, table string, _ ...string) ([]map[string]any, error) {
	f.mu.Lock()
	f.calls = append(f.calls, table)
	f.mu.Unlock()
	if err := f.Errs[table]; err != nil {
		return nil, err
	}
	rows := make([]map[string]any, 0, len(f.Tables[table]))
	for _, r := range f.Tables[table] {
		rows = append(rows, maps.Clone(r))
	}
	return rows, nil
}

// Calls lists the tables fetched so far.
func (f *Fetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Inserter records single-row inserts. FailTables fails writes to a table;
// FailAll fails every write. Wrap the error with common.Rejected to model a
// row the database refused.
type Inserter struct {
	FailTables map[string]error
	FailAll    error

	mu   sync.Mutex
	next int64
	rows map[string][]entity.Row
}

func NewInserter() *Inserter {
	return &Inserter{FailTables: map[string]error{}, next: 1000, rows: map[string][]entity.Row{}}
}

func (i *Inserter) InsertRow(_ context.Context, table string, row entity.Row) (int64, error) {
	if i.FailAll != nil {
		return 0, i.FailAll
	}
	if err := i.FailTables[table]; err != nil {
		return 0, err
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.next++
	i.rows[table] = append(i.rows[table], row)
	return i.next, nil
}

// Rows returns the rows written to table.
func (i *Inserter) Rows(table string) []entity.Row {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]entity.Row(nil), i.rows[table]...)
}

// Count returns the number of rows written to table.
func (i *Inserter) Count(table string) int {
	return len(i.Rows(table))
}

// Total returns the number of rows written across all tables.
func (i *Inserter) Total() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	n := 0
	for _, rs := range i.rows {
		n += len(rs)
	}
	return n
}

// Ledger is an in-memory job ledger that records every progress increment.
type Ledger struct {
	Err error

	mu         sync.Mutex
	jobs       map[string]*entity.UploadJob
	increments []int64
	statuses   []constants.JobStatus
}

func NewLedger() *Ledger {
	return &Ledger{jobs: map[string]*entity.UploadJob{}}
}

func (l *Ledger) Create(_ context.Context, processID, fileName, fileHash string, total int64) (*entity.UploadJob, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return nil, l.Err
	}
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
	l.jobs[processID] = job
	l.statuses = append(l.statuses, job.Status)
	return job, nil
}

func (l *Ledger) Start(ctx context.Context, processID string) error {
	return l.setStatus(processID, constants.JobStatusProcessing)
}

func (l *Ledger) IncrementProgress(_ context.Context, processID string, delta int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	job, err := l.live(processID)
	if err != nil {
		return err
	}
	job.ProcessedRecords += delta
	l.increments = append(l.increments, delta)
	return nil
}

func (l *Ledger) MarkCompleted(_ context.Context, processID string) error {
	return l.setStatus(processID, constants.JobStatusCompleted)
}

func (l *Ledger) MarkFailed(_ context.Context, processID string) error {
	return l.setStatus(processID, constants.JobStatusFailed)
}

func (l *Ledger) SoftDelete(_ context.Context, processID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	job, err := l.live(processID)
	if err != nil {
		return err
	}
	job.IsDeleted = true
	return nil
}

func (l *Ledger) Get(_ context.Context, processID string) (*entity.UploadJob, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	job, ok := l.jobs[processID]
	if !ok {
		return nil, fmt.Errorf("upload job %s: %w", processID, common.ErrNotFound)
	}
	cp := *job
	return &cp, nil
}

func (l *Ledger) FindByHash(_ context.Context, fileHash string) (*entity.UploadJob, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.Err != nil {
		return nil, l.Err
	}
	var found *entity.UploadJob
	for _, job := range l.jobs {
		if job.FileHash != fileHash || job.IsDeleted {
			continue
		}
		if found == nil || job.CreatedAt.After(found.CreatedAt) {
			found = job
		}
	}
	if found == nil {
		return nil, fmt.Errorf("upload job with hash %s: %w", fileHash, common.ErrNotFound)
	}
	cp := *found
	return &cp, nil
}

// Increments returns every delta passed to IncrementProgress.
func (l *Ledger) Increments() []int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]int64(nil), l.increments...)
}

// Statuses returns the status history across all jobs.
func (l *Ledger) Statuses() []constants.JobStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]constants.JobStatus(nil), l.statuses...)
}

func (l *Ledger) setStatus(processID string, s constants.JobStatus) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	job, err := l.live(processID)
	if err != nil {
		return err
	}
	job.Status = s
	l.statuses = append(l.statuses, s)
	return nil
}

func (l *Ledger) live(processID string) (*entity.UploadJob, error) {
	if l.Err != nil {
		return nil, l.Err
	}
	job, ok := l.jobs[processID]
	if !ok || job.IsDeleted {
		return nil, fmt.Errorf("upload job %s: %w", processID, common.ErrJobNotFound)
	}
	return job, nil
}

// Store pairs a Fetcher with an Inserter.
type Store struct {
	*Fetcher
	*Inserter
}

func NewStore() *Store {
	return &Store{Fetcher: NewFetcher(), Inserter: NewInserter()}
}
