// Package failures collects rows that did not fully commit and renders them
// as a downloadable workbook.
package failures

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/joseph-ayodele/hr-bulk-import/constants"
	"github.com/joseph-ayodele/hr-bulk-import/internal/entity"
	"github.com/joseph-ayodele/hr-bulk-import/internal/export"
)

// Aggregator is safe for concurrent Add calls.
type Aggregator struct {
	mu      sync.Mutex
	records []entity.FailedRecord
}

func New() *Aggregator {
	return &Aggregator{}
}

func (a *Aggregator) Add(rec entity.FailedRecord) {
	a.mu.Lock()
	a.records = append(a.records, rec)
	a.mu.Unlock()
}

func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.records)
}

// Records returns a copy of the collected rows sorted by row number.
func (a *Aggregator) Records() []entity.FailedRecord {
	a.mu.Lock()
	out := slices.Clone(a.records)
	a.mu.Unlock()
	slices.SortFunc(out, func(x, y entity.FailedRecord) int { return x.Row - y.Row })
	return out
}

// Report is the failure table: the input columns plus the Error column.
type Report struct {
	Columns []string
	Rows    [][]string
}

// Report builds the failure table over columns, or returns nil when nothing
// failed.
func (a *Aggregator) Report(columns []string) *Report {
	recs := a.Records()
	if len(recs) == 0 {
		return nil
	}
	cols := make([]string, 0, len(columns)+1)
	for _, c := range columns {
		if c != constants.ErrorColumn {
			cols = append(cols, c)
		}
	}
	r := &Report{Columns: append(cols, constants.ErrorColumn)}
	for _, rec := range recs {
		row := make([]string, 0, len(r.Columns))
		for _, c := range cols {
			row = append(row, cell(rec.Record[c]))
		}
		row = append(row, entity.JoinDiagnostics(rec.Diagnostics))
		r.Rows = append(r.Rows, row)
	}
	return r
}

func cell(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// Len returns the number of failed rows.
func (r *Report) Len() int { return len(r.Rows) }

// XLSX renders the report as a workbook.
func (r *Report) XLSX(logger *slog.Logger) ([]byte, error) {
	return export.XLSX(export.Table{
		Sheet:   "Failed Records",
		Columns: r.Columns,
		Rows:    r.Rows,
	}, logger, constants.ErrorColumn)
}

// WriteFile writes the workbook to path.
func (r *Report) WriteFile(path string, logger *slog.Logger) error {
	b, err := r.XLSX(logger)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write failure report: %w", err)
	}
	return nil
}

// FailedPath returns where the failure workbook for input goes: next to the
// input, or in dir when set.
func FailedPath(input, dir string) string {
	base := filepath.Base(input)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + constants.FailedSuffix + ".xlsx"
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, name)
}
