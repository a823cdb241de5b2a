package core

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/hr-bulk-import/constants"
	"github.com/joseph-ayodele/hr-bulk-import/internal/entity"
	"github.com/joseph-ayodele/hr-bulk-import/internal/ingest"
	"github.com/joseph-ayodele/hr-bulk-import/internal/repository"
	"github.com/joseph-ayodele/hr-bulk-import/internal/testutil"
)

func countRows(t *testing.T, store *repository.Store, table string) int {
	t.Helper()
	var n int
	require.NoError(t, store.DB().QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestRunImport_SQLiteEndToEnd(t *testing.T) {
	ctx := context.Background()
	store, cleanup, err := repository.OpenEphemeral(ctx, nil)
	require.NoError(t, err)
	t.Cleanup(cleanup)
	require.NoError(t, testutil.SeedReference(ctx, store))

	recs := make([]entity.InputRecord, 12)
	for i := range recs {
		recs[i] = testutil.ValidRecord(fmt.Sprintf("EMP-%02d", i))
	}
	delete(recs[3], "email")
	recs[7]["scale_considered"] = "PhD"

	dir := t.TempDir()
	input := filepath.Join(dir, "staff.xlsx")
	require.NoError(t, testutil.WriteWorkbook(input, testutil.Sheet(recs...)))

	ledger := repository.NewUploadJobRepository(store, nil)
	imp := NewImporter(store, ledger, WithWorkers(4), WithBatchSize(5))

	res, err := imp.RunImport(ctx, input, "job-e2e")
	require.NoError(t, err)
	assert.Equal(t, 12, res.Total)
	assert.Equal(t, 2, res.Failed)

	job, err := ledger.Get(ctx, "job-e2e")
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusCompleted, job.Status)
	assert.Equal(t, int64(12), job.ProcessedRecords)
	sum, err := ingest.Checksum(input)
	require.NoError(t, err)
	assert.Equal(t, sum, job.FileHash)

	// two seeded heads plus ten imported employees
	assert.Equal(t, 12, countRows(t, store, constants.TableEmployees))
	assert.Equal(t, 10, countRows(t, store, constants.TableOnboardedInfo))
	assert.Equal(t, 10, countRows(t, store, constants.TableSalaryAllocations))

	f, err := excelize.OpenFile(res.ReportPath)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows("Failed Records")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	header := rows[0]
	assert.Equal(t, constants.ErrorColumn, header[len(header)-1])
	assert.Contains(t, rows[1][len(header)-1], "field not found: `email`")
	assert.Contains(t, rows[2][len(header)-1], "[QualificationSlabIdError]")
}
