package failures

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/hr-bulk-import/internal/entity"
)

func failed(row int, email any, diags ...entity.Diagnostic) entity.FailedRecord {
	return entity.FailedRecord{
		Row:         row,
		Record:      entity.InputRecord{"email": email, "first_name": fmt.Sprintf("n%d", row)},
		Diagnostics: diags,
	}
}

func TestAggregator_Empty(t *testing.T) {
	a := New()
	assert.Zero(t, a.Len())
	assert.Nil(t, a.Report([]string{"email"}))
}

func TestAggregator_ConcurrentAdd(t *testing.T) {
	a := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a.Add(failed(i+2, "x@example.com"))
		}(i)
	}
	wg.Wait()

	recs := a.Records()
	require.Len(t, recs, 50)
	for i, r := range recs {
		assert.Equal(t, i+2, r.Row)
	}
}

func TestAggregator_Report(t *testing.T) {
	a := New()
	a.Add(failed(5, "b@example.com",
		entity.NewDiagnostic(entity.DiagDesignationID, "designation id not found for designation `X`"),
		entity.NewDiagnostic(entity.DiagWorkExSlab, "no id found"),
	))
	a.Add(failed(3, nil, entity.NewDiagnostic(entity.DiagFieldNotFound, "field not found: `email`")))

	r := a.Report([]string{"email", "first_name", "Error"})
	require.NotNil(t, r)
	assert.Equal(t, []string{"email", "first_name", "Error"}, r.Columns)
	require.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"", "n3", "[FieldNotFound] field not found: `email`"}, r.Rows[0])
	assert.Equal(t, "[DesignationIdError] designation id not found for designation `X`;\n[WorkExSlabIdError] no id found", r.Rows[1][2])
}

func TestReport_WriteFile(t *testing.T) {
	a := New()
	a.Add(failed(2, "a@example.com", entity.NewDiagnostic(entity.DiagFieldNotFound, "field not found: `age`")))
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, a.Report([]string{"email"}).WriteFile(path, nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows("Failed Records")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"email", "Error"}, rows[0])
	assert.Equal(t, []string{"a@example.com", "[FieldNotFound] field not found: `age`"}, rows[1])
}

func TestFailedPath(t *testing.T) {
	assert.Equal(t, filepath.Join("in", "staff_failed.xlsx"), FailedPath(filepath.Join("in", "staff.xlsx"), ""))
	assert.Equal(t, filepath.Join("out", "staff_failed.xlsx"), FailedPath(filepath.Join("in", "staff.xlsm"), "out"))
}
