package export

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSX_RoundTrip(t *testing.T) {
	in := Table{
		Sheet:   "Failed",
		Columns: []string{"email", "Error"},
		Rows: [][]string{
			{"a@example.com", "[FieldNotFound] field not found: `age`"},
			{"", "[DesignationIdError] x;\n[WorkExSlabIdError] y"},
		},
	}

	b, err := XLSX(in, nil, "Error")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Failed"}, f.GetSheetList())
	rows, err := f.GetRows("Failed")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"email", "Error"}, rows[0])
	assert.Equal(t, in.Rows[0], rows[1])
	assert.Equal(t, "[DesignationIdError] x;\n[WorkExSlabIdError] y", rows[2][1])
}

func TestXLSX_DefaultSheet(t *testing.T) {
	b, err := XLSX(Table{Columns: []string{"a"}}, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, []string{"Sheet1"}, f.GetSheetList())
}

func TestXLSX_LogsToGivenLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil)).With("job_id", "job-9")

	_, err := XLSX(Table{Sheet: "Failed", Columns: []string{"a"}, Rows: [][]string{{"1"}}}, logger)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"msg":"export.xlsx.ok"`)
	assert.Contains(t, buf.String(), `"job_id":"job-9"`)
	assert.Contains(t, buf.String(), `"rows":1`)
}
