package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"
)

// Table is a rectangular sheet: a header row followed by data rows.
type Table struct {
	Sheet   string
	Columns []string
	Rows    [][]string
}

// XLSX returns the table as an XLSX workbook (as bytes). Columns named in
// wide get a wider, wrapping column so multi-line cells stay readable. A nil
// logger uses slog.Default().
func XLSX(t Table, logger *slog.Logger, wide ...string) ([]byte, error) {
	start := time.Now()
	if logger == nil {
		logger = slog.Default()
	}
	sheet := t.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return nil, err
		}
	}

	for i, h := range t.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for r, row := range t.Rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	wrap, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return nil, err
	}
	for i, h := range t.Columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		width := 18.0
		for _, w := range wide {
			if w == h {
				width = 60
				_ = f.SetColStyle(sheet, col, wrap)
			}
		}
		_ = f.SetColWidth(sheet, col, col, width)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	logger.Info("export.xlsx.ok",
		"sheet", sheet,
		"rows", len(t.Rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
