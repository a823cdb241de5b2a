package spreadsheet

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/hr-bulk-import/constants"
	"github.com/joseph-ayodele/hr-bulk-import/internal/common"
	"github.com/joseph-ayodele/hr-bulk-import/internal/entity"
)

// Options tunes ReadWith.
type Options struct {
	// RawColumns are read as stored instead of as displayed, so a number
	// formatted as "1,500.50" arrives as "1500.5".
	RawColumns []string
	Logger     *slog.Logger
}

// Read loads the first worksheet of path with default options.
func Read(path string) (*entity.Sheet, error) {
	return ReadWith(path, Options{})
}

// ReadWith loads the first worksheet of path. The first non-empty row is the
// header; blank cells are left out of each record. Fully blank rows are
// skipped. Cells show their formatted text unless their column is listed in
// opts.RawColumns.
func ReadWith(path string, opts Options) (*entity.Sheet, error) {
	start := time.Now()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if !constants.IsSpreadsheet(filepath.Ext(path)) {
		return nil, fmt.Errorf("read %s: unsupported extension: %w", path, common.ErrInvalidInput)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("read %s: workbook has no sheets: %w", path, common.ErrInvalidInput)
	}
	name := sheets[0]
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	var raw [][]string
	if len(opts.RawColumns) > 0 {
		if raw, err = f.GetRows(name, excelize.Options{RawCellValue: true}); err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
	}

	sheet := &entity.Sheet{Name: name}
	headerAt := -1
	for i, r := range rows {
		if !blank(r) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return sheet, nil
	}
	positional := header(rows[headerAt])
	for _, c := range positional {
		if c != "" {
			sheet.Columns = append(sheet.Columns, c)
		}
	}
	rawCol := make([]bool, len(positional))
	for c, col := range positional {
		for _, want := range opts.RawColumns {
			if col != "" && col == want {
				rawCol[c] = true
			}
		}
	}

	for i := headerAt + 1; i < len(rows); i++ {
		if blank(rows[i]) {
			continue
		}
		rec := entity.InputRecord{}
		for c, v := range rows[i] {
			if c >= len(positional) || positional[c] == "" {
				continue
			}
			if rawCol[c] && i < len(raw) && c < len(raw[i]) {
				v = raw[i][c]
			}
			if strings.TrimSpace(v) == "" {
				continue
			}
			rec[positional[c]] = v
		}
		sheet.Rows = append(sheet.Rows, entity.SheetRow{Number: i + 1, Record: rec})
	}

	logger.Debug("spreadsheet.read.ok",
		"path", path,
		"sheet", name,
		"rows", len(sheet.Rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return sheet, nil
}

// RowCount returns the number of data rows Read would produce.
func RowCount(path string) (int, error) {
	s, err := Read(path)
	if err != nil {
		return 0, err
	}
	return len(s.Rows), nil
}

// header trims names and drops duplicates after the first occurrence.
func header(cells []string) []string {
	seen := map[string]bool{}
	cols := make([]string, len(cells))
	for i, c := range cells {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		cols[i] = c
	}
	return cols
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
