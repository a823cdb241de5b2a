package testutil

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/hr-bulk-import/constants"
	"github.com/joseph-ayodele/hr-bulk-import/internal/entity"
)

// RowInserter is the insert half of the persistence collaborator.
type RowInserter interface {
	InsertRow(ctx context.Context, table string, row entity.Row) (int64, error)
}

// SeedReference writes ReferenceTables into a migrated database. Employee
// rows get placeholder values for their NOT NULL columns.
func SeedReference(ctx context.Context, db RowInserter) error {
	tables := ReferenceTables()
	for _, table := range slices.Sorted(maps.Keys(tables)) {
		for _, r := range tables[table] {
			if table == constants.TableEmployees {
				r = maps.Clone(r)
				uuid := r["emp_uuid"].(string)
				for col, v := range map[string]any{
					"email":           uuid + "@example.com",
					"mobile_no":       "9000000000",
					"country_iso":     constants.DefaultCountryISO,
					"first_name":      "Head",
					"last_name":       uuid,
					"gender":          "male",
					"dob":             "1970-01-01",
					"age":             "54",
					"rel_person_name": "",
					"auth_sign":       "",
				} {
					r[col] = v
				}
			}
			var row entity.Row
			for _, col := range slices.Sorted(maps.Keys(r)) {
				row.Set(col, r[col])
			}
			if _, err := db.InsertRow(ctx, table, row); err != nil {
				return fmt.Errorf("seed %s: %w", table, err)
			}
		}
	}
	return nil
}

// WriteWorkbook saves sheet as an .xlsx file with its columns as the header.
func WriteWorkbook(path string, sheet *entity.Sheet) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	header := make([]any, len(sheet.Columns))
	for i, c := range sheet.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow("Sheet1", "A1", &header); err != nil {
		return err
	}
	for i, r := range sheet.Rows {
		vals := make([]any, len(sheet.Columns))
		for j, c := range sheet.Columns {
			vals[j] = r.Record[c]
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow("Sheet1", cell, &vals); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
