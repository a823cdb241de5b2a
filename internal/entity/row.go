package entity

import (
	"fmt"
	"reflect"
)

// Row is an ordered column/value set for a single-row insert.
type Row struct {
	Columns []string
	Values  []any
}

// Get returns the value stored for col.
func (r Row) Get(col string) (any, bool) {
	for i, c := range r.Columns {
		if c == col {
			return r.Values[i], true
		}
	}
	return nil, false
}

// Set appends or replaces col.
func (r *Row) Set(col string, v any) {
	for i, c := range r.Columns {
		if c == col {
			r.Values[i] = v
			return
		}
	}
	r.Columns = append(r.Columns, col)
	r.Values = append(r.Values, v)
}

// ToRow flattens a struct with `db` tags into a Row. Nil pointers are
// skipped so the column falls back to its database default.
func ToRow(v any) (Row, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return Row{}, fmt.Errorf("entity.ToRow: want struct, got %s", rv.Kind())
	}
	rt := rv.Type()
	row := Row{}
	for i := 0; i < rt.NumField(); i++ {
		col := rt.Field(i).Tag.Get("db")
		if col == "" || col == "-" {
			continue
		}
		fv := rv.Field(i)
		if fv.Kind() == reflect.Pointer {
			if fv.IsNil() {
				continue
			}
			fv = fv.Elem()
		}
		row.Columns = append(row.Columns, col)
		row.Values = append(row.Values, fv.Interface())
	}
	return row, nil
}
