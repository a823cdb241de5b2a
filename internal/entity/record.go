package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

// InputRecord is one spreadsheet row keyed by header name. Blank cells are
// absent or nil.
type InputRecord map[string]any

// SheetRow is an InputRecord with its 1-based row number in the workbook.
type SheetRow struct {
	Number int
	Record InputRecord
}

// Sheet is a whole worksheet read into memory.
type Sheet struct {
	Name     string
	Columns  []string
	Rows     []SheetRow
	Checksum string
}

// NormalizedRecord is an InputRecord after per-field transforms. A nil value
// means absent or not coercible.
type NormalizedRecord map[string]any

// Has reports whether field carries a non-nil value.
func (r NormalizedRecord) Has(field string) bool {
	return r[field] != nil
}

// String returns the field as a string, "" when nil or not a string.
func (r NormalizedRecord) String(field string) string {
	if s, ok := r[field].(string); ok {
		return s
	}
	return ""
}

// NonBlank reports whether field holds a non-empty string.
func (r NormalizedRecord) NonBlank(field string) bool {
	return strings.TrimSpace(r.String(field)) != ""
}

// StringPtr returns nil for a blank field.
func (r NormalizedRecord) StringPtr(field string) *string {
	if !r.NonBlank(field) {
		return nil
	}
	s := r.String(field)
	return &s
}

// Decimal returns the field as a decimal, nil when absent.
func (r NormalizedRecord) Decimal(field string) *decimal.Decimal {
	if d, ok := r[field].(decimal.Decimal); ok {
		return &d
	}
	return nil
}
