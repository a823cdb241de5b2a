package constants

import "strings"

// AllowedExtensions holds the spreadsheet extensions accepted for import.
var AllowedExtensions = map[string]struct{}{
	"xlsx": {},
	"xlsm": {},
}

// FailedSuffix is appended to the input file name for the failure workbook.
const FailedSuffix = "_failed"

// ErrorColumn is the diagnostics column of the failure workbook.
const ErrorColumn = "Error"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsSpreadsheet reports whether ext (with or without dot) is importable.
func IsSpreadsheet(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}
