package entity

import (
	"fmt"
	"strings"
)

// DiagnosticKind tags a per-row problem.
type DiagnosticKind string

const (
	DiagFieldNotFound     DiagnosticKind = "FieldNotFound"
	DiagDesignationID     DiagnosticKind = "DesignationIdError"
	DiagQualificationSlab DiagnosticKind = "QualificationSlabIdError"
	DiagWorkExSlab        DiagnosticKind = "WorkExSlabIdError"
	DiagNationalHead      DiagnosticKind = "NationalHeadEmpIdError"
	DiagCountryHead       DiagnosticKind = "CountryHeadEmpIdError"
	DiagValidation        DiagnosticKind = "ValidationError"
	DiagInsertion         DiagnosticKind = "DBInsertionError"
	DiagDependency        DiagnosticKind = "DependencyError"
)

// Diagnostic is one human-readable reason a row failed.
type Diagnostic struct {
	Kind    DiagnosticKind
	Message string
}

// NewDiagnostic formats a diagnostic message.
func NewDiagnostic(kind DiagnosticKind, format string, args ...any) Diagnostic {
	return Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (d Diagnostic) String() string {
	return "[" + string(d.Kind) + "] " + d.Message
}

// DiagnosticSeparator joins diagnostics in the Error column.
const DiagnosticSeparator = ";\n"

// JoinDiagnostics renders diagnostics for the Error column.
func JoinDiagnostics(diags []Diagnostic) string {
	parts := make([]string, len(diags))
	for i, d := range diags {
		parts[i] = d.String()
	}
	return strings.Join(parts, DiagnosticSeparator)
}

// FailedRecord is an input row that did not fully commit.
type FailedRecord struct {
	Row         int
	Record      InputRecord
	Diagnostics []Diagnostic
}
