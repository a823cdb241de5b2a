package normalize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/hr-bulk-import/internal/entity"
	"github.com/joseph-ayodele/hr-bulk-import/internal/spreadsheet"
	"github.com/joseph-ayodele/hr-bulk-import/internal/testutil"
)

func TestNormalize_ValidRecord(t *testing.T) {
	rec, diags := New(nil).Normalize(testutil.ValidRecord("EMP-1"))
	require.Empty(t, diags)

	assert.Equal(t, "34", rec.String(FieldAge))
	assert.Equal(t, "A", rec.String(FieldSalarySlab))
	assert.Equal(t, "ms", rec.String(FieldTitle))
	assert.Equal(t, "female", rec.String(FieldGender))
	assert.Equal(t, "EMP-1", rec.String(FieldEmpID))
	require.NotNil(t, rec.Decimal(FieldAnnualBonus))
	assert.True(t, decimal.RequireFromString("12000.5").Equal(*rec.Decimal(FieldAnnualBonus)))
}

func TestNormalize_Transforms(t *testing.T) {
	tests := []struct {
		name  string
		field string
		in    any
		want  any
	}{
		{"trim", FieldEmail, "  a@b.com ", "a@b.com"},
		{"blank becomes nil", FieldFirstName, "   ", nil},
		{"float mobile without exponent", FieldMobileNo, 9876543210.0, "9876543210"},
		{"int zone", FieldZone, 4, "4"},
		{"age float", FieldAge, 34.0, "34"},
		{"age string float", FieldAge, "41.0", "41"},
		{"age text passes through", FieldAge, "unknown", "unknown"},
		{"upper slab", FieldSalarySlab, " b2 ", "B2"},
		{"title dot", FieldTitle, "Mrs.", "mrs"},
		{"gender fold", FieldGender, " MALE ", "male"},
		{"bad decimal", FieldAnnualBonus, "lots", nil},
		{"age beyond int64", FieldAge, "1e30", nil},
		{"age below int64", FieldAge, -1e19, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := New(nil).Normalize(entity.InputRecord{tt.field: tt.in})
			assert.Equal(t, tt.want, rec[tt.field])
		})
	}
}

func TestNormalize_MissingMandatory(t *testing.T) {
	in := testutil.ValidRecord("EMP-1")
	delete(in, FieldEmail)
	in[FieldZone] = " "
	delete(in, FieldMiddleName)

	_, diags := New(nil).Normalize(in)
	require.Len(t, diags, 2)
	assert.Equal(t, "[FieldNotFound] field not found: `email`", diags[0].String())
	assert.Equal(t, "[FieldNotFound] field not found: `zone`", diags[1].String())
}

func TestNormalize_GroupedAmount(t *testing.T) {
	rec, _ := New(nil).Normalize(entity.InputRecord{FieldAnnualBonus: " 1,50,000.75 "})
	require.NotNil(t, rec.Decimal(FieldAnnualBonus))
	assert.True(t, decimal.RequireFromString("150000.75").Equal(*rec.Decimal(FieldAnnualBonus)))
}

func TestNormalize_UnparseableValuesAreReported(t *testing.T) {
	in := testutil.ValidRecord("EMP-1")
	in[FieldAdhocAllowance] = "12,000 INR"
	in[FieldAge] = "1e30"

	rec, diags := New(nil).Normalize(in)
	require.Len(t, diags, 2)
	assert.Equal(t, "[ValidationError] age: invalid value `1e30`: out of range", diags[0].String())
	assert.Equal(t, "[ValidationError] adhoc_allowance: invalid value `12,000 INR`: not numeric", diags[1].String())
	assert.Nil(t, rec[FieldAdhocAllowance])
	assert.Nil(t, rec[FieldAge])
}

func TestNormalize_FormattedAmountFromWorkbook(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{FieldEmail, FieldAnnualBonus, FieldAdhocAllowance}))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "a@example.com"))
	require.NoError(t, f.SetCellFloat("Sheet1", "B2", 1500.5, -1, 64))
	require.NoError(t, f.SetCellFloat("Sheet1", "C2", 250000, -1, 64))
	style, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "B2", "C2", style))
	path := filepath.Join(t.TempDir(), "amounts.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	for name, opts := range map[string]spreadsheet.Options{
		"displayed": {},
		"stored":    {RawColumns: AmountFields()},
	} {
		t.Run(name, func(t *testing.T) {
			sheet, err := spreadsheet.ReadWith(path, opts)
			require.NoError(t, err)
			require.Len(t, sheet.Rows, 1)

			rec, diags := New(nil).Normalize(sheet.Rows[0].Record)
			for _, d := range diags {
				assert.NotEqual(t, entity.DiagValidation, d.Kind, d.String())
			}
			require.NotNil(t, rec.Decimal(FieldAnnualBonus))
			assert.True(t, decimal.RequireFromString("1500.5").Equal(*rec.Decimal(FieldAnnualBonus)))
			require.NotNil(t, rec.Decimal(FieldAdhocAllowance))
			assert.True(t, decimal.RequireFromString("250000").Equal(*rec.Decimal(FieldAdhocAllowance)))
		})
	}
}

func TestNormalize_UnknownColumnsPassThrough(t *testing.T) {
	rec, _ := New(nil).Normalize(entity.InputRecord{"Notes": " hi "})
	assert.Equal(t, "hi", rec["Notes"])
}

func TestMandatoryFields(t *testing.T) {
	m := MandatoryFields()
	assert.Contains(t, m, FieldEmail)
	assert.Contains(t, m, FieldSubDesignation)
	assert.NotContains(t, m, FieldMiddleName)
	assert.NotContains(t, m, FieldAnnualBonus)
	assert.NotContains(t, m, FieldRemarksSalary)
}

func TestAliases_Defaults(t *testing.T) {
	n := New(nil)
	assert.Equal(t, "Assistant", n.CanonicalDesignation("Engineer"))
	assert.Equal(t, "Manager (MGR)", n.CanonicalDesignation("Manager"))
	assert.Equal(t, "Unknown", n.CanonicalDesignation("Unknown"))
	assert.Equal(t, "Engineering", n.CanonicalQualification("be"))
	assert.Equal(t, "Graduation", n.CanonicalQualification(" PostGraduate "))
	assert.Equal(t, "PhD", n.CanonicalQualification("PhD"))
}

func TestAliases_DefaultsAreCopies(t *testing.T) {
	a := DefaultAliases()
	a.Designations["Engineer"] = "Changed"
	assert.Equal(t, "Assistant", DefaultAliases().CanonicalDesignation("Engineer"))
}

func TestLoadAliases_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
designations:
  Sr. Engineer: Senior Engineer
qualifications:
  phd: Doctorate
`), 0o600))

	a, err := LoadAliases(path)
	require.NoError(t, err)
	assert.Equal(t, "Senior Engineer", a.CanonicalDesignation("Sr. Engineer"))
	assert.Equal(t, "Assistant", a.CanonicalDesignation("Engineer"))
	assert.Equal(t, "Doctorate", a.CanonicalQualification("PhD"))
}

func TestLoadAliases_Errors(t *testing.T) {
	_, err := LoadAliases(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("designations: [1, 2"), 0o600))
	_, err = LoadAliases(path)
	assert.Error(t, err)
}

func TestLoadAliases_EmptyPath(t *testing.T) {
	a, err := LoadAliases("")
	require.NoError(t, err)
	assert.Equal(t, DefaultAliases(), a)
}
