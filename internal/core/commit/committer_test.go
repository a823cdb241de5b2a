package commit

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/hr-bulk-import/constants"
	"github.com/joseph-ayodele/hr-bulk-import/internal/common"
	"github.com/joseph-ayodele/hr-bulk-import/internal/core/normalize"
	"github.com/joseph-ayodele/hr-bulk-import/internal/core/reference"
	"github.com/joseph-ayodele/hr-bulk-import/internal/core/resolve"
	"github.com/joseph-ayodele/hr-bulk-import/internal/entity"
	"github.com/joseph-ayodele/hr-bulk-import/internal/testutil"
)

func prepare(t *testing.T, in entity.InputRecord) (entity.NormalizedRecord, resolve.Resolution) {
	t.Helper()
	cache, err := reference.Load(context.Background(), testutil.NewFetcher(), nil)
	require.NoError(t, err)
	n := normalize.New(nil)
	rec, diags := n.Normalize(in)
	require.Empty(t, diags)
	res, diags := resolve.New(cache, n).Resolve(rec)
	require.Empty(t, diags)
	return rec, res
}

func value(t *testing.T, row entity.Row, col string) any {
	t.Helper()
	v, ok := row.Get(col)
	require.True(t, ok, "column %s missing", col)
	return v
}

func TestCommit_WritesAllThreeRows(t *testing.T) {
	db := testutil.NewInserter()
	rec, res := prepare(t, testutil.ValidRecord("EMP-1"))

	diags, err := New(db, nil).Commit(context.Background(), rec, res)
	require.NoError(t, err)
	require.Empty(t, diags)

	require.Equal(t, 1, db.Count(constants.TableEmployees))
	require.Equal(t, 1, db.Count(constants.TableOnboardedInfo))
	require.Equal(t, 1, db.Count(constants.TableSalaryAllocations))

	emp := db.Rows(constants.TableEmployees)[0]
	assert.Equal(t, "EMP-1", value(t, emp, "emp_uuid"))
	assert.Equal(t, "A.K. Rao", value(t, emp, "display_name"))
	assert.Equal(t, "India", value(t, emp, "country_iso"))
	assert.Equal(t, "ms", value(t, emp, "title"))
	assert.Equal(t, 0, value(t, emp, "is_married"))
	_, hasCreatedBy := emp.Get("created_by")
	assert.False(t, hasCreatedBy)

	empID := int64(1001)
	onboarding := db.Rows(constants.TableOnboardedInfo)[0]
	assert.Equal(t, empID, value(t, onboarding, "fk_emp_id"))
	assert.Equal(t, "January", value(t, onboarding, "month_of_joining"))
	assert.Equal(t, testutil.DesignationAssistant, value(t, onboarding, "fk_current_design_id"))
	assert.Equal(t, testutil.WorkExEngineeringA, value(t, onboarding, "fk_incentive_role_id"))
	assert.Equal(t, testutil.NationalHeadID, value(t, onboarding, "fk_national_head_emp"))
	assert.Equal(t, 1, value(t, onboarding, "is_super_annuation"))
	bonus := value(t, onboarding, "annual_bonus").(decimal.Decimal)
	assert.True(t, bonus.Equal(decimal.RequireFromString("12000.50")))

	salary := db.Rows(constants.TableSalaryAllocations)[0]
	assert.Equal(t, empID, value(t, salary, "fk_emp_id"))
	assert.Equal(t, testutil.QualEngineering, value(t, salary, "fk_qualification_slab_id"))
	assert.Equal(t, testutil.SubDesignationField, value(t, salary, "fk_sub_designation"))
	assert.Equal(t, "initial allocation", value(t, salary, "remarks"))
}

func TestCommit_EmployeeRejectedSkipsDependents(t *testing.T) {
	db := testutil.NewInserter()
	db.FailTables[constants.TableEmployees] = common.Rejected(errors.New("duplicate entry 'EMP-1'"))
	rec, res := prepare(t, testutil.ValidRecord("EMP-1"))

	diags, err := New(db, nil).Commit(context.Background(), rec, res)
	require.NoError(t, err)
	require.Len(t, diags, 3)
	assert.Equal(t, "[DBInsertionError] insertion into `mmt_employees` failed: duplicate entry 'EMP-1'", diags[0].String())
	assert.Equal(t, entity.DiagDependency, diags[1].Kind)
	assert.Equal(t, entity.DiagDependency, diags[2].Kind)
	assert.Zero(t, db.Total())
}

func TestCommit_PartialPersistenceIsReported(t *testing.T) {
	db := testutil.NewInserter()
	db.FailTables[constants.TableOnboardedInfo] = common.Rejected(errors.New("data too long"))
	rec, res := prepare(t, testutil.ValidRecord("EMP-1"))

	diags, err := New(db, nil).Commit(context.Background(), rec, res)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, entity.DiagInsertion, diags[0].Kind)
	assert.Equal(t, 1, db.Count(constants.TableEmployees))
	assert.Equal(t, 1, db.Count(constants.TableSalaryAllocations))
}

func TestCommit_UnavailableIsFatal(t *testing.T) {
	db := testutil.NewInserter()
	db.FailAll = common.Unavailable(errors.New("connection refused"))
	rec, res := prepare(t, testutil.ValidRecord("EMP-1"))

	_, err := New(db, nil).Commit(context.Background(), rec, res)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnavailable)
}

func TestCommit_UnclassifiedInsertErrorIsFatal(t *testing.T) {
	db := testutil.NewInserter()
	db.FailTables[constants.TableEmployees] = errors.New("Error 1142 (42000): INSERT command denied to user 'hr'@'%' for table 'mmt_employees'")
	rec, res := prepare(t, testutil.ValidRecord("EMP-1"))

	diags, err := New(db, nil).Commit(context.Background(), rec, res)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrUnavailable)
	assert.Empty(t, diags)
	assert.Zero(t, db.Total())
}

func TestCommit_InvalidEmployee(t *testing.T) {
	in := testutil.ValidRecord("EMP-1")
	in["email"] = "not-an-email"
	in["gender"] = "unknown"
	db := testutil.NewInserter()
	rec, res := prepare(t, in)

	diags, err := New(db, nil).Commit(context.Background(), rec, res)
	require.NoError(t, err)
	require.Len(t, diags, 3)
	assert.Equal(t, entity.DiagValidation, diags[0].Kind)
	assert.Contains(t, diags[0].Message, "mmt_employees: ")
	assert.Zero(t, db.Total())
}

func TestCommit_UnparseableJoiningDate(t *testing.T) {
	in := testutil.ValidRecord("EMP-1")
	in["DOJ"] = "sometime in spring"
	db := testutil.NewInserter()
	rec, res := prepare(t, in)

	diags, err := New(db, nil).Commit(context.Background(), rec, res)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "[ValidationError] emp_onboarded_companyinfo: date_of_joining `sometime in spring` is not a recognised date", diags[0].String())
	assert.Equal(t, 1, db.Count(constants.TableEmployees))
	assert.Zero(t, db.Count(constants.TableOnboardedInfo))
	assert.Equal(t, 1, db.Count(constants.TableSalaryAllocations))
}

func TestCommit_BadFlagFailsValidation(t *testing.T) {
	in := testutil.ValidRecord("EMP-1")
	in["is_trainee"] = "maybe"
	db := testutil.NewInserter()
	rec, res := prepare(t, in)

	diags, err := New(db, nil).Commit(context.Background(), rec, res)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, entity.DiagValidation, diags[0].Kind)
	assert.Contains(t, diags[0].Message, "emp_onboarded_companyinfo: ")
	assert.Zero(t, db.Count(constants.TableOnboardedInfo))
}

func TestBuildEmployee_MarriedFlag(t *testing.T) {
	assert.Equal(t, 1, BuildEmployee(entity.NormalizedRecord{"is_married": "Yes"}).IsMarried)
	assert.Equal(t, 0, BuildEmployee(entity.NormalizedRecord{"is_married": "perhaps"}).IsMarried)
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		first, middle, last string
		want                string
	}{
		{"asha", "k", "rao", "A.K. Rao"},
		{"Ravi", "", "kumar singh", "R. Kumar Singh"},
		{"Ravi", "  ", "", "R. "},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DisplayName(tt.first, tt.middle, tt.last))
	}
}

func TestMonthOfJoining(t *testing.T) {
	tests := map[string]string{
		"15-Jan-24":           "January",
		"5-Mar-24":            "March",
		"7-Aug-2023":          "August",
		"2024-11-30":          "November",
		"2024-02-01 00:00:00": "February",
		"31/12/2023":          "December",
	}
	for in, want := range tests {
		got, err := MonthOfJoining(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := MonthOfJoining("32-Foo-24")
	assert.Error(t, err)
}

func TestSchemasCompile(t *testing.T) {
	s, err := compiled()
	require.NoError(t, err)
	require.NotNil(t, s.employee)
	require.NotNil(t, s.onboarding)
	require.NotNil(t, s.salary)
}
