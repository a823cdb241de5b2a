package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/hr-bulk-import/internal/core/normalize"
	"github.com/joseph-ayodele/hr-bulk-import/internal/core/reference"
	"github.com/joseph-ayodele/hr-bulk-import/internal/entity"
	"github.com/joseph-ayodele/hr-bulk-import/internal/testutil"
)

func setup(t *testing.T) (*normalize.Normalizer, *Resolver) {
	t.Helper()
	cache, err := reference.Load(context.Background(), testutil.NewFetcher(), nil)
	require.NoError(t, err)
	n := normalize.New(nil)
	return n, New(cache, n)
}

func resolveRecord(t *testing.T, in entity.InputRecord) (Resolution, []entity.Diagnostic) {
	t.Helper()
	n, r := setup(t)
	rec, _ := n.Normalize(in)
	return r.Resolve(rec)
}

func TestResolve_ValidRecord(t *testing.T) {
	res, diags := resolveRecord(t, testutil.ValidRecord("EMP-1"))
	require.Empty(t, diags)

	assert.Equal(t, testutil.DesignationAssistant, *res.DesignationID)
	assert.Equal(t, testutil.SubDesignationField, *res.SubDesignationID)
	assert.Equal(t, testutil.QualEngineering, *res.QualificationSlab)
	assert.Equal(t, testutil.WorkExEngineeringA, *res.WorkExSlab)
	assert.Equal(t, testutil.NationalHeadID, *res.NationalHeadID)
	assert.Equal(t, testutil.CountryHeadID, *res.CountryHeadID)
	assert.Equal(t, testutil.RegionNorth, *res.RegionID)
	assert.Equal(t, testutil.BranchDelhi, *res.BranchID)
	assert.Equal(t, testutil.LocationCP, *res.LocationID)
	assert.Equal(t, testutil.DepartmentSales, *res.DepartmentID)
	assert.Equal(t, testutil.ZoneOne, *res.ZoneID)
	assert.Equal(t, testutil.RoleSalesLead, *res.FunctionalRoleID)
}

func TestResolve_DesignationAliasMatchesCanonical(t *testing.T) {
	legacy := testutil.ValidRecord("EMP-1")
	legacy[normalize.FieldDesignation] = "Engineer"
	canonical := testutil.ValidRecord("EMP-2")
	canonical[normalize.FieldDesignation] = "Assistant"

	a, diagsA := resolveRecord(t, legacy)
	b, diagsB := resolveRecord(t, canonical)
	require.Empty(t, diagsA)
	require.Empty(t, diagsB)
	assert.Equal(t, *b.DesignationID, *a.DesignationID)
	assert.Equal(t, "Assistant", a.Designation)
}

func TestResolve_QualificationAlias(t *testing.T) {
	in := testutil.ValidRecord("EMP-1")
	in[normalize.FieldDesignation] = "Manager"
	in[normalize.FieldQualification] = "PostGraduate"
	in[normalize.FieldSalarySlab] = "b"

	res, diags := resolveRecord(t, in)
	require.Empty(t, diags)
	assert.Equal(t, "Graduation", res.Qualification)
	assert.Equal(t, testutil.DesignationManager, *res.DesignationID)
	assert.Equal(t, testutil.QualGraduationMgr, *res.QualificationSlab)
	assert.Equal(t, testutil.WorkExManagerB, *res.WorkExSlab)
}

func TestResolve_CanonicalQualificationSkipsAlias(t *testing.T) {
	in := testutil.ValidRecord("EMP-1")
	in[normalize.FieldQualification] = "Graduation"

	res, diags := resolveRecord(t, in)
	require.Empty(t, diags)
	assert.Equal(t, testutil.QualGraduation, *res.QualificationSlab)
	assert.Equal(t, testutil.WorkExGraduationA, *res.WorkExSlab)
}

func TestResolve_UnknownDesignationCascades(t *testing.T) {
	in := testutil.ValidRecord("EMP-1")
	in[normalize.FieldDesignation] = "Managr"

	res, diags := resolveRecord(t, in)
	assert.Nil(t, res.DesignationID)
	assert.Nil(t, res.QualificationSlab)
	assert.Nil(t, res.WorkExSlab)
	require.Len(t, diags, 3)
	assert.Equal(t, entity.DiagDesignationID, diags[0].Kind)
	assert.Contains(t, diags[0].Message, "`Managr`")
	assert.Contains(t, diags[0].Message, "did you mean `Manager (MGR)`")
	assert.Equal(t, entity.DiagQualificationSlab, diags[1].Kind)
	assert.Equal(t, entity.DiagWorkExSlab, diags[2].Kind)

	// lookups that do not depend on the designation still resolve
	assert.NotNil(t, res.NationalHeadID)
	assert.NotNil(t, res.RegionID)
}

func TestResolve_ManagersIndependent(t *testing.T) {
	in := testutil.ValidRecord("EMP-1")
	in[normalize.FieldNationalHeadID] = "EMP-NOPE"

	res, diags := resolveRecord(t, in)
	require.Len(t, diags, 1)
	assert.Equal(t, "[NationalHeadEmpIdError] no id found for emp_id `EMP-NOPE`", diags[0].String())
	assert.Nil(t, res.NationalHeadID)
	assert.Equal(t, testutil.CountryHeadID, *res.CountryHeadID)
}

func TestResolve_OptionalLookupsAreSilent(t *testing.T) {
	in := testutil.ValidRecord("EMP-1")
	in[normalize.FieldZone] = "Z9"
	in[normalize.FieldSubDesignation] = "Unknown"
	delete(in, normalize.FieldBranch)

	res, diags := resolveRecord(t, in)
	assert.Empty(t, diags)
	assert.Nil(t, res.ZoneID)
	assert.Nil(t, res.SubDesignationID)
	assert.Nil(t, res.BranchID)
}
