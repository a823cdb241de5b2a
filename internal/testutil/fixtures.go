// Package testutil holds in-memory collaborators and sample data shared by
// the pipeline tests.
package testutil

import (
	"maps"
	"slices"

	"github.com/joseph-ayodele/hr-bulk-import/constants"
	"github.com/joseph-ayodele/hr-bulk-import/internal/entity"
)

// Reference ids used by the fixtures.
const (
	DesignationAssistant int64 = 1
	DesignationManager   int64 = 2
	NationalHeadID       int64 = 100
	CountryHeadID        int64 = 101
	SubDesignationField  int64 = 7
	RegionNorth          int64 = 11
	BranchDelhi          int64 = 21
	LocationCP           int64 = 31
	ZoneOne              int64 = 41
	DepartmentSales      int64 = 51
	RoleSalesLead        int64 = 61
	QualEngineering      int64 = 201
	QualGraduation       int64 = 202
	QualGraduationMgr    int64 = 203
	WorkExEngineeringA   int64 = 301
	WorkExGraduationA    int64 = 302
	WorkExManagerB       int64 = 303
)

func row(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i].(string)] = kv[i+1]
	}
	return m
}

// ReferenceTables returns lookup rows shaped the way the database returns
// them.
func ReferenceTables() map[string][]map[string]any {
	return map[string][]map[string]any{
		constants.TableDesignations: {
			row("design_id", DesignationAssistant, "designation_name", "Assistant"),
			row("design_id", DesignationManager, "designation_name", "Manager (MGR)"),
			row("design_id", int64(3), "designation_name", "Executive"),
		},
		constants.TableEmployees: {
			row("emp_id", NationalHeadID, "emp_uuid", "EMP-NH-1"),
			row("emp_id", CountryHeadID, "emp_uuid", "EMP-CH-1"),
		},
		constants.TableSubDesignations: {row("id", SubDesignationField, "name", "Field")},
		constants.TableRegions:         {row("id", RegionNorth, "rg_name", "North")},
		constants.TableBranches:        {row("branch_id", BranchDelhi, "branch_name", "Delhi")},
		constants.TableLocations:       {row("location_id", LocationCP, "location_name", "Connaught Place")},
		constants.TableZones:           {row("id", ZoneOne, "rg_name", "Z1")},
		constants.TableDepartments:     {row("dept_id", DepartmentSales, "dept_name", "Sales")},
		constants.TableFunctionalRoles: {row("id", RoleSalesLead, "role_name", "Sales Lead")},
		constants.TableQualificationSlabs: {
			row("id", QualEngineering, "slab_name", " Engineering ", "fk_designation_id", DesignationAssistant),
			row("id", QualGraduation, "slab_name", "Graduation", "fk_designation_id", DesignationAssistant),
			row("id", QualGraduationMgr, "slab_name", "Graduation", "fk_designation_id", DesignationManager),
		},
		constants.TableWorkExSlabs: {
			row("id", WorkExEngineeringA, "grade", "A", "fk_designation_id", DesignationAssistant, "fk_qualification_slab", QualEngineering),
			row("id", WorkExGraduationA, "grade", "A", "fk_designation_id", DesignationAssistant, "fk_qualification_slab", QualGraduation),
			row("id", WorkExManagerB, "grade", "B", "fk_designation_id", DesignationManager, "fk_qualification_slab", QualGraduationMgr),
		},
	}
}

var validRecord = entity.InputRecord{
	"email":                          "asha@example.com",
	"mobile_no":                      "9876543210",
	"title":                          "Ms",
	"first_name":                     "Asha",
	"middle_name":                    "k",
	"last_name":                      "rao",
	"gender":                         "Female",
	"is_married":                     "no",
	"date_of_birth":                  "1990-05-01",
	"age":                            "34.0",
	"DOJ":                            "15-Jan-24",
	"new_hierarchical_designation":   "Engineer",
	"new_functional_role":            "Sales Lead",
	"role_for_ipp_calculation":       "Sales",
	"department_ind_performance_pay": "Sales",
	"department":                     "Sales",
	"region":                         "North",
	"branch":                         "Delhi",
	"location":                       "Connaught Place",
	"zone":                           "Z1",
	"year_of_passing":                "2012",
	"scale_considered":               "BE",
	"final_slab_considered":          " a ",
	"is_trainee":                     "0",
	"is_additional_sa":               "0",
	"is_super_annuation":             "1",
	"annual_bonus":                   "12000.50",
	"adhoc_allowance":                "1500",
	"adhoc_type":                     "Manual",
	"remarks_salary_allocation":      "initial allocation",
	"sub_designation":                "Field",
	"national_head_emp_name":         "N Head",
	"national_head_emp_id":           "EMP-NH-1",
	"country_head_emp_name":          "C Head",
	"country_head_emp_id":            "EMP-CH-1",
}

// ValidRecord returns a row that resolves against ReferenceTables, keyed by
// empID.
func ValidRecord(empID string) entity.InputRecord {
	r := maps.Clone(validRecord)
	r["emp_id"] = empID
	return r
}

// Sheet wraps records into a sheet with rows numbered from 2.
func Sheet(records ...entity.InputRecord) *entity.Sheet {
	s := &entity.Sheet{Name: "Sheet1"}
	seen := map[string]bool{}
	for i, r := range records {
		for _, k := range slices.Sorted(maps.Keys(r)) {
			if !seen[k] {
				seen[k] = true
				s.Columns = append(s.Columns, k)
			}
		}
		s.Rows = append(s.Rows, entity.SheetRow{Number: i + 2, Record: r})
	}
	return s
}
