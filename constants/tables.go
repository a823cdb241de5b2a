package constants

// Lookup tables.
const (
	TableDesignations       = "dg_designations"
	TableSubDesignations    = "mmt_sub_designations"
	TableFunctionalRoles    = "mmt_functional_roles_master"
	TableDepartments        = "dg_departments"
	TableZones              = "mmt_zones_master"
	TableRegions            = "dg_regions"
	TableBranches           = "dg_branches"
	TableLocations          = "dg_locations"
	TableQualificationSlabs = "mmt_qualification_slabs_master"
	TableWorkExSlabs        = "mmt_work_ex_slabs_master"
)

// Written tables.
const (
	TableEmployees         = "mmt_employees"
	TableOnboardedInfo     = "emp_onboarded_companyinfo"
	TableSalaryAllocations = "mmt_salary_allocations"
	TableUploadProcessLogs = "mmt_uploadprocess_logs"
)
