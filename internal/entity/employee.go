package entity

import "github.com/shopspring/decimal"

// Employee is a row of mmt_employees.
type Employee struct {
	EmpUUID           string  `json:"emp_uuid" db:"emp_uuid"`
	Email             string  `json:"email" db:"email"`
	MobileNo          string  `json:"mobile_no" db:"mobile_no"`
	CountryISO        string  `json:"country_iso" db:"country_iso"`
	Title             *string `json:"title,omitempty" db:"title"`
	FirstName         string  `json:"first_name" db:"first_name"`
	MiddleName        *string `json:"middle_name,omitempty" db:"middle_name"`
	LastName          string  `json:"last_name" db:"last_name"`
	DisplayName       string  `json:"display_name" db:"display_name"`
	Gender            string  `json:"gender" db:"gender"`
	DOB               string  `json:"dob" db:"dob"`
	Age               string  `json:"age" db:"age"`
	IsMarried         int     `json:"is_married" db:"is_married"`
	RelPersonName     string  `json:"rel_person_name" db:"rel_person_name"`
	AuthSign          string  `json:"auth_sign" db:"auth_sign"`
	SalutationTitleFR string  `json:"salutation_title_fr" db:"salutation_title_fr"`
	IsEmailVerified   int     `json:"is_email_verified" db:"is_email_verified"`
	IsMobileVerified  int     `json:"is_mobile_verified" db:"is_mobile_verified"`
	Status            string  `json:"status" db:"status"`
	PrimaryRelation   string  `json:"primary_relation" db:"primary_relation"`
	AvatarSymbol      string  `json:"avatar_symbol" db:"avatar_symbol"`
	CreatedBy         *int64  `json:"created_by,omitempty" db:"created_by"`
	ModifiedBy        *int64  `json:"modified_by,omitempty" db:"modified_by"`
}

// OnboardingInfo is a row of emp_onboarded_companyinfo.
type OnboardingInfo struct {
	EmpID                    *int64           `json:"fk_emp_id,omitempty" db:"fk_emp_id"`
	DepartType               string           `json:"depart_type" db:"depart_type"`
	MonthOfJoining           string           `json:"month_of_joining" db:"month_of_joining"`
	DateOfJoining            string           `json:"date_of_joining" db:"date_of_joining"`
	IsWeekendOff             string           `json:"is_weekend_off" db:"is_weekend_off"`
	WorkingWeekDaysAllocated int              `json:"working_week_days_allocated" db:"working_week_days_allocated"`
	FiscalYear               string           `json:"fiscal_year" db:"fiscal_year"`
	DailyWage                int              `json:"daily_wage" db:"daily_wage"`
	IsPermanent              int              `json:"is_permanent" db:"is_permanent"`
	EmploymentType           string           `json:"employeebility_type" db:"employeebility_type"`
	CompanyWorkingDays       int              `json:"company_working_days" db:"company_working_days"`
	BasicSalary              int              `json:"basic_salary" db:"basic_salary"`
	IsTrainee                *int             `json:"is_trainee,omitempty" db:"is_trainee"`
	IsAdditionalSA           *int             `json:"is_additional_sa,omitempty" db:"is_additional_sa"`
	IsSuperAnnuation         *int             `json:"is_super_annuation,omitempty" db:"is_super_annuation"`
	AnnualBonus              *decimal.Decimal `json:"annual_bonus,omitempty" db:"annual_bonus"`
	AdhocAllowance           *decimal.Decimal `json:"adhoc_allowance,omitempty" db:"adhoc_allowance"`
	AdhocType                *string          `json:"adhoc_type,omitempty" db:"adhoc_type"`
	Remarks                  string           `json:"remarks" db:"remarks"`
	RegionID                 *int64           `json:"fk_region_id,omitempty" db:"fk_region_id"`
	BranchID                 *int64           `json:"fk_branch_id,omitempty" db:"fk_branch_id"`
	LocationID               *int64           `json:"fk_location_id,omitempty" db:"fk_location_id"`
	DepartmentID             *int64           `json:"fk_department_id,omitempty" db:"fk_department_id"`
	ZoneID                   *int64           `json:"fk_zone_id,omitempty" db:"fk_zone_id"`
	FunctionalRoleID         *int64           `json:"fk_functional_role_id,omitempty" db:"fk_functional_role_id"`
	CurrentDesignID          *int64           `json:"fk_current_design_id,omitempty" db:"fk_current_design_id"`
	IncentiveRoleID          *int64           `json:"fk_incentive_role_id,omitempty" db:"fk_incentive_role_id"`
	NationalHeadEmpID        *int64           `json:"fk_national_head_emp,omitempty" db:"fk_national_head_emp"`
	CountryHeadEmpID         *int64           `json:"fk_country_head_emp,omitempty" db:"fk_country_head_emp"`
}

// SalaryAllocation is a row of mmt_salary_allocations.
type SalaryAllocation struct {
	EmpID               *int64 `json:"fk_emp_id,omitempty" db:"fk_emp_id"`
	Remarks             string `json:"remarks" db:"remarks"`
	QualificationSlabID *int64 `json:"fk_qualification_slab_id,omitempty" db:"fk_qualification_slab_id"`
	WorkExSlabID        *int64 `json:"work_ex_slab_id,omitempty" db:"work_ex_slab_id"`
	SubDesignationID    *int64 `json:"fk_sub_designation,omitempty" db:"fk_sub_designation"`
}
