package repository

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	"github.com/joseph-ayodele/hr-bulk-import/constants"
)

func pkColumn(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeInt64, Increment: true}
}

func stringColumn(name string, nullable bool) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeString, Size: 255, Nullable: nullable}
}

func textColumn(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeString, Size: 2048, Nullable: true}
}

func fkColumn(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeInt64, Nullable: true}
}

func intColumn(name string, def int) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeInt, Default: def}
}

func optIntColumn(name string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeInt, Nullable: true}
}

func enumColumn(name string, nullable bool, values ...string) *schema.Column {
	return &schema.Column{Name: name, Type: field.TypeEnum, Enums: values, Nullable: nullable}
}

func moneyColumn(name string) *schema.Column {
	return &schema.Column{
		Name:     name,
		Type:     field.TypeFloat64,
		Nullable: true,
		SchemaType: map[string]string{
			dialect.MySQL:    "decimal(12,2)",
			dialect.Postgres: "numeric(12,2)",
		},
	}
}

// lookupTable builds a two-column id/name master table.
func lookupTable(name, idCol, nameCol string, extra ...*schema.Column) *schema.Table {
	id := pkColumn(idCol)
	cols := append([]*schema.Column{id, stringColumn(nameCol, true)}, extra...)
	return &schema.Table{Name: name, Columns: cols, PrimaryKey: []*schema.Column{id}}
}

var (
	DesignationsTable       = lookupTable(constants.TableDesignations, "design_id", "designation_name")
	SubDesignationsTable    = lookupTable(constants.TableSubDesignations, "id", "name")
	RegionsTable            = lookupTable(constants.TableRegions, "id", "rg_name")
	BranchesTable           = lookupTable(constants.TableBranches, "branch_id", "branch_name")
	LocationsTable          = lookupTable(constants.TableLocations, "location_id", "location_name")
	ZonesTable              = lookupTable(constants.TableZones, "id", "rg_name")
	DepartmentsTable        = lookupTable(constants.TableDepartments, "dept_id", "dept_name")
	FunctionalRolesTable    = lookupTable(constants.TableFunctionalRoles, "id", "role_name")
	QualificationSlabsTable = lookupTable(constants.TableQualificationSlabs, "id", "slab_name",
		fkColumn("fk_designation_id"))
	WorkExSlabsTable = lookupTable(constants.TableWorkExSlabs, "id", "grade",
		fkColumn("fk_designation_id"), fkColumn("fk_qualification_slab"))
)

var (
	employeeUUIDColumn = stringColumn("emp_uuid", false)
	employeePK         = pkColumn("emp_id")

	EmployeesTable = &schema.Table{
		Name: constants.TableEmployees,
		Columns: []*schema.Column{
			employeePK,
			employeeUUIDColumn,
			stringColumn("email", false),
			stringColumn("mobile_no", false),
			stringColumn("country_iso", false),
			enumColumn("title", true, constants.Titles...),
			stringColumn("first_name", false),
			stringColumn("middle_name", true),
			stringColumn("last_name", false),
			stringColumn("display_name", true),
			enumColumn("gender", false, constants.Genders...),
			stringColumn("dob", false),
			stringColumn("age", false),
			intColumn("is_married", constants.DefaultIsMarried),
			stringColumn("rel_person_name", false),
			stringColumn("auth_sign", false),
			enumColumn("salutation_title_fr", true, constants.Salutations...),
			intColumn("is_email_verified", 0),
			intColumn("is_mobile_verified", 0),
			enumColumn("status", true, constants.EmployeeStatuses...),
			enumColumn("primary_relation", true, constants.PrimaryRelations...),
			textColumn("avatar_symbol"),
			fkColumn("created_by"),
			fkColumn("modified_by"),
		},
		PrimaryKey: []*schema.Column{employeePK},
		Indexes: []*schema.Index{
			{Name: "mmtemployees_emp_uuid", Unique: true, Columns: []*schema.Column{employeeUUIDColumn}},
		},
	}
)

var (
	onboardingPK = pkColumn("id")

	OnboardedInfoTable = &schema.Table{
		Name: constants.TableOnboardedInfo,
		Columns: []*schema.Column{
			onboardingPK,
			fkColumn("fk_emp_id"),
			enumColumn("depart_type", false, constants.DepartTypes...),
			stringColumn("month_of_joining", false),
			stringColumn("date_of_joining", false),
			enumColumn("is_weekend_off", false, constants.YesNo...),
			intColumn("working_week_days_allocated", constants.DefaultWorkingWeekDays),
			stringColumn("fiscal_year", false),
			intColumn("daily_wage", constants.DefaultDailyWage),
			intColumn("is_permanent", constants.DefaultIsPermanent),
			enumColumn("employeebility_type", false, constants.EmploymentTypes...),
			intColumn("company_working_days", constants.DefaultCompanyWorkingDays),
			intColumn("basic_salary", constants.DefaultBasicSalary),
			optIntColumn("is_trainee"),
			optIntColumn("is_additional_sa"),
			optIntColumn("is_super_annuation"),
			moneyColumn("annual_bonus"),
			moneyColumn("adhoc_allowance"),
			enumColumn("adhoc_type", true, constants.AdhocTypes...),
			textColumn("remarks"),
			fkColumn("fk_region_id"),
			fkColumn("fk_branch_id"),
			fkColumn("fk_location_id"),
			fkColumn("fk_department_id"),
			fkColumn("fk_zone_id"),
			fkColumn("fk_functional_role_id"),
			fkColumn("fk_current_design_id"),
			fkColumn("fk_incentive_role_id"),
			fkColumn("fk_national_head_emp"),
			fkColumn("fk_country_head_emp"),
		},
		PrimaryKey: []*schema.Column{onboardingPK},
	}
)

var (
	salaryPK = pkColumn("id")

	SalaryAllocationsTable = &schema.Table{
		Name: constants.TableSalaryAllocations,
		Columns: []*schema.Column{
			salaryPK,
			fkColumn("fk_emp_id"),
			stringColumn("remarks", false),
			fkColumn("fk_qualification_slab_id"),
			fkColumn("work_ex_slab_id"),
			fkColumn("fk_sub_designation"),
		},
		PrimaryKey: []*schema.Column{salaryPK},
	}
)

var (
	uploadJobPK        = pkColumn("id")
	uploadJobProcessID = stringColumn("process_id", false)
	uploadJobFileHash  = &schema.Column{Name: "file_hash", Type: field.TypeString, Size: 64, Nullable: true}

	UploadProcessLogsTable = &schema.Table{
		Name: constants.TableUploadProcessLogs,
		Columns: []*schema.Column{
			uploadJobPK,
			uploadJobProcessID,
			stringColumn("file_name", true),
			uploadJobFileHash,
			{Name: "total_records", Type: field.TypeInt64, Default: 0},
			{Name: "processed_records", Type: field.TypeInt64, Default: 0},
			enumColumn("status", false,
				string(constants.JobStatusPending),
				string(constants.JobStatusProcessing),
				string(constants.JobStatusCompleted),
				string(constants.JobStatusFailed)),
			{Name: "is_deleted", Type: field.TypeBool, Default: false},
			{Name: "created_at", Type: field.TypeTime},
			{Name: "updated_at", Type: field.TypeTime},
		},
		PrimaryKey: []*schema.Column{uploadJobPK},
		Indexes: []*schema.Index{
			{Name: "uploadprocesslogs_process_id", Unique: true, Columns: []*schema.Column{uploadJobProcessID}},
			{Name: "uploadprocesslogs_file_hash", Columns: []*schema.Column{uploadJobFileHash}},
		},
	}
)

// Tables lists every table the importer reads or writes.
var Tables = []*schema.Table{
	DesignationsTable,
	SubDesignationsTable,
	RegionsTable,
	BranchesTable,
	LocationsTable,
	ZonesTable,
	DepartmentsTable,
	FunctionalRolesTable,
	QualificationSlabsTable,
	WorkExSlabsTable,
	EmployeesTable,
	OnboardedInfoTable,
	SalaryAllocationsTable,
	UploadProcessLogsTable,
}

// primaryKey returns the generated-id column of a written table.
func primaryKey(table string) string {
	for _, t := range Tables {
		if t.Name == table && len(t.PrimaryKey) == 1 {
			return t.PrimaryKey[0].Name
		}
	}
	return "id"
}

// Migrate creates missing tables, columns and indexes.
func (s *Store) Migrate(ctx context.Context) error {
	m, err := schema.NewMigrate(s.drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		s.logger.Error("schema migration failed", "error", err)
		return fmt.Errorf("migrate schema: %w", err)
	}
	s.logger.Info("schema migration complete", "tables", len(Tables))
	return nil
}
