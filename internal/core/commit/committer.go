// Package commit assembles and writes the employee, onboarding and salary
// allocation rows for one resolved spreadsheet row.
package commit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/joseph-ayodele/hr-bulk-import/constants"
	"github.com/joseph-ayodele/hr-bulk-import/internal/common"
	"github.com/joseph-ayodele/hr-bulk-import/internal/core/normalize"
	"github.com/joseph-ayodele/hr-bulk-import/internal/core/resolve"
	"github.com/joseph-ayodele/hr-bulk-import/internal/entity"
)

// Inserter writes one auto-committed row and returns its generated id. Errors
// caused by the row's data must satisfy errors.Is(err, common.ErrRowRejected);
// any other error aborts the job.
type Inserter interface {
	InsertRow(ctx context.Context, table string, row entity.Row) (int64, error)
}

// Committer performs the three dependent writes for a row. There is no
// transaction across them: rows already written stay written when a later
// write fails.
type Committer struct {
	db     Inserter
	logger *slog.Logger
}

func New(db Inserter, logger *slog.Logger) *Committer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Committer{db: db, logger: logger}
}

// Commit writes Employee, then OnboardingInfo and SalaryAllocation keyed by
// the new employee id. Business failures come back as diagnostics; an
// infrastructure failure is returned as the error and ends the row at once.
func (c *Committer) Commit(ctx context.Context, rec entity.NormalizedRecord, res resolve.Resolution) ([]entity.Diagnostic, error) {
	sc, err := compiled()
	if err != nil {
		return nil, common.WrapError(err, "compile entity schemas")
	}
	logger := common.AnnotateLogger(ctx, c.logger)

	var diags []entity.Diagnostic
	empID, d, err := c.write(ctx, logger, constants.TableEmployees, sc.employee, BuildEmployee(rec), nil)
	diags = append(diags, d...)
	if err != nil {
		return diags, err
	}

	onboarding, onboardingRaw, d := BuildOnboarding(rec, res)
	diags = append(diags, d...)
	salary := BuildSalaryAllocation(rec, res)

	if empID == nil {
		for _, table := range []string{constants.TableOnboardedInfo, constants.TableSalaryAllocations} {
			diags = append(diags, entity.NewDiagnostic(entity.DiagDependency,
				"insertion into `%s` skipped: employee row was not created", table))
		}
		return diags, nil
	}
	onboarding.EmpID = empID
	salary.EmpID = empID

	if len(d) == 0 {
		_, d, err = c.write(ctx, logger, constants.TableOnboardedInfo, sc.onboarding, onboarding, onboardingRaw)
		diags = append(diags, d...)
		if err != nil {
			return diags, err
		}
	}

	_, d, err = c.write(ctx, logger, constants.TableSalaryAllocations, sc.salary, salary, nil)
	diags = append(diags, d...)
	return diags, err
}

// write validates payload and inserts it. A nil id with no error means the
// row was rejected and a diagnostic was produced.
func (c *Committer) write(ctx context.Context, logger *slog.Logger, table string, schema *jsonschema.Schema, payload any, raw map[string]any) (*int64, []entity.Diagnostic, error) {
	if err := validate(schema, payload, raw); err != nil {
		logger.Debug("import.row.invalid", "table", table, "err", err)
		return nil, []entity.Diagnostic{entity.NewDiagnostic(entity.DiagValidation,
			"%s: %s", table, validationDetail(err))}, nil
	}
	row, err := entity.ToRow(payload)
	if err != nil {
		return nil, nil, err
	}
	id, err := c.db.InsertRow(ctx, table, row)
	if err != nil {
		if errors.Is(err, common.ErrRowRejected) {
			logger.Debug("import.row.insert_rejected", "table", table, "err", err)
			return nil, []entity.Diagnostic{entity.NewDiagnostic(entity.DiagInsertion,
				"insertion into `%s` failed: %v", table, err)}, nil
		}
		logger.Error("import.row.insert_unavailable", "table", table, "err", err)
		return nil, nil, common.Unavailable(fmt.Errorf("insert into %s: %w", table, err))
	}
	logger.Debug("import.row.inserted", "table", table, "id", id)
	return &id, nil, nil
}

// validationDetail flattens a schema error onto one line.
func validationDetail(err error) string {
	return strings.Join(strings.Fields(err.Error()), " ")
}

// BuildEmployee assembles the mmt_employees payload.
func BuildEmployee(rec entity.NormalizedRecord) entity.Employee {
	modifiedBy := int64(constants.DefaultModifiedBy)
	first := rec.String(normalize.FieldFirstName)
	middle := rec.StringPtr(normalize.FieldMiddleName)
	last := rec.String(normalize.FieldLastName)

	emp := entity.Employee{
		EmpUUID:           rec.String(normalize.FieldEmpID),
		Email:             rec.String(normalize.FieldEmail),
		MobileNo:          rec.String(normalize.FieldMobileNo),
		CountryISO:        constants.DefaultCountryISO,
		Title:             rec.StringPtr(normalize.FieldTitle),
		FirstName:         first,
		MiddleName:        middle,
		LastName:          last,
		DisplayName:       DisplayName(first, rec.String(normalize.FieldMiddleName), last),
		Gender:            rec.String(normalize.FieldGender),
		DOB:               rec.String(normalize.FieldDateOfBirth),
		Age:               rec.String(normalize.FieldAge),
		IsMarried:         constants.DefaultIsMarried,
		RelPersonName:     constants.DefaultRelPersonName,
		AuthSign:          constants.DefaultAuthSign,
		SalutationTitleFR: constants.DefaultSalutation,
		IsEmailVerified:   constants.DefaultEmailVerified,
		IsMobileVerified:  constants.DefaultMobileVerified,
		Status:            constants.DefaultEmployeeStatus,
		PrimaryRelation:   constants.DefaultPrimaryRelation,
		AvatarSymbol:      constants.DefaultAvatarSymbol,
		ModifiedBy:        &modifiedBy,
	}
	if v, ok := parseFlag(rec.String(normalize.FieldIsMarried)); ok {
		emp.IsMarried = v
	}
	return emp
}

// BuildOnboarding assembles the emp_onboarded_companyinfo payload. raw
// carries flag values that could not be parsed so validation reports them. A
// joining date that cannot be parsed yields a diagnostic and the payload must
// not be written.
func BuildOnboarding(rec entity.NormalizedRecord, res resolve.Resolution) (entity.OnboardingInfo, map[string]any, []entity.Diagnostic) {
	var diags []entity.Diagnostic
	doj := rec.String(normalize.FieldDOJ)
	month, err := MonthOfJoining(doj)
	if err != nil {
		diags = append(diags, entity.NewDiagnostic(entity.DiagValidation,
			"%s: date_of_joining `%s` is not a recognised date", constants.TableOnboardedInfo, doj))
	}

	info := entity.OnboardingInfo{
		DepartType:               constants.DefaultDepartType,
		MonthOfJoining:           month,
		DateOfJoining:            doj,
		IsWeekendOff:             constants.DefaultWeekendOff,
		WorkingWeekDaysAllocated: constants.DefaultWorkingWeekDays,
		FiscalYear:               constants.DefaultFiscalYear,
		DailyWage:                constants.DefaultDailyWage,
		IsPermanent:              constants.DefaultIsPermanent,
		EmploymentType:           constants.DefaultEmploymentType,
		CompanyWorkingDays:       constants.DefaultCompanyWorkingDays,
		BasicSalary:              constants.DefaultBasicSalary,
		AnnualBonus:              rec.Decimal(normalize.FieldAnnualBonus),
		AdhocAllowance:           rec.Decimal(normalize.FieldAdhocAllowance),
		AdhocType:                rec.StringPtr(normalize.FieldAdhocType),
		Remarks:                  rec.String(normalize.FieldRemarksOnboarding),
		RegionID:                 res.RegionID,
		BranchID:                 res.BranchID,
		LocationID:               res.LocationID,
		DepartmentID:             res.DepartmentID,
		ZoneID:                   res.ZoneID,
		FunctionalRoleID:         res.FunctionalRoleID,
		CurrentDesignID:          res.DesignationID,
		IncentiveRoleID:          res.WorkExSlab,
		NationalHeadEmpID:        res.NationalHeadID,
		CountryHeadEmpID:         res.CountryHeadID,
	}

	raw := map[string]any{}
	for field, dst := range map[string]**int{
		normalize.FieldIsTrainee:        &info.IsTrainee,
		normalize.FieldIsAdditionalSA:   &info.IsAdditionalSA,
		normalize.FieldIsSuperAnnuation: &info.IsSuperAnnuation,
	} {
		s := rec.String(field)
		if s == "" {
			continue
		}
		if v, ok := parseFlag(s); ok {
			*dst = &v
		} else {
			raw[field] = s
		}
	}
	return info, raw, diags
}

// BuildSalaryAllocation assembles the mmt_salary_allocations payload.
func BuildSalaryAllocation(rec entity.NormalizedRecord, res resolve.Resolution) entity.SalaryAllocation {
	return entity.SalaryAllocation{
		Remarks:             rec.String(normalize.FieldRemarksSalary),
		QualificationSlabID: res.QualificationSlab,
		WorkExSlabID:        res.WorkExSlab,
		SubDesignationID:    res.SubDesignationID,
	}
}

var titleCaser = cases.Title(language.English)

// DisplayName renders "F. M. Last" from the name parts.
func DisplayName(first, middle, last string) string {
	var b strings.Builder
	b.WriteString(initial(first))
	b.WriteString(".")
	if m := initial(middle); m != "" {
		b.WriteString(m)
		b.WriteString(".")
	}
	b.WriteString(" ")
	b.WriteString(titleCaser.String(strings.TrimSpace(last)))
	return b.String()
}

func initial(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r))
}

var joiningLayouts = []string{
	"2-Jan-06",
	"2-Jan-2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01-02-06",
	"02/01/2006",
}

// MonthOfJoining returns the full English month name of a joining date.
func MonthOfJoining(doj string) (string, error) {
	doj = strings.TrimSpace(doj)
	for _, layout := range joiningLayouts {
		if t, err := time.Parse(layout, doj); err == nil {
			return t.Month().String(), nil
		}
	}
	return "", fmt.Errorf("unrecognised date %q", doj)
}

func parseFlag(s string) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "1.0", "yes", "y", "true":
		return 1, true
	case "0", "0.0", "no", "n", "false":
		return 0, true
	default:
		return 0, false
	}
}
