// Package normalize coerces raw spreadsheet cells into typed fields and
// checks the mandatory set before any lookup or write happens.
package normalize

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/hr-bulk-import/internal/entity"
)

// Spreadsheet column names.
const (
	FieldEmail             = "email"
	FieldMobileNo          = "mobile_no"
	FieldTitle             = "title"
	FieldFirstName         = "first_name"
	FieldMiddleName        = "middle_name"
	FieldLastName          = "last_name"
	FieldGender            = "gender"
	FieldIsMarried         = "is_married"
	FieldDateOfBirth       = "date_of_birth"
	FieldAge               = "age"
	FieldEmpID             = "emp_id"
	FieldDOJ               = "DOJ"
	FieldDesignation       = "new_hierarchical_designation"
	FieldFunctionalRole    = "new_functional_role"
	FieldRoleForIPP        = "role_for_ipp_calculation"
	FieldDepartmentIPP     = "department_ind_performance_pay"
	FieldDepartment        = "department"
	FieldRegion            = "region"
	FieldBranch            = "branch"
	FieldLocation          = "location"
	FieldZone              = "zone"
	FieldYearOfPassing     = "year_of_passing"
	FieldQualification     = "scale_considered"
	FieldSalarySlab        = "final_slab_considered"
	FieldIsTrainee         = "is_trainee"
	FieldIsAdditionalSA    = "is_additional_sa"
	FieldIsSuperAnnuation  = "is_super_annuation"
	FieldAnnualBonus       = "annual_bonus"
	FieldAdhocAllowance    = "adhoc_allowance"
	FieldAdhocType         = "adhoc_type"
	FieldRemarksOnboarding = "remarks_onboarding"
	FieldRemarksSalary     = "remarks_salary_allocation"
	FieldSubDesignation    = "sub_designation"
	FieldNationalHeadName  = "national_head_emp_name"
	FieldNationalHeadID    = "national_head_emp_id"
	FieldCountryHeadName   = "country_head_emp_name"
	FieldCountryHeadID     = "country_head_emp_id"
)

type transform func(v any) (any, error)

type fieldRule struct {
	name      string
	transform transform
	mandatory bool
}

// fields is ordered as the sheet template lays columns out, which is also
// the order missing-field diagnostics are reported in.
var fields = []fieldRule{
	{FieldEmail, trim, true},
	{FieldMobileNo, stringify, true},
	{FieldTitle, caseFold, true},
	{FieldFirstName, trim, true},
	{FieldMiddleName, trim, false},
	{FieldLastName, trim, false},
	{FieldGender, caseFold, true},
	{FieldIsMarried, trim, true},
	{FieldDateOfBirth, stringify, true},
	{FieldAge, age, true},
	{FieldEmpID, stringify, true},
	{FieldDOJ, stringify, true},
	{FieldDesignation, trim, true},
	{FieldFunctionalRole, trim, true},
	{FieldRoleForIPP, trim, true},
	{FieldDepartmentIPP, trim, true},
	{FieldDepartment, trim, true},
	{FieldRegion, trim, true},
	{FieldBranch, trim, true},
	{FieldLocation, trim, true},
	{FieldZone, stringify, true},
	{FieldYearOfPassing, trim, true},
	{FieldQualification, trim, true},
	{FieldSalarySlab, upper, true},
	{FieldIsTrainee, trim, true},
	{FieldIsAdditionalSA, trim, true},
	{FieldIsSuperAnnuation, trim, true},
	{FieldAnnualBonus, toDecimal, false},
	{FieldAdhocAllowance, toDecimal, false},
	{FieldAdhocType, trim, true},
	{FieldRemarksOnboarding, trim, false},
	{FieldRemarksSalary, trim, false},
	{FieldSubDesignation, trim, true},
	{FieldNationalHeadName, trim, true},
	{FieldNationalHeadID, trim, true},
	{FieldCountryHeadName, trim, true},
	{FieldCountryHeadID, trim, true},
}

var known = func() map[string]struct{} {
	m := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		m[f.name] = struct{}{}
	}
	return m
}()

// MandatoryFields lists the columns every row must carry.
func MandatoryFields() []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.mandatory {
			out = append(out, f.name)
		}
	}
	return out
}

// AmountFields lists the columns holding money amounts.
func AmountFields() []string {
	return []string{FieldAnnualBonus, FieldAdhocAllowance}
}

// Normalizer applies the field transform table and owns the alias tables.
type Normalizer struct {
	aliases *Aliases
}

// New returns a Normalizer. A nil aliases uses the built-in tables.
func New(aliases *Aliases) *Normalizer {
	if aliases == nil {
		aliases = DefaultAliases()
	}
	return &Normalizer{aliases: aliases}
}

// Normalize transforms rec and reports each missing mandatory field. A
// transform that rejects a non-blank input leaves the field nil and adds a
// validation diagnostic.
func (n *Normalizer) Normalize(rec entity.InputRecord) (entity.NormalizedRecord, []entity.Diagnostic) {
	out := make(entity.NormalizedRecord, len(rec))
	for k, v := range rec {
		if _, ok := known[k]; !ok {
			out[k] = passThrough(v)
		}
	}

	var diags []entity.Diagnostic
	for _, f := range fields {
		in := rec[f.name]
		v, err := f.transform(in)
		if err != nil {
			out[f.name] = nil
			diags = append(diags, entity.NewDiagnostic(entity.DiagValidation,
				"%s: invalid value `%v`: %v", f.name, in, err))
			continue
		}
		out[f.name] = v
		if f.mandatory && v == nil {
			diags = append(diags, entity.NewDiagnostic(entity.DiagFieldNotFound, "field not found: `%s`", f.name))
		}
	}
	return out, diags
}

func (n *Normalizer) CanonicalDesignation(name string) string {
	return n.aliases.CanonicalDesignation(name)
}

func (n *Normalizer) CanonicalQualification(name string) string {
	return n.aliases.CanonicalQualification(name)
}

var (
	errNotNumeric = errors.New("not numeric")
	errOutOfRange = errors.New("out of range")
)

var groupSeparators = strings.NewReplacer(",", "", " ", "", "\u00a0", "")

func passThrough(v any) any {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return v
}

// blankNil maps an empty string to nil so it counts as missing.
func blankNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func trim(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return blankNil(strings.TrimSpace(t)), nil
	default:
		return stringify(v)
	}
}

func stringify(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case string:
		return blankNil(strings.TrimSpace(t)), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return blankNil(strings.TrimSpace(fmt.Sprint(t))), nil
	}
}

func upper(v any) (any, error) {
	s, err := stringify(v)
	if s == nil || err != nil {
		return s, err
	}
	return strings.ToUpper(s.(string)), nil
}

func caseFold(v any) (any, error) {
	s, err := stringify(v)
	if s == nil || err != nil {
		return s, err
	}
	return blankNil(strings.TrimSuffix(strings.ToLower(s.(string)), ".")), nil
}

// age renders numeric values as a whole number string: 34.0 becomes "34".
func age(v any) (any, error) {
	var f float64
	switch t := v.(type) {
	case nil:
		return nil, nil
	case float64:
		f = t
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case string:
		s := strings.TrimSpace(t)
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return blankNil(s), nil
		}
		f = parsed
	default:
		return stringify(v)
	}
	// int64 conversion of anything outside this range is undefined.
	if math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return nil, errOutOfRange
	}
	return strconv.FormatInt(int64(f), 10), nil
}

func toDecimal(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return nil, errNotNumeric
		}
		return decimal.NewFromFloat(t), nil
	case int:
		return decimal.NewFromInt(int64(t)), nil
	case int64:
		return decimal.NewFromInt(t), nil
	case string:
		s := groupSeparators.Replace(strings.TrimSpace(t))
		if s == "" {
			return nil, nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, errNotNumeric
		}
		return d, nil
	default:
		return nil, errNotNumeric
	}
}
