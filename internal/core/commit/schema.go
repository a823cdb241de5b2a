package commit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/hr-bulk-import/constants"
)

func stringProp() map[string]any {
	return map[string]any{"type": "string"}
}

func requiredString() map[string]any {
	return map[string]any{"type": "string", "minLength": 1}
}

func enumProp(values []string) map[string]any {
	return map[string]any{"type": "string", "enum": values}
}

func flagProp() map[string]any {
	return map[string]any{"type": "integer", "enum": []int{0, 1}}
}

func idProp() map[string]any {
	return map[string]any{"type": "integer", "minimum": 1}
}

func countProp() map[string]any {
	return map[string]any{"type": "integer", "minimum": 0}
}

func decimalProp() map[string]any {
	return map[string]any{
		"type":    "string",
		"pattern": `^-?\d+(\.\d{1,2})?$`,
	}
}

func objectSchema(props map[string]any, required []string, closed bool) map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": !closed,
		"properties":           props,
		"required":             required,
	}
}

// EmployeeSchema describes an mmt_employees payload.
func EmployeeSchema() map[string]any {
	props := map[string]any{
		"emp_uuid":            requiredString(),
		"email":               map[string]any{"type": "string", "format": "email"},
		"mobile_no":           map[string]any{"type": "string", "minLength": 1, "maxLength": 20},
		"country_iso":         requiredString(),
		"title":               enumProp(constants.Titles),
		"first_name":          requiredString(),
		"middle_name":         stringProp(),
		"last_name":           stringProp(),
		"display_name":        stringProp(),
		"gender":              enumProp(constants.Genders),
		"dob":                 requiredString(),
		"age":                 requiredString(),
		"is_married":          flagProp(),
		"rel_person_name":     stringProp(),
		"auth_sign":           stringProp(),
		"salutation_title_fr": enumProp(constants.Salutations),
		"is_email_verified":   flagProp(),
		"is_mobile_verified":  flagProp(),
		"status":              enumProp(constants.EmployeeStatuses),
		"primary_relation":    enumProp(constants.PrimaryRelations),
		"avatar_symbol":       stringProp(),
		"created_by":          countProp(),
		"modified_by":         countProp(),
	}
	required := []string{
		"emp_uuid", "email", "mobile_no", "country_iso", "first_name", "last_name",
		"gender", "dob", "age", "rel_person_name", "auth_sign",
	}
	return objectSchema(props, required, true)
}

// OnboardingSchema describes an emp_onboarded_companyinfo payload.
func OnboardingSchema() map[string]any {
	props := map[string]any{
		"fk_emp_id":                   idProp(),
		"depart_type":                 enumProp(constants.DepartTypes),
		"month_of_joining":            requiredString(),
		"date_of_joining":             requiredString(),
		"is_weekend_off":              enumProp(constants.YesNo),
		"working_week_days_allocated": map[string]any{"type": "integer", "minimum": 0, "maximum": 7},
		"fiscal_year":                 requiredString(),
		"daily_wage":                  countProp(),
		"is_permanent":                flagProp(),
		"employeebility_type":         enumProp(constants.EmploymentTypes),
		"company_working_days":        map[string]any{"type": "integer", "minimum": 0, "maximum": 31},
		"basic_salary":                countProp(),
		"is_trainee":                  flagProp(),
		"is_additional_sa":            flagProp(),
		"is_super_annuation":          flagProp(),
		"annual_bonus":                decimalProp(),
		"adhoc_allowance":             decimalProp(),
		"adhoc_type":                  enumProp(constants.AdhocTypes),
		"remarks":                     stringProp(),
		"fk_region_id":                idProp(),
		"fk_branch_id":                idProp(),
		"fk_location_id":              idProp(),
		"fk_department_id":            idProp(),
		"fk_zone_id":                  idProp(),
		"fk_functional_role_id":       idProp(),
		"fk_current_design_id":        idProp(),
		"fk_incentive_role_id":        idProp(),
		"fk_national_head_emp":        idProp(),
		"fk_country_head_emp":         idProp(),
	}
	required := []string{
		"fk_emp_id", "depart_type", "month_of_joining", "date_of_joining",
		"is_weekend_off", "fiscal_year", "employeebility_type",
	}
	return objectSchema(props, required, false)
}

// SalaryAllocationSchema describes an mmt_salary_allocations payload.
func SalaryAllocationSchema() map[string]any {
	props := map[string]any{
		"fk_emp_id":                idProp(),
		"remarks":                  map[string]any{"type": "string", "maxLength": 255},
		"fk_qualification_slab_id": idProp(),
		"work_ex_slab_id":          idProp(),
		"fk_sub_designation":       idProp(),
	}
	return objectSchema(props, []string{"fk_emp_id", "remarks"}, false)
}

type schemas struct {
	employee   *jsonschema.Schema
	onboarding *jsonschema.Schema
	salary     *jsonschema.Schema
}

var compiled = sync.OnceValues(func() (*schemas, error) {
	var s schemas
	var err error
	if s.employee, err = compile("employee.json", EmployeeSchema()); err != nil {
		return nil, err
	}
	if s.onboarding, err = compile("onboarding.json", OnboardingSchema()); err != nil {
		return nil, err
	}
	if s.salary, err = compile("salary_allocation.json", SalaryAllocationSchema()); err != nil {
		return nil, err
	}
	return &s, nil
})

func compile(name string, schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(name, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// validate checks payload, with raw overriding individual fields, against
// schema. The payload goes through a JSON round trip so the validator only
// sees JSON types.
func validate(schema *jsonschema.Schema, payload any, raw map[string]any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	for k, v := range raw {
		doc[k] = v
	}
	if err := schema.Validate(doc); err != nil {
		return err
	}
	return nil
}
