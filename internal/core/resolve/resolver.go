// Package resolve turns the names on a normalized row into reference ids.
package resolve

import (
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/joseph-ayodele/hr-bulk-import/internal/core/normalize"
	"github.com/joseph-ayodele/hr-bulk-import/internal/core/reference"
	"github.com/joseph-ayodele/hr-bulk-import/internal/entity"
)

// Canonicalizer maps legacy labels to canonical reference names.
type Canonicalizer interface {
	CanonicalDesignation(name string) string
	CanonicalQualification(name string) string
}

// Resolution holds every id resolved for one row. A nil id is unresolved.
type Resolution struct {
	Designation       string
	Qualification     string
	DesignationID     *int64
	SubDesignationID  *int64
	QualificationSlab *int64
	WorkExSlab        *int64
	NationalHeadID    *int64
	CountryHeadID     *int64
	RegionID          *int64
	BranchID          *int64
	LocationID        *int64
	DepartmentID      *int64
	ZoneID            *int64
	FunctionalRoleID  *int64
}

// Resolver reads the shared cache only, so one instance serves all workers.
type Resolver struct {
	cache   *reference.Cache
	aliases Canonicalizer
}

func New(cache *reference.Cache, aliases Canonicalizer) *Resolver {
	if aliases == nil {
		aliases = normalize.DefaultAliases()
	}
	return &Resolver{cache: cache, aliases: aliases}
}

// Resolve runs every lookup regardless of earlier misses so a row reports
// all of its problems at once.
func (r *Resolver) Resolve(rec entity.NormalizedRecord) (Resolution, []entity.Diagnostic) {
	var (
		res   Resolution
		diags []entity.Diagnostic
	)

	res.Designation = rec.String(normalize.FieldDesignation)
	id, ok := r.cache.Designation(res.Designation)
	if !ok {
		res.Designation = r.aliases.CanonicalDesignation(res.Designation)
		id, ok = r.cache.Designation(res.Designation)
	}
	if ok {
		res.DesignationID = &id
	} else {
		diags = append(diags, entity.NewDiagnostic(entity.DiagDesignationID,
			"designation id not found for designation `%s`%s", res.Designation, r.suggest(res.Designation)))
	}

	if rec.NonBlank(normalize.FieldSubDesignation) {
		res.SubDesignationID = r.optional(reference.SubDesignations, rec.String(normalize.FieldSubDesignation))
	}

	res.Qualification = rec.String(normalize.FieldQualification)
	if !r.cache.IsQualificationName(res.Qualification) {
		res.Qualification = r.aliases.CanonicalQualification(res.Qualification)
	}
	if res.DesignationID != nil {
		if id, ok := r.cache.QualificationSlab(res.Qualification, *res.DesignationID); ok {
			res.QualificationSlab = &id
		}
	}
	if res.QualificationSlab == nil {
		diags = append(diags, entity.NewDiagnostic(entity.DiagQualificationSlab,
			"no id found for qualification `%s` and designation id `%s`", res.Qualification, idString(res.DesignationID)))
	}

	grade := rec.String(normalize.FieldSalarySlab)
	if res.DesignationID != nil && res.QualificationSlab != nil {
		if id, ok := r.cache.WorkExSlab(grade, *res.DesignationID, *res.QualificationSlab); ok {
			res.WorkExSlab = &id
		}
	}
	if res.WorkExSlab == nil {
		diags = append(diags, entity.NewDiagnostic(entity.DiagWorkExSlab,
			"no id found for grade `%s`, designation id `%s` and qualification slab `%s`",
			grade, idString(res.DesignationID), idString(res.QualificationSlab)))
	}

	nh := rec.String(normalize.FieldNationalHeadID)
	if res.NationalHeadID = r.employee(nh); res.NationalHeadID == nil {
		diags = append(diags, entity.NewDiagnostic(entity.DiagNationalHead, "no id found for emp_id `%s`", nh))
	}
	ch := rec.String(normalize.FieldCountryHeadID)
	if res.CountryHeadID = r.employee(ch); res.CountryHeadID == nil {
		diags = append(diags, entity.NewDiagnostic(entity.DiagCountryHead, "no id found for emp_id `%s`", ch))
	}

	res.RegionID = r.optional(reference.Regions, rec.String(normalize.FieldRegion))
	res.BranchID = r.optional(reference.Branches, rec.String(normalize.FieldBranch))
	res.LocationID = r.optional(reference.Locations, rec.String(normalize.FieldLocation))
	res.DepartmentID = r.optional(reference.Departments, rec.String(normalize.FieldDepartment))
	res.ZoneID = r.optional(reference.Zones, rec.String(normalize.FieldZone))
	res.FunctionalRoleID = r.optional(reference.FunctionalRoles, rec.String(normalize.FieldFunctionalRole))

	return res, diags
}

func (r *Resolver) optional(d reference.Domain, name string) *int64 {
	if name == "" {
		return nil
	}
	if id, ok := r.cache.Lookup(d, name); ok {
		return &id
	}
	return nil
}

func (r *Resolver) employee(empUUID string) *int64 {
	if empUUID == "" {
		return nil
	}
	if id, ok := r.cache.EmployeeID(empUUID); ok {
		return &id
	}
	return nil
}

// suggest names the closest canonical designation, if any is close enough.
func (r *Resolver) suggest(name string) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}
	ranks := fuzzy.RankFindNormalizedFold(name, r.cache.Names(reference.Designations))
	if len(ranks) == 0 {
		return ""
	}
	best := ranks[0]
	for _, rk := range ranks[1:] {
		if rk.Distance < best.Distance {
			best = rk
		}
	}
	return " (did you mean `" + best.Target + "`?)"
}

func idString(id *int64) string {
	if id == nil {
		return "unresolved"
	}
	return strconv.FormatInt(*id, 10)
}
