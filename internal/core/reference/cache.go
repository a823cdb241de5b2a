package reference

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/hr-bulk-import/constants"
	"github.com/joseph-ayodele/hr-bulk-import/internal/common"
)

// Fetcher reads a whole lookup table.
type Fetcher interface {
	FetchTable(ctx context.Context, table string, columns ...string) ([]map[string]any, error)
}

// Domain names one name-to-id lookup.
type Domain string

const (
	Designations       Domain = "designation"
	SubDesignations    Domain = "sub_designation"
	Regions            Domain = "region"
	Branches           Domain = "branch"
	Locations          Domain = "location"
	Zones              Domain = "zone"
	Departments        Domain = "department"
	FunctionalRoles    Domain = "functional_role"
	QualificationSlabs Domain = "qualification_slab"
	WorkExSlabs        Domain = "work_ex_slab"
	Employees          Domain = "employee"
)

// QualificationKey identifies a qualification slab.
type QualificationKey struct {
	SlabName      string
	DesignationID int64
}

// WorkExKey identifies a work-experience slab.
type WorkExKey struct {
	Grade               string
	DesignationID       int64
	QualificationSlabID int64
}

type tableSpec struct {
	domain   Domain
	table    string
	id       string
	name     string
	required bool
}

// simpleTables are the plain name-to-id lookups.
var simpleTables = []tableSpec{
	{Designations, constants.TableDesignations, "design_id", "designation_name", true},
	{Employees, constants.TableEmployees, "emp_id", "emp_uuid", true},
	{SubDesignations, constants.TableSubDesignations, "id", "name", false},
	{Regions, constants.TableRegions, "id", "rg_name", false},
	{Branches, constants.TableBranches, "branch_id", "branch_name", false},
	{Locations, constants.TableLocations, "location_id", "location_name", false},
	{Zones, constants.TableZones, "id", "rg_name", false},
	{Departments, constants.TableDepartments, "dept_id", "dept_name", false},
	{FunctionalRoles, constants.TableFunctionalRoles, "id", "role_name", false},
}

// Cache holds every lookup for one import job. It has no mutators after
// Load returns, so workers read it without locking.
type Cache struct {
	names     map[Domain]map[string]int64
	qualSlabs map[QualificationKey]int64
	qualNames map[string]struct{}
	workEx    map[WorkExKey]int64
}

// Load reads all lookup tables. A failure on a required table (employees,
// designations) aborts with common.ErrReferenceLoad; optional tables degrade
// to empty mappings.
func Load(ctx context.Context, f Fetcher, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()
	c := &Cache{
		names:     make(map[Domain]map[string]int64, len(simpleTables)),
		qualSlabs: map[QualificationKey]int64{},
		qualNames: map[string]struct{}{},
		workEx:    map[WorkExKey]int64{},
	}

	for _, spec := range simpleTables {
		rows, err := f.FetchTable(ctx, spec.table, spec.id, spec.name)
		if err != nil {
			if spec.required || ctx.Err() != nil {
				logger.Error("reference.table.failed", "table", spec.table, "err", err)
				return nil, fmt.Errorf("%w: %s: %w", common.ErrReferenceLoad, spec.table, err)
			}
			logger.Warn("reference.table.degraded", "table", spec.table, "err", err)
			rows = nil
		}
		m := make(map[string]int64, len(rows))
		for _, r := range rows {
			name, ok := nameOf(r[spec.name])
			if !ok {
				continue
			}
			id, ok := idOf(r[spec.id])
			if !ok {
				continue
			}
			m[name] = id
		}
		c.names[spec.domain] = m
	}

	rows, err := f.FetchTable(ctx, constants.TableQualificationSlabs, "id", "slab_name", "fk_designation_id")
	if err != nil {
		logger.Warn("reference.table.degraded", "table", constants.TableQualificationSlabs, "err", err)
	}
	for _, r := range rows {
		name, ok := nameOf(r["slab_name"])
		if !ok {
			continue
		}
		c.qualNames[name] = struct{}{}
		id, ok1 := idOf(r["id"])
		desig, ok2 := idOf(r["fk_designation_id"])
		if ok1 && ok2 {
			c.qualSlabs[QualificationKey{SlabName: name, DesignationID: desig}] = id
		}
	}

	rows, err = f.FetchTable(ctx, constants.TableWorkExSlabs, "id", "grade", "fk_designation_id", "fk_qualification_slab")
	if err != nil {
		logger.Warn("reference.table.degraded", "table", constants.TableWorkExSlabs, "err", err)
	}
	for _, r := range rows {
		grade, ok := nameOf(r["grade"])
		if !ok {
			continue
		}
		id, ok1 := idOf(r["id"])
		desig, ok2 := idOf(r["fk_designation_id"])
		qual, ok3 := idOf(r["fk_qualification_slab"])
		if ok1 && ok2 && ok3 {
			c.workEx[WorkExKey{Grade: grade, DesignationID: desig, QualificationSlabID: qual}] = id
		}
	}

	logger.Info("reference.cache.loaded",
		"stats", c.Stats(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return c, nil
}

// Lookup resolves a name in a simple domain.
func (c *Cache) Lookup(d Domain, name string) (int64, bool) {
	id, ok := c.names[d][strings.TrimSpace(name)]
	return id, ok
}

// Designation resolves a canonical designation name.
func (c *Cache) Designation(name string) (int64, bool) {
	return c.Lookup(Designations, name)
}

// EmployeeID maps an employee UUID to its numeric id.
func (c *Cache) EmployeeID(empUUID string) (int64, bool) {
	return c.Lookup(Employees, empUUID)
}

// IsQualificationName reports whether name is a canonical slab name.
func (c *Cache) IsQualificationName(name string) bool {
	_, ok := c.qualNames[strings.TrimSpace(name)]
	return ok
}

// QualificationSlab resolves (slab name, designation id).
func (c *Cache) QualificationSlab(name string, designationID int64) (int64, bool) {
	id, ok := c.qualSlabs[QualificationKey{SlabName: strings.TrimSpace(name), DesignationID: designationID}]
	return id, ok
}

// WorkExSlab resolves (grade, designation id, qualification slab id).
func (c *Cache) WorkExSlab(grade string, designationID, qualificationSlabID int64) (int64, bool) {
	id, ok := c.workEx[WorkExKey{
		Grade:               strings.TrimSpace(grade),
		DesignationID:       designationID,
		QualificationSlabID: qualificationSlabID,
	}]
	return id, ok
}

// Names returns the sorted names of a simple domain.
func (c *Cache) Names(d Domain) []string {
	out := make([]string, 0, len(c.names[d]))
	for n := range c.names[d] {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Stats reports the number of entries per domain.
func (c *Cache) Stats() map[Domain]int {
	s := make(map[Domain]int, len(c.names)+2)
	for d, m := range c.names {
		s[d] = len(m)
	}
	s[QualificationSlabs] = len(c.qualSlabs)
	s[WorkExSlabs] = len(c.workEx)
	return s
}

func nameOf(v any) (string, bool) {
	var s string
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		s = t
	case []byte:
		s = string(t)
	default:
		s = fmt.Sprint(t)
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

func idOf(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case int32:
		return int64(t), true
	case uint64:
		if t > math.MaxInt64 {
			return 0, false
		}
		return int64(t), true
	case float64:
		if t != math.Trunc(t) {
			return 0, false
		}
		return int64(t), true
	case []byte:
		return idOf(string(t))
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}
