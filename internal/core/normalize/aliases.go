package normalize

import (
	"fmt"
	"maps"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/hr-bulk-import/constants"
)

// Aliases maps legacy spreadsheet labels onto canonical reference names.
type Aliases struct {
	Designations   map[string]string `yaml:"designations"`
	Qualifications map[string]string `yaml:"qualifications"`
}

// DefaultAliases returns a private copy of the built-in alias tables.
func DefaultAliases() *Aliases {
	return &Aliases{
		Designations:   maps.Clone(constants.DesignationAliases),
		Qualifications: maps.Clone(constants.QualificationAliases),
	}
}

// LoadAliases reads a YAML override file and layers it over the defaults.
// An empty path returns the defaults.
func LoadAliases(path string) (*Aliases, error) {
	a := DefaultAliases()
	if path == "" {
		return a, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read aliases file: %w", err)
	}
	var override Aliases
	if err := yaml.Unmarshal(b, &override); err != nil {
		return nil, fmt.Errorf("parse aliases file %s: %w", path, err)
	}
	maps.Copy(a.Designations, override.Designations)
	for k, v := range override.Qualifications {
		a.Qualifications[strings.ToUpper(strings.TrimSpace(k))] = v
	}
	return a, nil
}

// CanonicalDesignation returns the alias target for name, or name itself.
func (a *Aliases) CanonicalDesignation(name string) string {
	if v, ok := a.Designations[name]; ok {
		return v
	}
	return name
}

// CanonicalQualification looks name up case-insensitively.
func (a *Aliases) CanonicalQualification(name string) string {
	if v, ok := a.Qualifications[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return v
	}
	return name
}
