package constants

// DesignationAliases maps legacy designation names found in HR sheets to the
// canonical names stored in dg_designations. Keys match exactly.
var DesignationAliases = map[string]string{
	"Assistant Engineer":     "Assistant",
	"Assistant Manager":      "Assistant Manager (AM)",
	"Associate Manager":      "Associate Manager (ASM)",
	"Asst. General Manager":  "Assistant General Manager (AGM)",
	"Deputy General Manager": "Deputy General Manager (DGM)",
	"Deputy Manager":         "Deputy Manager (DM)",
	"Engineer":               "Assistant",
	"Executive":              "Executive",
	"Manager":                "Manager (MGR)",
	"Sr. Engineer":           "Assistant",
	"Sr. Executive":          "Senior Executive (SE)",
	"Sr. Manager":            "Senior Manager (SM)",
}

// QualificationAliases maps sheet qualification labels to canonical slab
// names. Keys are upper-case; lookups upper-case the input first.
var QualificationAliases = map[string]string{
	"BE":             "Engineering",
	"BE/MBA":         "Engineering-MBA",
	"DIPLOMA/MBA":    "Diploma-MBA",
	"GRADUATION/MBA": "Graduation-MBA",
	"POSTGRADUATE":   "Graduation",
}
