package prompts

import (
	"fmt"
	"regexp"
	"slices"
)

// Placeholders understood by Render.
const (
	VarText                      = "text"
	VarJurisdiction              = "jurisdiction"
	VarJurisdictionList          = "jurisdiction_list"
	VarColSection                = "col_section"
	VarThemesTable               = "themes_table"
	VarClassification            = "classification"
	VarClassificationDefinitions = "classification_definitions"
	VarFacts                     = "facts"
	VarPILProvisions             = "pil_provisions"
	VarColIssue                  = "col_issue"
	VarCourtPosition             = "court_position"
	VarObiterDicta               = "obiter_dicta"
	VarDissentingOpinions        = "dissenting_opinions"
)

var known = []string{
	VarText,
	VarJurisdiction,
	VarJurisdictionList,
	VarColSection,
	VarThemesTable,
	VarClassification,
	VarClassificationDefinitions,
	VarFacts,
	VarPILProvisions,
	VarColIssue,
	VarCourtPosition,
	VarObiterDicta,
	VarDissentingOpinions,
}

var placeholderRegex = regexp.MustCompile(`\{([a-z_]+)\}`)

// Vars maps placeholder names to values.
type Vars map[string]string

// Render substitutes {name} placeholders in a single pass, so substituted
// values are never expanded again. Placeholders absent from vars are left
// in place.
func Render(tmpl string, vars Vars) string {
	return placeholderRegex.ReplaceAllStringFunc(tmpl, func(m string) string {
		if v, ok := vars[m[1:len(m)-1]]; ok {
			return v
		}
		return m
	})
}

// Placeholders returns the distinct placeholder names used by tmpl in order
// of first appearance.
func Placeholders(tmpl string) []string {
	var names []string
	for _, m := range placeholderRegex.FindAllStringSubmatch(tmpl, -1) {
		if !slices.Contains(names, m[1]) {
			names = append(names, m[1])
		}
	}
	return names
}

// ValidateTemplate rejects templates that reference unknown placeholders or
// never include the decision text.
func ValidateTemplate(tmpl string) error {
	names := Placeholders(tmpl)
	for _, n := range names {
		if !slices.Contains(known, n) {
			return fmt.Errorf("%w: {%s}", ErrUnknownPlaceholder, n)
		}
	}
	if !slices.Contains(names, VarText) && !slices.Contains(names, VarColSection) {
		return fmt.Errorf("%w: template must reference {text} or {col_section}", ErrUnknownPlaceholder)
	}
	return nil
}
