package extraction

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/cold/internal/analysis"
	"github.com/JaimeStill/cold/internal/prompts"
	"github.com/JaimeStill/cold/internal/themes"
)

// systemPrompt adds the jurisdiction summary and legal tradition of the
// decision to the catalog's base system prompt.
func (e *Extractor) systemPrompt(in analysis.Input) string {
	var sb strings.Builder
	sb.WriteString(e.catalog.System())

	if name := preciseName(in.PreciseJurisdiction); name != "" {
		if summary := e.jurisdictions.Summary(name); summary != "" {
			fmt.Fprintf(&sb, "\n\nJurisdiction context: this case originates from %s. "+
				"The private international law framework of this jurisdiction:\n\n%s\n\n"+
				"Use this context to inform the analysis but base conclusions on the decision text.",
				name, summary)
		} else {
			fmt.Fprintf(&sb, "\n\nJurisdiction context: this case originates from %s. "+
				"Consider this when analysing the private international law elements of the decision.",
				name)
		}
	}

	if in.LegalSystem != "" && in.LegalSystem != analysis.UnknownSystem {
		fmt.Fprintf(&sb, "\n\nLegal system context: %s. "+
			"Consider the methods of this legal tradition in the analysis.",
			in.LegalSystem.Label())
	}

	return sb.String()
}

func preciseName(precise *string) string {
	if precise == nil {
		return ""
	}
	name := strings.TrimSpace(*precise)
	if strings.EqualFold(name, "unknown") {
		return ""
	}
	return name
}

// vars maps the step inputs onto template placeholders. Absent dependencies
// leave their placeholders unset.
func (e *Extractor) vars(in analysis.Input) prompts.Vars {
	v := prompts.Vars{
		prompts.VarText:         in.FullText,
		prompts.VarThemesTable:  e.themes.Table(),
		prompts.VarJurisdiction: in.LegalSystem.Label(),
	}
	if name := preciseName(in.PreciseJurisdiction); name != "" {
		v[prompts.VarJurisdiction] = name
	}

	deps := in.Deps
	if deps.Has(analysis.StepColSection) {
		v[prompts.VarColSection] = strings.Join(deps.Items(analysis.StepColSection), "\n\n")
	}
	if deps.Has(analysis.StepThemes) {
		names := deps.Items(analysis.StepThemes)
		v[prompts.VarClassification] = strings.Join(names, ", ")
		v[prompts.VarClassificationDefinitions] = themes.Table(e.themes.Filter(names))
	}
	if deps.Has(analysis.StepRelevantFacts) {
		v[prompts.VarFacts] = deps.Text(analysis.StepRelevantFacts)
	}
	if deps.Has(analysis.StepPILProvisions) {
		v[prompts.VarPILProvisions] = strings.Join(deps.Items(analysis.StepPILProvisions), "\n")
	}
	if deps.Has(analysis.StepColIssue) {
		v[prompts.VarColIssue] = deps.Text(analysis.StepColIssue)
	}
	if deps.Has(analysis.StepCourtsPosition) {
		v[prompts.VarCourtPosition] = deps.Text(analysis.StepCourtsPosition)
	}

	// Civil-law runs never produce these; their templates do not reference them.
	v[prompts.VarObiterDicta] = deps.Text(analysis.StepObiterDicta)
	v[prompts.VarDissentingOpinions] = deps.Text(analysis.StepDissentingOpinions)

	return v
}
