// Package analysis implements the case analysis workflow: the typed output of
// every extraction step, the orchestrator that drives the step graph, and the
// accumulated state that records each step's history across runs.
package analysis

import (
	"encoding/json"
	"slices"
	"strings"
)

// Step identifies one extraction stage of a case analysis.
type Step string

const (
	StepCaseCitation       Step = "case_citation"
	StepColSection         Step = "col_section"
	StepThemes             Step = "theme_classification"
	StepRelevantFacts      Step = "relevant_facts"
	StepPILProvisions      Step = "pil_provisions"
	StepColIssue           Step = "col_issue"
	StepCourtsPosition     Step = "courts_position"
	StepObiterDicta        Step = "obiter_dicta"
	StepDissentingOpinions Step = "dissenting_opinions"
	StepAbstract           Step = "abstract"
)

var steps = []Step{
	StepCaseCitation,
	StepColSection,
	StepThemes,
	StepRelevantFacts,
	StepPILProvisions,
	StepColIssue,
	StepCourtsPosition,
	StepObiterDicta,
	StepDissentingOpinions,
	StepAbstract,
}

var dependencies = map[Step][]Step{
	StepThemes:             {StepColSection},
	StepRelevantFacts:      {StepColSection},
	StepPILProvisions:      {StepColSection},
	StepColIssue:           {StepColSection, StepThemes},
	StepCourtsPosition:     {StepColIssue, StepThemes},
	StepObiterDicta:        {StepColIssue, StepThemes},
	StepDissentingOpinions: {StepColIssue, StepThemes},
	StepAbstract: {
		StepCourtsPosition,
		StepRelevantFacts,
		StepPILProvisions,
		StepThemes,
		StepColIssue,
	},
}

// optional lists outputs a step consumes when they exist but does not wait
// for. Only common-law runs produce obiter dicta and dissenting opinions.
var optional = map[Step][]Step{
	StepAbstract: {StepObiterDicta, StepDissentingOpinions},
}

var displayNames = map[Step]string{
	StepCaseCitation:       "Case Citation",
	StepColSection:         "Choice of Law Section(s)",
	StepThemes:             "Themes",
	StepRelevantFacts:      "Relevant Facts",
	StepPILProvisions:      "Private International Law Sources",
	StepColIssue:           "Choice of Law Issue(s)",
	StepCourtsPosition:     "Court's Position",
	StepObiterDicta:        "Court's Position (Obiter Dicta)",
	StepDissentingOpinions: "Dissenting Opinions",
	StepAbstract:           "Abstract",
}

// Steps returns every known step in pipeline order.
func Steps() []Step {
	return slices.Clone(steps)
}

// ParseStep validates a string as a known step.
// Returns ErrUnknownStep if the value is not recognized.
func ParseStep(s string) (Step, error) {
	v := Step(s)
	if !slices.Contains(steps, v) {
		return "", ErrUnknownStep
	}
	return v, nil
}

// UnmarshalJSON validates that the decoded string is a known step.
func (s *Step) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseStep(raw)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Dependencies returns the steps that must have produced an output
// before s may run. Independent steps return nil.
func Dependencies(s Step) []Step {
	return slices.Clone(dependencies[s])
}

// Optional returns the steps whose outputs s receives when present.
func Optional(s Step) []Step {
	return slices.Clone(optional[s])
}

// DisplayName returns the label shown to reviewers. Common-law and Indian
// decisions label the court's position as the ratio decidendi.
func (s Step) DisplayName(ls LegalSystem) string {
	if s == StepCourtsPosition && ls.CommonLawFamily() {
		return "Court's Position (Ratio Decidendi)"
	}
	if name, ok := displayNames[s]; ok {
		return name
	}
	words := strings.Split(string(s), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// index orders steps for deterministic reporting.
func (s Step) index() int {
	return slices.Index(steps, s)
}
