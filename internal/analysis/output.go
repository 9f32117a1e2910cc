package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Confidence is the model's categorical self-assessment of a step result.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// ParseConfidence validates a confidence level, ignoring case.
func ParseConfidence(s string) (Confidence, error) {
	switch c := Confidence(strings.ToLower(strings.TrimSpace(s))); c {
	case ConfidenceLow, ConfidenceMedium, ConfidenceHigh:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidConfidence, s)
	}
}

// UnmarshalJSON rejects unknown confidence levels.
func (c *Confidence) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseConfidence(raw)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Assessment carries the confidence and reasoning attached to every output.
type Assessment struct {
	Confidence Confidence `json:"confidence"`
	Reasoning  string     `json:"reasoning"`
}

// Assessed returns the assessment itself; embedding types inherit it.
func (a Assessment) Assessed() Assessment {
	return a
}

// Output is the result of one extraction step. The set of implementations
// is closed: one struct per Step.
type Output interface {
	Step() Step
	Value() Value
	Assessed() Assessment
	output()
}

// CaseCitation is the formal citation of the decision.
type CaseCitation struct {
	Citation string `json:"case_citation"`
	Assessment
}

// ColSection holds the passages of the decision that discuss choice of law.
type ColSection struct {
	Sections []string `json:"col_sections"`
	Assessment
}

// ThemeClassification holds the private international law themes of the case,
// drawn from the controlled vocabulary.
type ThemeClassification struct {
	Themes []string `json:"themes"`
	Assessment
}

// RelevantFacts summarizes the facts material to the choice-of-law question.
type RelevantFacts struct {
	Facts string `json:"relevant_facts"`
	Assessment
}

// PILProvisions lists the private international law sources the court relied on.
type PILProvisions struct {
	Provisions []string `json:"pil_provisions"`
	Assessment
}

// ColIssue states the choice-of-law issue before the court.
type ColIssue struct {
	Issue string `json:"col_issue"`
	Assessment
}

// CourtsPosition states the court's answer to the choice-of-law issue.
type CourtsPosition struct {
	Position string `json:"courts_position"`
	Assessment
}

// ObiterDicta records remarks not essential to the holding.
type ObiterDicta struct {
	Dicta string `json:"obiter_dicta"`
	Assessment
}

// DissentingOpinions records minority opinions on the choice-of-law issue.
type DissentingOpinions struct {
	Opinions string `json:"dissenting_opinions"`
	Assessment
}

// Abstract is the final synthesis of every prior step.
type Abstract struct {
	Abstract string `json:"abstract"`
	Assessment
}

func (CaseCitation) Step() Step        { return StepCaseCitation }
func (ColSection) Step() Step          { return StepColSection }
func (ThemeClassification) Step() Step { return StepThemes }
func (RelevantFacts) Step() Step       { return StepRelevantFacts }
func (PILProvisions) Step() Step       { return StepPILProvisions }
func (ColIssue) Step() Step            { return StepColIssue }
func (CourtsPosition) Step() Step      { return StepCourtsPosition }
func (ObiterDicta) Step() Step         { return StepObiterDicta }
func (DissentingOpinions) Step() Step  { return StepDissentingOpinions }
func (Abstract) Step() Step            { return StepAbstract }

func (o CaseCitation) Value() Value        { return TextValue(o.Citation) }
func (o ColSection) Value() Value          { return ListValue(o.Sections...) }
func (o ThemeClassification) Value() Value { return ListValue(o.Themes...) }
func (o RelevantFacts) Value() Value       { return TextValue(o.Facts) }
func (o PILProvisions) Value() Value       { return ListValue(o.Provisions...) }
func (o ColIssue) Value() Value            { return TextValue(o.Issue) }
func (o CourtsPosition) Value() Value      { return TextValue(o.Position) }
func (o ObiterDicta) Value() Value         { return TextValue(o.Dicta) }
func (o DissentingOpinions) Value() Value  { return TextValue(o.Opinions) }
func (o Abstract) Value() Value            { return TextValue(o.Abstract) }

func (CaseCitation) output()        {}
func (ColSection) output()          {}
func (ThemeClassification) output() {}
func (RelevantFacts) output()       {}
func (PILProvisions) output()       {}
func (ColIssue) output()            {}
func (CourtsPosition) output()      {}
func (ObiterDicta) output()         {}
func (DissentingOpinions) output()  {}
func (Abstract) output()            {}

// NewOutput builds the output variant for step from a history value.
// List steps accept text values by splitting them into lines; text steps
// reject list values with ErrValueShape.
func NewOutput(step Step, v Value, a Assessment) (Output, error) {
	text := func() (string, error) {
		if v.IsList() {
			return "", fmt.Errorf("%w: %s expects text", ErrValueShape, step)
		}
		return v.String(), nil
	}

	switch step {
	case StepColSection:
		return ColSection{Sections: v.Items(), Assessment: a}, nil
	case StepThemes:
		return ThemeClassification{Themes: themeItems(v), Assessment: a}, nil
	case StepPILProvisions:
		return PILProvisions{Provisions: v.Items(), Assessment: a}, nil
	}

	s, err := text()
	if err != nil {
		return nil, err
	}

	switch step {
	case StepCaseCitation:
		return CaseCitation{Citation: s, Assessment: a}, nil
	case StepRelevantFacts:
		return RelevantFacts{Facts: s, Assessment: a}, nil
	case StepColIssue:
		return ColIssue{Issue: s, Assessment: a}, nil
	case StepCourtsPosition:
		return CourtsPosition{Position: s, Assessment: a}, nil
	case StepObiterDicta:
		return ObiterDicta{Dicta: s, Assessment: a}, nil
	case StepDissentingOpinions:
		return DissentingOpinions{Opinions: s, Assessment: a}, nil
	case StepAbstract:
		return Abstract{Abstract: s, Assessment: a}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStep, step)
	}
}

// themeItems accepts the comma-separated form reviewers type when editing themes.
func themeItems(v Value) []string {
	if v.IsList() {
		return v.Items()
	}
	var themes []string
	for part := range strings.SplitSeq(v.String(), ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			themes = append(themes, trimmed)
		}
	}
	return themes
}
