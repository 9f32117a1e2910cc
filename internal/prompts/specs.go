package prompts

import (
	"fmt"

	"github.com/JaimeStill/cold/internal/analysis"
)

const assessmentFields = `- confidence: "low", "medium" or "high". High means the decision states
  the answer explicitly; low means it had to be pieced together or is
  uncertain.
- reasoning: One or two sentences explaining the answer and the
  confidence level.

Always respond with valid JSON, no markdown fencing.`

func textSpec(field, desc string) string {
	return fmt.Sprintf(`Respond with a JSON object matching this exact structure:

{
  %q: "<%s>",
  "confidence": "<low|medium|high>",
  "reasoning": "<explanation>"
}

Field constraints:
- %s: %s
%s`, field, field, field, desc, assessmentFields)
}

func listSpec(field, desc string) string {
	return fmt.Sprintf(`Respond with a JSON object matching this exact structure:

{
  %q: ["<item>", "<item>"],
  "confidence": "<low|medium|high>",
  "reasoning": "<explanation>"
}

Field constraints:
- %s: %s
%s`, field, field, desc, assessmentFields)
}

var specs = map[analysis.Step]string{
	analysis.StepCaseCitation: textSpec("case_citation",
		"The full citation in academic format."),
	analysis.StepColSection: listSpec("col_sections",
		"Verbatim passages, one per entry. An empty array when the decision contains no choice of law discussion."),
	analysis.StepThemes: listSpec("themes",
		"Theme names copied exactly from the themes table."),
	analysis.StepRelevantFacts: textSpec("relevant_facts",
		"A single narrative paragraph."),
	analysis.StepPILProvisions: listSpec("pil_provisions",
		"One provision or authority per entry."),
	analysis.StepColIssue: textSpec("col_issue",
		"The issue phrased as a question."),
	analysis.StepCourtsPosition: textSpec("courts_position",
		"The rule applied by the court."),
	analysis.StepObiterDicta: textSpec("obiter_dicta",
		"The obiter observations or the stated none-found answer."),
	analysis.StepDissentingOpinions: textSpec("dissenting_opinions",
		"The dissent summary or the stated none-found answer."),
	analysis.StepAbstract: textSpec("abstract",
		"A single paragraph."),
}

const detectionSpec = `Respond with a JSON object matching this exact structure:

{
  "legal_system_type": "<Civil-law jurisdiction|Common-law jurisdiction|Indian jurisdiction>",
  "precise_jurisdiction": "<jurisdiction name>",
  "jurisdiction_code": "<ISO 3166 alpha-3 code or UNK>",
  "confidence": "<low|medium|high>",
  "reasoning": "<explanation>"
}

Field constraints:
- precise_jurisdiction: A name from the list when one matches, otherwise
  the best identification or "Unknown".
` + assessmentFields

// Spec returns the fixed output specification for a step. Specifications
// are not overridable.
func Spec(step analysis.Step) (string, error) {
	text, ok := specs[step]
	if !ok {
		return "", fmt.Errorf("%w: %s", analysis.ErrUnknownStep, step)
	}
	return text, nil
}

// DetectionSpec returns the output specification for jurisdiction detection.
func DetectionSpec() string {
	return detectionSpec
}

var fields = map[analysis.Step]string{
	analysis.StepCaseCitation:       "case_citation",
	analysis.StepColSection:         "col_sections",
	analysis.StepThemes:             "themes",
	analysis.StepRelevantFacts:      "relevant_facts",
	analysis.StepPILProvisions:      "pil_provisions",
	analysis.StepColIssue:           "col_issue",
	analysis.StepCourtsPosition:     "courts_position",
	analysis.StepObiterDicta:        "obiter_dicta",
	analysis.StepDissentingOpinions: "dissenting_opinions",
	analysis.StepAbstract:           "abstract",
}

// Field returns the JSON field that carries the result of step in a
// response that follows Spec(step).
func Field(step analysis.Step) (string, error) {
	f, ok := fields[step]
	if !ok {
		return "", fmt.Errorf("%w: %s", analysis.ErrUnknownStep, step)
	}
	return f, nil
}
