package analysis

import "fmt"

// Apply folds out into state and returns the step it belongs to. A value
// equal to the step's current value is not appended again. The abstract is
// the final step, so applying it marks the analysis done.
//
// Apply panics on an output type it does not know; that can only happen
// when a new step is added without extending this switch.
func Apply(state *State, out Output) Step {
	var step Step
	switch o := out.(type) {
	case CaseCitation:
		step = StepCaseCitation
		state.CaseCitation = o.Citation
	case ColSection:
		step = StepColSection
	case ThemeClassification:
		step = StepThemes
	case RelevantFacts:
		step = StepRelevantFacts
	case PILProvisions:
		step = StepPILProvisions
	case ColIssue:
		step = StepColIssue
	case CourtsPosition:
		step = StepCourtsPosition
	case ObiterDicta:
		step = StepObiterDicta
	case DissentingOpinions:
		step = StepDissentingOpinions
	case Abstract:
		step = StepAbstract
		state.Done = true
	default:
		panic(fmt.Sprintf("analysis: cannot apply output of type %T", out))
	}

	t := state.Track(step)
	v := out.Value()
	if cur, ok := t.Current(); ok && cur.Equal(v) {
		return step
	}

	a := out.Assessed()
	t.Values = append(t.Values, v)
	t.Confidence = append(t.Confidence, a.Confidence)
	t.Reasoning = append(t.Reasoning, a.Reasoning)
	state.touch()
	return step
}

// Edit appends a reviewer's revision of step. The confidence and reasoning
// sequences are left alone, which marks the value as human-provided.
func Edit(state *State, step Step, v Value) error {
	if _, err := ParseStep(string(step)); err != nil {
		return err
	}
	if _, err := NewOutput(step, v, Assessment{}); err != nil {
		return err
	}

	t := state.Track(step)
	if cur, ok := t.Current(); ok && cur.Equal(v) {
		return nil
	}
	t.Values = append(t.Values, v)
	if step == StepCaseCitation {
		state.CaseCitation = v.String()
	}
	state.touch()
	return nil
}

// Complete marks the analysis as finished after reviewer submission.
func Complete(state *State) {
	state.Done = true
	state.touch()
}
