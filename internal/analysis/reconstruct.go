package analysis

import "fmt"

// ResumedReasoning is attached to reconstructed outputs whose value has no
// matching reasoning entry.
const ResumedReasoning = "Resumed from previous state"

// Reconstruct rebuilds the outputs recorded in state so a new run can skip
// them. The last value of each non-empty track becomes the output payload.
// Its confidence and reasoning are the last entries of those tracks only
// while they are as long as the value track; a reviewer edit appends a value
// alone, so an edited step resumes with medium confidence and
// ResumedReasoning.
func Reconstruct(state *State) (Outputs, error) {
	outputs := make(Outputs)
	if state == nil {
		return outputs, nil
	}

	for step, t := range state.Steps {
		v, ok := t.Current()
		if !ok {
			continue
		}

		a := Assessment{
			Confidence: ConfidenceMedium,
			Reasoning:  ResumedReasoning,
		}
		n := len(t.Values)
		if len(t.Confidence) == n {
			a.Confidence = t.Confidence[n-1]
		}
		if len(t.Reasoning) == n {
			a.Reasoning = t.Reasoning[n-1]
		}

		out, err := NewOutput(step, v, a)
		if err != nil {
			return nil, fmt.Errorf("reconstruct %s: %w", step, err)
		}
		outputs[step] = out
	}

	return outputs, nil
}

// Prune removes outputs whose prerequisites are absent, repeating until the
// set is closed under Dependencies. A reconstructed set can violate this
// when a reviewer edited a downstream step of a cleared analysis.
func (o Outputs) Prune() Outputs {
	pruned := make(Outputs, len(o))
	for s, out := range o {
		pruned[s] = out
	}

	for changed := true; changed; {
		changed = false
		for s := range pruned {
			if len(pruned.Missing(Dependencies(s)...)) > 0 {
				delete(pruned, s)
				changed = true
			}
		}
	}
	return pruned
}
