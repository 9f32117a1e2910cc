package analysis

import (
	"fmt"
	"maps"
	"strings"
)

// Outputs maps each completed step to its output.
type Outputs map[Step]Output

// Has reports whether step has an output.
func (o Outputs) Has(step Step) bool {
	_, ok := o[step]
	return ok
}

// Missing returns the steps from want that have no output, in the given order.
func (o Outputs) Missing(want ...Step) []Step {
	var missing []Step
	for _, s := range want {
		if !o.Has(s) {
			missing = append(missing, s)
		}
	}
	return missing
}

// Text returns the current value of step as text, or "" when absent.
func (o Outputs) Text(step Step) string {
	if out, ok := o[step]; ok {
		return out.Value().String()
	}
	return ""
}

// Items returns the current value of step as a list, or nil when absent.
func (o Outputs) Items(step Step) []string {
	if out, ok := o[step]; ok {
		return out.Value().Items()
	}
	return nil
}

// Select returns a copy holding only the given steps.
func (o Outputs) Select(want ...Step) Outputs {
	sel := make(Outputs, len(want))
	for _, s := range want {
		if out, ok := o[s]; ok {
			sel[s] = out
		}
	}
	return sel
}

// Request is one attempt at analyzing a decision, including resumed attempts.
type Request struct {
	FullText            string
	LegalSystem         LegalSystem
	PreciseJurisdiction *string
	Model               string
	Existing            Outputs
}

// Validate checks the request invariants: text is present, every existing
// output is filed under its own step, and every existing output has its
// prerequisites present as well.
func (r Request) Validate() error {
	if strings.TrimSpace(r.FullText) == "" {
		return ErrEmptyText
	}

	for step, out := range r.Existing {
		if out == nil || out.Step() != step {
			return fmt.Errorf("%w: existing output filed under %s", ErrValueShape, step)
		}
		if missing := r.Existing.Missing(Dependencies(step)...); len(missing) > 0 {
			return &MissingPrerequisiteError{Step: step, Missing: missing}
		}
	}
	return nil
}

// Input is everything an extraction step receives: the decision, its
// jurisdiction, and the outputs of the step's declared dependencies plus
// any of its optional inputs that exist.
type Input struct {
	FullText            string
	LegalSystem         LegalSystem
	PreciseJurisdiction *string
	Model               string
	Deps                Outputs
}

func (r Request) input(outputs Outputs, step Step) Input {
	return Input{
		FullText:            r.FullText,
		LegalSystem:         r.LegalSystem,
		PreciseJurisdiction: r.PreciseJurisdiction,
		Model:               r.Model,
		Deps:                outputs.Select(append(Dependencies(step), Optional(step)...)...),
	}
}

func (r Request) outputs() Outputs {
	if r.Existing == nil {
		return make(Outputs)
	}
	return maps.Clone(r.Existing)
}
