package analysis_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JaimeStill/cold/internal/analysis"
)

func TestApply_Deduplicates(t *testing.T) {
	state := analysis.NewState("s1", "text", analysis.CivilLaw, nil)
	out := sampleOutput(analysis.StepRelevantFacts)

	if got := analysis.Apply(state, out); got != analysis.StepRelevantFacts {
		t.Errorf("Apply() = %s, want relevant_facts", got)
	}
	analysis.Apply(state, out)

	track := state.Steps[analysis.StepRelevantFacts]
	if len(track.Values) != 1 {
		t.Errorf("len(Values) = %d, want 1", len(track.Values))
	}
	if len(track.Confidence) != 1 || len(track.Reasoning) != 1 {
		t.Errorf("metadata lengths = %d/%d, want 1/1", len(track.Confidence), len(track.Reasoning))
	}
}

func TestApply_AppendsDistinctValues(t *testing.T) {
	state := analysis.NewState("s1", "text", analysis.CivilLaw, nil)

	first := analysis.ColIssue{Issue: "first", Assessment: analysis.Assessment{Confidence: analysis.ConfidenceLow}}
	second := analysis.ColIssue{Issue: "second", Assessment: analysis.Assessment{Confidence: analysis.ConfidenceHigh}}

	analysis.Apply(state, first)
	analysis.Apply(state, second)

	track := state.Steps[analysis.StepColIssue]
	want := []analysis.Value{analysis.TextValue("first"), analysis.TextValue("second")}
	if len(track.Values) != 2 {
		t.Fatalf("len(Values) = %d, want 2", len(track.Values))
	}
	for i := range want {
		if !track.Values[i].Equal(want[i]) {
			t.Errorf("Values[%d] = %v, want %v", i, track.Values[i], want[i])
		}
	}
	if diff := cmp.Diff([]analysis.Confidence{analysis.ConfidenceLow, analysis.ConfidenceHigh}, track.Confidence); diff != "" {
		t.Errorf("Confidence mismatch (-want +got):\n%s", diff)
	}
}

func TestApply_AllVariants(t *testing.T) {
	state := analysis.NewState("s1", "text", analysis.CommonLaw, nil)

	for _, step := range analysis.Steps() {
		if got := analysis.Apply(state, sampleOutput(step)); got != step {
			t.Errorf("Apply(%s) returned %s", step, got)
		}
		if _, ok := state.Current(step); !ok {
			t.Errorf("%s has no current value", step)
		}
	}

	if state.CaseCitation != "BGE 132 III 285" {
		t.Errorf("CaseCitation = %q", state.CaseCitation)
	}
	if !state.Done {
		t.Error("abstract did not mark state done")
	}
}

type rogueOutput struct {
	analysis.Abstract
}

func TestApply_UnknownOutputPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Apply did not panic on unknown output type")
		}
	}()

	state := analysis.NewState("s1", "text", analysis.CivilLaw, nil)
	analysis.Apply(state, rogueOutput{})
}

func TestEdit(t *testing.T) {
	state := analysis.NewState("s1", "text", analysis.CivilLaw, nil)
	analysis.Apply(state, sampleOutput(analysis.StepCourtsPosition))

	if err := analysis.Edit(state, analysis.StepCourtsPosition, analysis.TextValue("edited")); err != nil {
		t.Fatalf("Edit() error = %v", err)
	}

	track := state.Steps[analysis.StepCourtsPosition]
	if len(track.Values) != 2 {
		t.Fatalf("len(Values) = %d, want 2", len(track.Values))
	}
	if len(track.Confidence) != 1 {
		t.Errorf("len(Confidence) = %d, want 1", len(track.Confidence))
	}
	if cur, _ := state.Current(analysis.StepCourtsPosition); cur.String() != "edited" {
		t.Errorf("current = %q, want edited", cur.String())
	}

	err := analysis.Edit(state, analysis.StepCourtsPosition, analysis.ListValue("a", "b"))
	if !errors.Is(err, analysis.ErrValueShape) {
		t.Errorf("Edit(list for text step) = %v, want ErrValueShape", err)
	}

	if err := analysis.Edit(state, analysis.Step("verdict"), analysis.TextValue("x")); !errors.Is(err, analysis.ErrUnknownStep) {
		t.Errorf("Edit(unknown step) = %v, want ErrUnknownStep", err)
	}
}

func TestState_JSONRoundTrip(t *testing.T) {
	state := analysis.NewState("s1", "decision text", analysis.CommonLaw, nil)
	state.Username = "reviewer"
	analysis.Apply(state, sampleOutput(analysis.StepColSection))
	analysis.Apply(state, sampleOutput(analysis.StepThemes))
	state.Track(analysis.StepAbstract)
	if err := analysis.Edit(state, analysis.StepColSection, analysis.ListValue("edited section")); err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded analysis.State
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if decoded.PreciseJurisdiction != nil {
		t.Errorf("PreciseJurisdiction = %v, want nil", *decoded.PreciseJurisdiction)
	}
	if decoded.LegalSystem != analysis.CommonLaw {
		t.Errorf("LegalSystem = %s", decoded.LegalSystem)
	}

	empty := decoded.Steps[analysis.StepAbstract]
	if empty == nil || empty.Values == nil || len(empty.Values) != 0 {
		t.Errorf("empty abstract track not preserved: %+v", empty)
	}

	opts := cmp.Comparer(func(a, b analysis.Value) bool { return a.Equal(b) })
	if diff := cmp.Diff(state.Steps, decoded.Steps, opts); diff != "" {
		t.Errorf("Steps mismatch (-want +got):\n%s", diff)
	}
}
