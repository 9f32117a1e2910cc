package analysis_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JaimeStill/cold/internal/analysis"
)

func TestReconstruct(t *testing.T) {
	state := analysis.NewState("s1", "text", analysis.CivilLaw, nil)
	analysis.Apply(state, sampleOutput(analysis.StepColSection))
	analysis.Apply(state, sampleOutput(analysis.StepThemes))
	analysis.Apply(state, analysis.RelevantFacts{
		Facts:      "first draft",
		Assessment: analysis.Assessment{Confidence: analysis.ConfidenceLow, Reasoning: "thin record"},
	})
	if err := analysis.Edit(state, analysis.StepRelevantFacts, analysis.TextValue("reviewed facts")); err != nil {
		t.Fatal(err)
	}
	state.Track(analysis.StepColIssue)

	outputs, err := analysis.Reconstruct(state)
	if err != nil {
		t.Fatalf("Reconstruct() error = %v", err)
	}

	if len(outputs) != 3 {
		t.Fatalf("len(outputs) = %d, want 3", len(outputs))
	}
	if outputs.Has(analysis.StepColIssue) {
		t.Error("empty col_issue track was reconstructed")
	}

	want := analysis.RelevantFacts{
		Facts: "reviewed facts",
		Assessment: analysis.Assessment{
			Confidence: analysis.ConfidenceMedium,
			Reasoning:  analysis.ResumedReasoning,
		},
	}
	if diff := cmp.Diff(analysis.Output(want), outputs[analysis.StepRelevantFacts]); diff != "" {
		t.Errorf("relevant_facts mismatch (-want +got):\n%s", diff)
	}

	themes, ok := outputs[analysis.StepThemes].(analysis.ThemeClassification)
	if !ok {
		t.Fatalf("themes output is %T", outputs[analysis.StepThemes])
	}
	if diff := cmp.Diff([]string{"Party autonomy"}, themes.Themes); diff != "" {
		t.Errorf("themes mismatch (-want +got):\n%s", diff)
	}
}

func TestReconstruct_EditOnlyTrackDefaults(t *testing.T) {
	state := analysis.NewState("s1", "text", analysis.CivilLaw, nil)
	if err := analysis.Edit(state, analysis.StepThemes, analysis.TextValue("Party autonomy, Tacit choice")); err != nil {
		t.Fatal(err)
	}

	outputs, err := analysis.Reconstruct(state)
	if err != nil {
		t.Fatalf("Reconstruct() error = %v", err)
	}

	got := outputs[analysis.StepThemes]
	want := analysis.ThemeClassification{
		Themes: []string{"Party autonomy", "Tacit choice"},
		Assessment: analysis.Assessment{
			Confidence: analysis.ConfidenceMedium,
			Reasoning:  analysis.ResumedReasoning,
		},
	}
	if diff := cmp.Diff(analysis.Output(want), got); diff != "" {
		t.Errorf("themes mismatch (-want +got):\n%s", diff)
	}
}

func TestReconstruct_AssessmentPairing(t *testing.T) {
	model := analysis.Assessment{Confidence: analysis.ConfidenceHigh, Reasoning: "model reasoning"}
	resumed := analysis.Assessment{Confidence: analysis.ConfidenceMedium, Reasoning: analysis.ResumedReasoning}

	tests := []struct {
		name  string
		build func(*analysis.State)
		want  analysis.Output
	}{
		{
			name: "model output only",
			build: func(s *analysis.State) {
				analysis.Apply(s, analysis.RelevantFacts{Facts: "model draft", Assessment: model})
			},
			want: analysis.RelevantFacts{Facts: "model draft", Assessment: model},
		},
		{
			name: "edit after model output",
			build: func(s *analysis.State) {
				analysis.Apply(s, analysis.RelevantFacts{Facts: "model draft", Assessment: model})
				analysis.Edit(s, analysis.StepRelevantFacts, analysis.TextValue("human edit"))
			},
			want: analysis.RelevantFacts{Facts: "human edit", Assessment: resumed},
		},
		{
			name: "reasoning track shorter than values",
			build: func(s *analysis.State) {
				track := s.Track(analysis.StepRelevantFacts)
				track.Values = []analysis.Value{analysis.TextValue("a"), analysis.TextValue("b")}
				track.Confidence = []analysis.Confidence{analysis.ConfidenceLow, analysis.ConfidenceHigh}
				track.Reasoning = []string{"only one"}
			},
			want: analysis.RelevantFacts{
				Facts:      "b",
				Assessment: analysis.Assessment{Confidence: analysis.ConfidenceHigh, Reasoning: analysis.ResumedReasoning},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := analysis.NewState("s1", "text", analysis.CivilLaw, nil)
			analysis.Apply(state, sampleOutput(analysis.StepColSection))
			tt.build(state)

			outputs, err := analysis.Reconstruct(state)
			if err != nil {
				t.Fatalf("Reconstruct() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, outputs[analysis.StepRelevantFacts]); diff != "" {
				t.Errorf("relevant_facts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReconstruct_ShapeMismatch(t *testing.T) {
	state := analysis.NewState("s1", "text", analysis.CivilLaw, nil)
	track := state.Track(analysis.StepAbstract)
	track.Values = append(track.Values, analysis.ListValue("not", "text"))

	if _, err := analysis.Reconstruct(state); !errors.Is(err, analysis.ErrValueShape) {
		t.Errorf("Reconstruct() error = %v, want ErrValueShape", err)
	}
}

func TestState_RequestPrunesOrphans(t *testing.T) {
	state := analysis.NewState("s1", "text", analysis.CivilLaw, nil)
	analysis.Apply(state, sampleOutput(analysis.StepColSection))
	if err := analysis.Edit(state, analysis.StepColIssue, analysis.TextValue("orphaned issue")); err != nil {
		t.Fatal(err)
	}

	req, err := state.Request()
	if err != nil {
		t.Fatalf("Request() error = %v", err)
	}
	if err := req.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if req.Existing.Has(analysis.StepColIssue) {
		t.Error("col_issue kept without theme_classification")
	}
	if !req.Existing.Has(analysis.StepColSection) {
		t.Error("col_section dropped")
	}
}
