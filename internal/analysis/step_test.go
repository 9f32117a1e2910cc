package analysis_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/JaimeStill/cold/internal/analysis"
)

func TestParseStep(t *testing.T) {
	for _, s := range analysis.Steps() {
		got, err := analysis.ParseStep(string(s))
		if err != nil || got != s {
			t.Errorf("ParseStep(%q) = %q, %v", s, got, err)
		}
	}

	if _, err := analysis.ParseStep("holding"); !errors.Is(err, analysis.ErrUnknownStep) {
		t.Errorf("ParseStep(holding) error = %v, want ErrUnknownStep", err)
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		step analysis.Step
		ls   analysis.LegalSystem
		want string
	}{
		{analysis.StepCourtsPosition, analysis.CivilLaw, "Court's Position"},
		{analysis.StepCourtsPosition, analysis.CommonLaw, "Court's Position (Ratio Decidendi)"},
		{analysis.StepCourtsPosition, analysis.Indian, "Court's Position (Ratio Decidendi)"},
		{analysis.StepPILProvisions, analysis.CivilLaw, "Private International Law Sources"},
		{analysis.Step("some_new_step"), analysis.CivilLaw, "Some New Step"},
	}

	for _, tt := range tests {
		if got := tt.step.DisplayName(tt.ls); got != tt.want {
			t.Errorf("%s.DisplayName(%s) = %q, want %q", tt.step, tt.ls, got, tt.want)
		}
	}
}

func TestParseLegalSystem(t *testing.T) {
	tests := []struct {
		in      string
		want    analysis.LegalSystem
		wantErr bool
	}{
		{"civil-law", analysis.CivilLaw, false},
		{"Common-law jurisdiction", analysis.CommonLaw, false},
		{"indian jurisdiction", analysis.Indian, false},
		{"Unknown legal system", analysis.UnknownSystem, false},
		{"mixed", "", true},
	}

	for _, tt := range tests {
		got, err := analysis.ParseLegalSystem(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLegalSystem(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLegalSystem(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConfidence_UnmarshalJSON(t *testing.T) {
	var c analysis.Confidence
	if err := json.Unmarshal([]byte(`"HIGH"`), &c); err != nil || c != analysis.ConfidenceHigh {
		t.Errorf("unmarshal HIGH = %q, %v", c, err)
	}
	if err := json.Unmarshal([]byte(`"certain"`), &c); !errors.Is(err, analysis.ErrInvalidConfidence) {
		t.Errorf("unmarshal certain error = %v, want ErrInvalidConfidence", err)
	}
}

func TestValue_JSON(t *testing.T) {
	tests := []struct {
		name string
		v    analysis.Value
		want string
	}{
		{"text", analysis.TextValue("facts"), `"facts"`},
		{"list", analysis.ListValue("a", "b"), `["a","b"]`},
		{"empty list", analysis.ListValue(), `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.v)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal() = %s, want %s", data, tt.want)
			}

			var back analysis.Value
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatal(err)
			}
			if !back.Equal(tt.v) {
				t.Errorf("round trip = %v, want %v", back, tt.v)
			}
		})
	}

	var v analysis.Value
	if err := json.Unmarshal([]byte(`42`), &v); !errors.Is(err, analysis.ErrValueShape) {
		t.Errorf("Unmarshal(42) error = %v, want ErrValueShape", err)
	}
}
