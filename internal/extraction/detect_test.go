package extraction_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JaimeStill/cold/internal/analysis"
	"github.com/JaimeStill/cold/internal/extraction"
)

func TestDetectJurisdiction(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   extraction.Jurisdiction
	}{
		{
			name:   "registry overrides legal system",
			answer: `{"legal_system_type": "Common-law jurisdiction", "precise_jurisdiction": "switzerland", "jurisdiction_code": "", "confidence": "high", "reasoning": "Swiss court"}`,
			want: extraction.Jurisdiction{
				LegalSystem:         analysis.CivilLaw,
				PreciseJurisdiction: "Switzerland",
				Code:                "CHE",
				Assessment:          analysis.Assessment{Confidence: analysis.ConfidenceHigh, Reasoning: "Swiss court"},
			},
		},
		{
			name:   "india",
			answer: `{"legal_system_type": "Common-law jurisdiction", "precise_jurisdiction": "India", "jurisdiction_code": "IND", "confidence": "medium", "reasoning": "Supreme Court of India"}`,
			want: extraction.Jurisdiction{
				LegalSystem:         analysis.Indian,
				PreciseJurisdiction: "India",
				Code:                "IND",
				Assessment:          analysis.Assessment{Confidence: analysis.ConfidenceMedium, Reasoning: "Supreme Court of India"},
			},
		},
		{
			name:   "unlisted jurisdiction",
			answer: `{"legal_system_type": "Civil-law jurisdiction", "precise_jurisdiction": "Unknown", "jurisdiction_code": "", "confidence": "certain", "reasoning": "none"}`,
			want: extraction.Jurisdiction{
				LegalSystem:         analysis.CivilLaw,
				PreciseJurisdiction: "Unknown",
				Code:                "UNK",
				Assessment:          analysis.Assessment{Confidence: analysis.ConfidenceLow, Reasoning: "none"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &scripted{answers: []string{tt.answer}}
			e := extraction.New(client, nil, discard())

			got, err := e.DetectJurisdiction(context.Background(), "Judgment of the court.", "gpt-test")
			if err != nil {
				t.Fatalf("DetectJurisdiction() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}

			req := client.requests[0]
			if !strings.Contains(req.Prompt, "- Switzerland\n") || !strings.Contains(req.Prompt, "Judgment of the court.") {
				t.Errorf("detection prompt lacks jurisdiction list or text")
			}
			if req.Model != "gpt-test" {
				t.Errorf("model = %q", req.Model)
			}
		})
	}
}

func TestDetectJurisdiction_EmptyText(t *testing.T) {
	e := extraction.New(&scripted{answers: []string{`{}`}}, nil, discard())

	if _, err := e.DetectJurisdiction(context.Background(), "  ", ""); !errors.Is(err, analysis.ErrEmptyText) {
		t.Errorf("error = %v, want ErrEmptyText", err)
	}
}

func TestJurisdiction_Precise(t *testing.T) {
	if p := (extraction.Jurisdiction{PreciseJurisdiction: "Unknown"}).Precise(); p != nil {
		t.Errorf("Precise() = %q, want nil", *p)
	}
	if p := (extraction.Jurisdiction{PreciseJurisdiction: "Germany"}).Precise(); p == nil || *p != "Germany" {
		t.Errorf("Precise() = %v", p)
	}
}
