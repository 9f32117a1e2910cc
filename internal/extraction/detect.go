package extraction

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/cold/internal/analysis"
	"github.com/JaimeStill/cold/internal/llm"
	"github.com/JaimeStill/cold/internal/prompts"
	"github.com/JaimeStill/cold/pkg/formatting"
)

// Jurisdiction is the detected origin of a decision.
type Jurisdiction struct {
	LegalSystem         analysis.LegalSystem `json:"legal_system"`
	PreciseJurisdiction string               `json:"precise_jurisdiction"`
	Code                string               `json:"jurisdiction_code"`
	analysis.Assessment
}

type detection struct {
	LegalSystem string `json:"legal_system_type"`
	Precise     string `json:"precise_jurisdiction"`
	Code        string `json:"jurisdiction_code"`
	Confidence  string `json:"confidence"`
	Reasoning   string `json:"reasoning"`
}

// DetectJurisdiction identifies the deciding jurisdiction of text. A
// jurisdiction found in the registry determines the legal system and code
// regardless of what the model classified.
func (e *Extractor) DetectJurisdiction(ctx context.Context, text, model string) (Jurisdiction, error) {
	if strings.TrimSpace(text) == "" {
		return Jurisdiction{}, analysis.ErrEmptyText
	}

	prompt := prompts.Render(e.catalog.Detection(), prompts.Vars{
		prompts.VarJurisdictionList: e.jurisdictions.List(),
		prompts.VarText:             text,
	}) + "\n\n" + prompts.DetectionSpec()

	resp, err := e.client.Complete(ctx, llm.Request{
		Model:  model,
		System: e.catalog.System(),
		Prompt: prompt,
		JSON:   true,
	})
	if err != nil {
		if ctx.Err() != nil {
			return Jurisdiction{}, ctx.Err()
		}
		return Jurisdiction{}, fmt.Errorf("detect jurisdiction: %w", err)
	}

	parsed, err := formatting.Parse[detection](resp.Content)
	if err != nil {
		return Jurisdiction{}, fmt.Errorf("detect jurisdiction: %w", err)
	}

	result := Jurisdiction{
		LegalSystem:         analysis.UnknownSystem,
		PreciseJurisdiction: strings.TrimSpace(parsed.Precise),
		Code:                strings.ToUpper(strings.TrimSpace(parsed.Code)),
		Assessment: analysis.Assessment{
			Confidence: analysis.ConfidenceLow,
			Reasoning:  parsed.Reasoning,
		},
	}
	if ls, err := analysis.ParseLegalSystem(parsed.LegalSystem); err == nil {
		result.LegalSystem = ls
	}
	if c, err := analysis.ParseConfidence(parsed.Confidence); err == nil {
		result.Confidence = c
	}

	if j, exact, ok := e.jurisdictions.Match(result.PreciseJurisdiction); ok {
		result.PreciseJurisdiction = j.Name
		result.Code = j.Code
		result.LegalSystem = j.LegalSystem
		if !exact {
			e.logger.InfoContext(ctx, "jurisdiction matched by name fragment",
				"detected", parsed.Precise,
				"matched", j.Name,
			)
		}
	}

	if strings.EqualFold(result.PreciseJurisdiction, "india") {
		result.LegalSystem = analysis.Indian
	}
	if result.Code == "" {
		result.Code = "UNK"
	}

	e.logger.InfoContext(ctx, "jurisdiction detected",
		"legal_system", result.LegalSystem,
		"jurisdiction", result.PreciseJurisdiction,
		"confidence", result.Confidence,
	)
	return result, nil
}

// Precise returns the jurisdiction name as the optional field used by
// analysis requests: nil when unknown.
func (j Jurisdiction) Precise() *string {
	name := preciseName(&j.PreciseJurisdiction)
	if name == "" {
		return nil
	}
	return &name
}
