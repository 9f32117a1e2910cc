package prompts

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/JaimeStill/cold/internal/analysis"
)

// Family is the prompt template family a decision is analysed with.
type Family string

const (
	FamilyCivilLaw  Family = "civil-law"
	FamilyCommonLaw Family = "common-law"
	FamilyIndia     Family = "india"
)

var families = []Family{
	FamilyCivilLaw,
	FamilyCommonLaw,
	FamilyIndia,
}

// fallback is consulted when a family has no template for a step.
var fallback = map[Family]Family{
	FamilyIndia: FamilyCommonLaw,
}

func Families() []Family {
	return families
}

// FamilyFor selects the template family. A precise jurisdiction of India
// selects the India family regardless of legal system; otherwise
// common-law and Indian systems use the common-law family and everything
// else the civil-law family.
func FamilyFor(ls analysis.LegalSystem, precise *string) Family {
	if precise != nil && strings.EqualFold(strings.TrimSpace(*precise), "india") {
		return FamilyIndia
	}
	switch ls {
	case analysis.Indian:
		return FamilyIndia
	case analysis.CommonLaw:
		return FamilyCommonLaw
	default:
		return FamilyCivilLaw
	}
}

// UnmarshalJSON validates that the decoded string is a known family.
func (f *Family) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := ParseFamily(raw)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// ParseFamily returns ErrInvalidFamily for unknown values.
func ParseFamily(s string) (Family, error) {
	v := Family(s)
	if !slices.Contains(families, v) {
		return "", ErrInvalidFamily
	}
	return v, nil
}
