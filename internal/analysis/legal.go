package analysis

import (
	"encoding/json"
	"strings"
)

// LegalSystem is the coarse classification of the deciding jurisdiction.
// It gates which extraction steps run and which prompt family is used.
type LegalSystem string

const (
	CivilLaw      LegalSystem = "civil-law"
	CommonLaw     LegalSystem = "common-law"
	Indian        LegalSystem = "indian"
	UnknownSystem LegalSystem = "unknown"
)

var legalLabels = map[LegalSystem]string{
	CivilLaw:      "Civil-law jurisdiction",
	CommonLaw:     "Common-law jurisdiction",
	Indian:        "Indian jurisdiction",
	UnknownSystem: "Unknown legal system",
}

// ParseLegalSystem accepts either the short identifier ("common-law") or the
// reviewer-facing label ("Common-law jurisdiction"), case-insensitively.
func ParseLegalSystem(s string) (LegalSystem, error) {
	trimmed := strings.TrimSpace(s)
	for ls, label := range legalLabels {
		if strings.EqualFold(trimmed, string(ls)) || strings.EqualFold(trimmed, label) {
			return ls, nil
		}
	}
	return "", ErrUnknownLegalSystem
}

// Label returns the reviewer-facing description of the legal system.
func (l LegalSystem) Label() string {
	if label, ok := legalLabels[l]; ok {
		return label
	}
	return legalLabels[UnknownSystem]
}

// CommonLawFamily reports whether decisions follow common-law reasoning
// conventions (ratio decidendi, obiter dicta, dissents).
func (l LegalSystem) CommonLawFamily() bool {
	return l == CommonLaw || l == Indian
}

// UnmarshalJSON accepts any form understood by ParseLegalSystem.
func (l *LegalSystem) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == "" {
		*l = UnknownSystem
		return nil
	}
	v, err := ParseLegalSystem(raw)
	if err != nil {
		return err
	}
	*l = v
	return nil
}
