package analysis

// Phase is a state of the orchestrator. A run moves strictly forward
// through the phases and never re-enters one.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseExtractingCoL
	PhaseClassifyingThemes
	PhaseParallelFactsProvisions
	PhaseExtractingIssue
	PhaseParallelPosition
	PhaseGeneratingAbstract
	PhaseDone
	PhaseFailed
)

var phaseNames = [...]string{
	PhaseNotStarted:              "not_started",
	PhaseExtractingCoL:           "extracting_col",
	PhaseClassifyingThemes:       "classifying_themes",
	PhaseParallelFactsProvisions: "parallel_facts_provisions",
	PhaseExtractingIssue:         "extracting_issue",
	PhaseParallelPosition:        "parallel_position",
	PhaseGeneratingAbstract:      "generating_abstract",
	PhaseDone:                    "done",
	PhaseFailed:                  "failed",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Terminal reports whether the run has finished.
func (p Phase) Terminal() bool {
	return p == PhaseDone || p == PhaseFailed
}
