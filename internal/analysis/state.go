package analysis

import "time"

// Track is the append-only history of one step. Values, Confidence and
// Reasoning are parallel sequences; reviewer edits extend Values alone, so
// the metadata sequences may be shorter.
type Track struct {
	Values     []Value      `json:"values"`
	Confidence []Confidence `json:"confidence"`
	Reasoning  []string     `json:"reasoning"`
}

// Current returns the last value and whether one exists.
func (t *Track) Current() (Value, bool) {
	if t == nil || len(t.Values) == 0 {
		return Value{}, false
	}
	return t.Values[len(t.Values)-1], true
}

// State is the accumulating record of one case analysis session. It is
// mutated only through Apply, Edit, Complete and Reset.
type State struct {
	SessionID           string          `json:"session_id"`
	CaseCitation        string          `json:"case_citation"`
	Username            string          `json:"username"`
	UserEmail           string          `json:"user_email"`
	Model               string          `json:"model"`
	FullText            string          `json:"full_text"`
	LegalSystem         LegalSystem     `json:"legal_system"`
	PreciseJurisdiction *string         `json:"precise_jurisdiction"`
	Steps               map[Step]*Track `json:"steps"`
	Done                bool            `json:"analysis_done"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// NewState creates an empty state for a new analysis of text.
func NewState(sessionID, text string, ls LegalSystem, precise *string) *State {
	return &State{
		SessionID:           sessionID,
		FullText:            text,
		LegalSystem:         ls,
		PreciseJurisdiction: precise,
		Steps:               make(map[Step]*Track),
		UpdatedAt:           time.Now().UTC(),
	}
}

// Track returns the history of step, creating it when absent.
func (s *State) Track(step Step) *Track {
	if s.Steps == nil {
		s.Steps = make(map[Step]*Track)
	}
	t, ok := s.Steps[step]
	if !ok {
		t = &Track{
			Values:     []Value{},
			Confidence: []Confidence{},
			Reasoning:  []string{},
		}
		s.Steps[step] = t
	}
	return t
}

// Current returns the current value of step.
func (s *State) Current(step Step) (Value, bool) {
	return s.Steps[step].Current()
}

// Request builds a workflow request that resumes from the state.
func (s *State) Request() (Request, error) {
	existing, err := Reconstruct(s)
	if err != nil {
		return Request{}, err
	}
	return Request{
		FullText:            s.FullText,
		LegalSystem:         s.LegalSystem,
		PreciseJurisdiction: s.PreciseJurisdiction,
		Model:               s.Model,
		Existing:            existing.Prune(),
	}, nil
}

// Reset drops every step history while keeping the decision text,
// jurisdiction and session identity.
func (s *State) Reset() {
	s.Steps = make(map[Step]*Track)
	s.Done = false
	s.touch()
}

func (s *State) touch() {
	s.UpdatedAt = time.Now().UTC()
}
