// Package sessions persists case analyses and drives analysis runs over them.
package sessions

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/cold/internal/analysis"
)

// SuggestionSource identifies this application in submitted suggestions.
const SuggestionSource = "case-analyzer.cold.global"

// Session is the summary row of a stored analysis. The full state is
// retrieved with Load.
type Session struct {
	ID                  uuid.UUID            `json:"id"`
	DocumentID          *uuid.UUID           `json:"document_id,omitempty"`
	CaseCitation        string               `json:"case_citation"`
	Username            string               `json:"username"`
	LegalSystem         analysis.LegalSystem `json:"legal_system"`
	PreciseJurisdiction *string              `json:"precise_jurisdiction,omitempty"`
	Model               string               `json:"model"`
	Done                bool                 `json:"analysis_done"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

// CreateCommand opens a session over a decision. Exactly one of Text and
// DocumentID supplies the decision. When LegalSystem is nil the
// jurisdiction is detected from the text.
type CreateCommand struct {
	Text                string                `json:"text,omitempty"`
	DocumentID          *uuid.UUID            `json:"document_id,omitempty"`
	LegalSystem         *analysis.LegalSystem `json:"legal_system,omitempty"`
	PreciseJurisdiction *string               `json:"precise_jurisdiction,omitempty"`
	CaseCitation        string                `json:"case_citation,omitempty"`
	Model               string                `json:"model,omitempty"`
	Username            string                `json:"username,omitempty"`
	UserEmail           string                `json:"user_email,omitempty"`
}

// EditCommand carries a reviewer's revision of one step.
type EditCommand struct {
	Value analysis.Value `json:"value"`
}

// Suggestion is a reviewed analysis recorded for the case database.
type Suggestion struct {
	ID           uuid.UUID       `json:"id"`
	SessionID    uuid.UUID       `json:"session_id"`
	Username     string          `json:"username"`
	UserEmail    string          `json:"user_email"`
	CaseCitation string          `json:"case_citation"`
	Model        string          `json:"model"`
	Data         *analysis.State `json:"data"`
	Source       string          `json:"source"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Export reports where an exported state was written.
type Export struct {
	Key string `json:"key"`
}

// Stream event names.
const (
	EventOutput = "output"
	EventError  = "error"
	EventDone   = "done"
)

// Sink receives analysis events in order. An error stops the run.
type Sink func(event string, data any) error

// OutputEvent reports one completed step.
type OutputEvent struct {
	Step        analysis.Step       `json:"step"`
	DisplayName string              `json:"display_name"`
	Value       analysis.Value      `json:"value"`
	Confidence  analysis.Confidence `json:"confidence"`
	Reasoning   string              `json:"reasoning"`
}

// NewOutputEvent describes out for clients, labelling the step for ls.
func NewOutputEvent(ls analysis.LegalSystem, out analysis.Output) OutputEvent {
	a := out.Assessed()
	return OutputEvent{
		Step:        out.Step(),
		DisplayName: out.Step().DisplayName(ls),
		Value:       out.Value(),
		Confidence:  a.Confidence,
		Reasoning:   a.Reasoning,
	}
}

// ErrorEvent reports a failed run. Steps emitted before the failure remain
// saved, so the run can be resumed.
type ErrorEvent struct {
	Error string          `json:"error"`
	Kind  string          `json:"kind"`
	Steps []analysis.Step `json:"failed_steps,omitempty"`
}

// NewErrorEvent classifies err for clients.
func NewErrorEvent(err error) ErrorEvent {
	return ErrorEvent{
		Error: err.Error(),
		Kind:  errorKind(err),
		Steps: analysis.FailedSteps(err),
	}
}

// DoneEvent closes every stream.
type DoneEvent struct {
	SessionID uuid.UUID      `json:"session_id"`
	Phase     analysis.Phase `json:"phase"`
	Emitted   int            `json:"emitted"`
	Done      bool           `json:"analysis_done"`
}
