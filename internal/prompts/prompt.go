// Package prompts selects the prompt template for each analysis step.
// Defaults come from an embedded catalog keyed by template family; a
// stored override, when active, replaces the default for its step and
// family.
package prompts

import (
	"github.com/google/uuid"

	"github.com/JaimeStill/cold/internal/analysis"
)

// Prompt is a named template override for one step within a family.
type Prompt struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Step        analysis.Step `json:"step"`
	Family      Family        `json:"family"`
	Template    string        `json:"template"`
	Description *string       `json:"description"`
	Active      bool          `json:"active"`
}

// CreateCommand carries the data needed to create a new prompt override.
type CreateCommand struct {
	Name        string        `json:"name"`
	Step        analysis.Step `json:"step"`
	Family      Family        `json:"family"`
	Template    string        `json:"template"`
	Description *string       `json:"description"`
}

// UpdateCommand carries the data needed to update an existing prompt override.
type UpdateCommand struct {
	Name        string        `json:"name"`
	Step        analysis.Step `json:"step"`
	Family      Family        `json:"family"`
	Template    string        `json:"template"`
	Description *string       `json:"description"`
}
