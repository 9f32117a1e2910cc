package prompts

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/cold/internal/analysis"
	"github.com/JaimeStill/cold/pkg/pagination"
)

// Source resolves the template used for a step.
type Source interface {
	Template(
		ctx context.Context,
		step analysis.Step,
		ls analysis.LegalSystem,
		precise *string,
	) (string, error)
}

// System defines the public contract for prompt domain operations.
type System interface {
	Source

	Handler() *Handler
	Catalog() *Catalog

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Prompt], error)

	Find(ctx context.Context, id uuid.UUID) (*Prompt, error)
	Create(ctx context.Context, cmd CreateCommand) (*Prompt, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Prompt, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Activate(ctx context.Context, id uuid.UUID) (*Prompt, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*Prompt, error)

	// Effective returns the active override for step and family, or the
	// catalog default when none is active.
	Effective(ctx context.Context, step analysis.Step, family Family) (string, error)
}
