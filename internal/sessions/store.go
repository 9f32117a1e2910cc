package sessions

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/cold/internal/analysis"
	"github.com/JaimeStill/cold/pkg/pagination"
)

// Store persists session state.
type Store interface {
	Create(ctx context.Context, state *analysis.State, documentID *uuid.UUID) (*Session, error)
	Load(ctx context.Context, id uuid.UUID) (*analysis.State, error)
	Save(ctx context.Context, id uuid.UUID, state *analysis.State) error
	Delete(ctx context.Context, id uuid.UUID) error

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Session], error)

	// Expire deletes sessions not updated since before and reports how many
	// were removed.
	Expire(ctx context.Context, before time.Time) (int64, error)

	// Suggest records a reviewed analysis.
	Suggest(ctx context.Context, s Suggestion) (*Suggestion, error)
}
