package sessions

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/cold/internal/analysis"
	"github.com/JaimeStill/cold/internal/documents"
	"github.com/JaimeStill/cold/pkg/pagination"
	"github.com/JaimeStill/cold/pkg/query"
	"github.com/JaimeStill/cold/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// NewStore creates a PostgreSQL session store. The analysis state is kept
// as JSONB beside the columns used for listing.
func NewStore(db *sql.DB, logger *slog.Logger, pagination pagination.Config) Store {
	return &repo{
		db:         db,
		logger:     logger.With("store", "sessions"),
		pagination: pagination,
	}
}

func (r *repo) Create(ctx context.Context, state *analysis.State, documentID *uuid.UUID) (*Session, error) {
	id, err := uuid.Parse(state.SessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: session id %q", ErrInvalidRequest, state.SessionID)
	}

	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}

	q := `
		INSERT INTO sessions(
			id, document_id, case_citation, username, legal_system,
			precise_jurisdiction, model, analysis_done, state
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		` + returning

	args := []any{
		id,
		documentID,
		state.CaseCitation,
		state.Username,
		state.LegalSystem,
		state.PreciseJurisdiction,
		state.Model,
		state.Done,
		data,
	}

	s, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Session, error) {
		return repository.QueryOne(ctx, tx, q, args, scanSession)
	})
	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: %s", documents.ErrNotFound, documentID)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("session created", "id", s.ID, "legal_system", s.LegalSystem)
	return &s, nil
}

func (r *repo) Load(ctx context.Context, id uuid.UUID) (*analysis.State, error) {
	data, err := repository.QueryOne(ctx, r.db,
		"SELECT state FROM sessions WHERE id = $1",
		[]any{id},
		func(s repository.Scanner) ([]byte, error) {
			var raw []byte
			err := s.Scan(&raw)
			return raw, err
		},
	)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	var state analysis.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode session %s state: %w", id, err)
	}
	state.SessionID = id.String()
	return &state, nil
}

func (r *repo) Save(ctx context.Context, id uuid.UUID, state *analysis.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, `
			UPDATE sessions SET
				case_citation = $2,
				legal_system = $3,
				precise_jurisdiction = $4,
				model = $5,
				analysis_done = $6,
				state = $7,
				updated_at = NOW()
			WHERE id = $1`,
			id,
			state.CaseCitation,
			state.LegalSystem,
			state.PreciseJurisdiction,
			state.Model,
			state.Done,
			data,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, "DELETE FROM sessions WHERE id = $1", id)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("session deleted", "id", id)
	return nil
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Session], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "CaseCitation", "Username", "PreciseJurisdiction")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSession)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Expire(ctx context.Context, before time.Time) (int64, error) {
	n, err := repository.ExecCount(ctx, r.db, "DELETE FROM sessions WHERE updated_at < $1", before)
	if err != nil {
		return 0, fmt.Errorf("expire sessions: %w", err)
	}
	return n, nil
}

func (r *repo) Suggest(ctx context.Context, s Suggestion) (*Suggestion, error) {
	data, err := json.Marshal(s.Data)
	if err != nil {
		return nil, fmt.Errorf("marshal suggestion data: %w", err)
	}

	q := `
		INSERT INTO suggestions_case_analyzer(
			id, session_id, username, user_email, case_citation, model, data, source
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	s.ID = uuid.New()
	args := []any{s.ID, s.SessionID, s.Username, s.UserEmail, s.CaseCitation, s.Model, data, s.Source}

	created, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (time.Time, error) {
		return repository.QueryOne(ctx, tx, q, args, func(sc repository.Scanner) (time.Time, error) {
			var at time.Time
			err := sc.Scan(&at)
			return at, err
		})
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	s.CreatedAt = created

	r.logger.Info("suggestion recorded", "id", s.ID, "session", s.SessionID, "case_citation", s.CaseCitation)
	return &s, nil
}
