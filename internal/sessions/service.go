package sessions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/cold/internal/analysis"
	"github.com/JaimeStill/cold/internal/extraction"
	"github.com/JaimeStill/cold/pkg/lifecycle"
	"github.com/JaimeStill/cold/pkg/pagination"
)

// System defines the public contract for session operations.
type System interface {
	Handler() *Handler

	// Start registers the expiry cleanup hook.
	Start(lc *lifecycle.Coordinator)

	Create(ctx context.Context, cmd CreateCommand) (*analysis.State, error)
	Load(ctx context.Context, id uuid.UUID) (*analysis.State, error)
	Save(ctx context.Context, id uuid.UUID, state *analysis.State) error
	Delete(ctx context.Context, id uuid.UUID) error

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Session], error)

	// Analyze resumes the analysis of a session, saving and reporting each
	// completed step to sink. Only one analysis per session runs at a time.
	Analyze(ctx context.Context, id uuid.UUID, sink Sink) error

	Edit(ctx context.Context, id uuid.UUID, step analysis.Step, v analysis.Value) (*analysis.State, error)
	Clear(ctx context.Context, id uuid.UUID) (*analysis.State, error)
	Submit(ctx context.Context, id uuid.UUID) (*Suggestion, error)
	Export(ctx context.Context, id uuid.UUID) (*Export, error)

	// Cleanup deletes sessions idle longer than the configured maximum age.
	Cleanup(ctx context.Context) (int64, error)
}

// Extractor runs single steps outside the orchestrator and detects the
// jurisdiction of new decisions.
type Extractor interface {
	analysis.Runner
	DetectJurisdiction(ctx context.Context, text, model string) (extraction.Jurisdiction, error)
}

// Decisions supplies the text of uploaded decisions.
type Decisions interface {
	Text(ctx context.Context, id uuid.UUID) (string, error)
}

// Blobs receives exported states.
type Blobs interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
}

// RunObserver records the outcome of analysis runs.
type RunObserver interface {
	ObserveRun(err error)
}

// Runtime holds the collaborators of the session service.
type Runtime struct {
	Store        Store
	Orchestrator *analysis.Orchestrator
	Extractor    Extractor
	Decisions    Decisions
	Blobs        Blobs
	Metrics      RunObserver
	Logger       *slog.Logger
	Pagination   pagination.Config

	Model           string
	MaxAge          time.Duration
	CleanupInterval time.Duration
}

type service struct {
	rt     *Runtime
	logger *slog.Logger

	mu      sync.Mutex
	running map[uuid.UUID]struct{}
}

// New creates the session service.
func New(rt *Runtime) System {
	return &service{
		rt:      rt,
		logger:  rt.Logger.With("system", "sessions"),
		running: make(map[uuid.UUID]struct{}),
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger, s.rt.Pagination)
}

func (s *service) Start(lc *lifecycle.Coordinator) {
	if s.rt.MaxAge <= 0 || s.rt.CleanupInterval <= 0 {
		return
	}

	lc.OnShutdown(func() {
		s.sweep(lc.Context())
	})
}

func (s *service) sweep(ctx context.Context) {
	ticker := time.NewTicker(s.rt.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Cleanup(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("session cleanup failed", "error", err)
			}
		}
	}
}

func (s *service) Create(ctx context.Context, cmd CreateCommand) (*analysis.State, error) {
	text, err := s.decision(ctx, cmd)
	if err != nil {
		return nil, err
	}

	model := cmd.Model
	if model == "" {
		model = s.rt.Model
	}

	var (
		ls      analysis.LegalSystem
		precise = cmd.PreciseJurisdiction
	)
	if cmd.LegalSystem != nil {
		ls = *cmd.LegalSystem
	} else {
		j, err := s.rt.Extractor.DetectJurisdiction(ctx, text, model)
		if err != nil {
			return nil, fmt.Errorf("create session: %w", err)
		}
		ls = j.LegalSystem
		if precise == nil {
			precise = j.Precise()
		}
	}

	state := analysis.NewState(uuid.NewString(), text, ls, precise)
	state.Username = cmd.Username
	state.UserEmail = cmd.UserEmail
	state.Model = model

	if c := strings.TrimSpace(cmd.CaseCitation); c != "" {
		if err := analysis.Edit(state, analysis.StepCaseCitation, analysis.TextValue(c)); err != nil {
			return nil, err
		}
	}

	if _, err := s.rt.Store.Create(ctx, state, cmd.DocumentID); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return state, nil
}

func (s *service) decision(ctx context.Context, cmd CreateCommand) (string, error) {
	switch {
	case cmd.DocumentID != nil && cmd.Text != "":
		return "", fmt.Errorf("%w: text and document_id are exclusive", ErrInvalidRequest)
	case cmd.DocumentID != nil:
		text, err := s.rt.Decisions.Text(ctx, *cmd.DocumentID)
		if err != nil {
			return "", fmt.Errorf("read decision %s: %w", cmd.DocumentID, err)
		}
		if strings.TrimSpace(text) == "" {
			return "", analysis.ErrEmptyText
		}
		return text, nil
	case strings.TrimSpace(cmd.Text) != "":
		return cmd.Text, nil
	default:
		return "", ErrNoDecision
	}
}

func (s *service) Load(ctx context.Context, id uuid.UUID) (*analysis.State, error) {
	return s.rt.Store.Load(ctx, id)
}

func (s *service) Save(ctx context.Context, id uuid.UUID, state *analysis.State) error {
	return s.rt.Store.Save(ctx, id, state)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.rt.Store.Delete(ctx, id)
}

func (s *service) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Session], error) {
	return s.rt.Store.List(ctx, page, filters)
}

func (s *service) Analyze(ctx context.Context, id uuid.UUID, sink Sink) error {
	if !s.acquire(id) {
		return ErrAnalysisRunning
	}
	defer s.release(id)

	state, err := s.rt.Store.Load(ctx, id)
	if err != nil {
		return err
	}

	// Saves outlive an abandoned request so completed steps are kept.
	persist := context.WithoutCancel(ctx)

	if state.CaseCitation == "" {
		if err := s.citation(ctx, persist, id, state, sink); err != nil {
			return err
		}
	}

	req, err := state.Request()
	if err != nil {
		return fmt.Errorf("resume session %s: %w", id, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	run := s.rt.Orchestrator.Begin(runCtx, req)

	var (
		emitted int
		stopErr error
	)
	for out := range run.Outputs() {
		if stopErr != nil {
			continue
		}

		analysis.Apply(state, out)
		if err := s.rt.Store.Save(persist, id, state); err != nil {
			stopErr = fmt.Errorf("save session %s: %w", id, err)
			cancel()
			continue
		}
		if err := sink(EventOutput, NewOutputEvent(state.LegalSystem, out)); err != nil {
			stopErr = err
			cancel()
			continue
		}
		emitted++
	}

	runErr := run.Err()

	switch {
	case stopErr != nil:
		s.observe(stopErr)
		return stopErr
	case ctx.Err() != nil:
		s.observe(ctx.Err())
		s.logger.Info("analysis abandoned", "session", id, "emitted", emitted)
		return ctx.Err()
	}

	s.observe(runErr)

	if runErr != nil {
		s.logger.Warn("analysis failed", "session", id, "failed_steps", analysis.FailedSteps(runErr), "error", runErr)
		if err := sink(EventError, NewErrorEvent(runErr)); err != nil {
			return err
		}
	}

	if err := sink(EventDone, DoneEvent{
		SessionID: id,
		Phase:     run.Phase(),
		Emitted:   emitted,
		Done:      state.Done,
	}); err != nil {
		return err
	}
	return runErr
}

// citation extracts the case citation ahead of the workflow. It sits
// outside the dependency graph, so a failure is logged and the analysis
// proceeds without it.
func (s *service) citation(ctx, persist context.Context, id uuid.UUID, state *analysis.State, sink Sink) error {
	out, err := s.rt.Extractor.Run(ctx, analysis.StepCaseCitation, analysis.Input{
		FullText:            state.FullText,
		LegalSystem:         state.LegalSystem,
		PreciseJurisdiction: state.PreciseJurisdiction,
		Model:               state.Model,
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn("case citation extraction failed", "session", id, "error", err)
		return nil
	}

	analysis.Apply(state, out)
	if err := s.rt.Store.Save(persist, id, state); err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}
	return sink(EventOutput, NewOutputEvent(state.LegalSystem, out))
}

func (s *service) observe(err error) {
	if s.rt.Metrics != nil {
		s.rt.Metrics.ObserveRun(err)
	}
}

func (s *service) acquire(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.running[id]; ok {
		return false
	}
	s.running[id] = struct{}{}
	return true
}

func (s *service) release(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.running, id)
}

func (s *service) Edit(ctx context.Context, id uuid.UUID, step analysis.Step, v analysis.Value) (*analysis.State, error) {
	return s.update(ctx, id, func(state *analysis.State) error {
		return analysis.Edit(state, step, v)
	})
}

func (s *service) Clear(ctx context.Context, id uuid.UUID) (*analysis.State, error) {
	return s.update(ctx, id, func(state *analysis.State) error {
		state.Reset()
		return nil
	})
}

func (s *service) update(ctx context.Context, id uuid.UUID, fn func(*analysis.State) error) (*analysis.State, error) {
	state, err := s.rt.Store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(state); err != nil {
		return nil, err
	}
	if err := s.rt.Store.Save(ctx, id, state); err != nil {
		return nil, err
	}
	return state, nil
}

func (s *service) Submit(ctx context.Context, id uuid.UUID) (*Suggestion, error) {
	state, err := s.update(ctx, id, func(state *analysis.State) error {
		analysis.Complete(state)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.rt.Store.Suggest(ctx, Suggestion{
		SessionID:    id,
		Username:     state.Username,
		UserEmail:    state.UserEmail,
		CaseCitation: state.CaseCitation,
		Model:        state.Model,
		Data:         state,
		Source:       SuggestionSource,
	})
}

func (s *service) Export(ctx context.Context, id uuid.UUID) (*Export, error) {
	state, err := s.rt.Store.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal session %s: %w", id, err)
	}

	key := fmt.Sprintf("exports/%s.json", id)
	if err := s.rt.Blobs.Upload(ctx, key, bytes.NewReader(data), "application/json"); err != nil {
		return nil, fmt.Errorf("export session %s: %w", id, err)
	}

	s.logger.Info("session exported", "id", id, "key", key)
	return &Export{Key: key}, nil
}

func (s *service) Cleanup(ctx context.Context) (int64, error) {
	if s.rt.MaxAge <= 0 {
		return 0, nil
	}

	n, err := s.rt.Store.Expire(ctx, time.Now().Add(-s.rt.MaxAge))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("expired sessions removed", "count", n, "max_age", s.rt.MaxAge)
	}
	return n, nil
}
