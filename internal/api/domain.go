package api

import (
	"github.com/JaimeStill/cold/internal/analysis"
	"github.com/JaimeStill/cold/internal/config"
	"github.com/JaimeStill/cold/internal/documents"
	"github.com/JaimeStill/cold/internal/extraction"
	"github.com/JaimeStill/cold/internal/prompts"
	"github.com/JaimeStill/cold/internal/sessions"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Documents documents.System
	Prompts   prompts.System
	Extractor *extraction.Extractor
	Sessions  sessions.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(cfg *config.Config, runtime *Runtime) *Domain {
	db := runtime.Database.Connection()

	docsSystem := documents.New(
		db,
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	promptsSystem := prompts.New(
		db,
		prompts.Defaults(),
		runtime.Logger,
		runtime.Pagination,
	)

	extractor := extraction.New(
		runtime.LLM,
		promptsSystem,
		runtime.Logger,
		extraction.WithCatalog(promptsSystem.Catalog()),
		extraction.WithThemeAttempts(cfg.Analysis.ThemeAttempts),
		extraction.WithObserver(runtime.Metrics),
	)

	orchestrator := analysis.New(
		extractor,
		runtime.Logger,
		analysis.WithWorkers(cfg.Analysis.Workers),
	)

	sessionsSystem := sessions.New(&sessions.Runtime{
		Store:           sessions.NewStore(db, runtime.Logger, runtime.Pagination),
		Orchestrator:    orchestrator,
		Extractor:       extractor,
		Decisions:       docsSystem,
		Blobs:           runtime.Storage,
		Metrics:         runtime.Metrics,
		Logger:          runtime.Logger,
		Pagination:      runtime.Pagination,
		Model:           cfg.LLM.Model,
		MaxAge:          cfg.Sessions.MaxAgeDuration(),
		CleanupInterval: cfg.Sessions.CleanupIntervalDuration(),
	})

	return &Domain{
		Documents: docsSystem,
		Prompts:   promptsSystem,
		Extractor: extractor,
		Sessions:  sessionsSystem,
	}
}
