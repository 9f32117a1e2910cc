package api

import (
	"fmt"

	"github.com/JaimeStill/cold/internal/config"
	"github.com/JaimeStill/cold/internal/infrastructure"
	"github.com/JaimeStill/cold/internal/llm"
	"github.com/JaimeStill/cold/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration and the
// language model client shared by the analysis systems.
type Runtime struct {
	*infrastructure.Infrastructure
	LLM        llm.Client
	Pagination pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) (*Runtime, error) {
	logger := infra.Logger.With("module", "api")

	client, err := llm.New(infra.Lifecycle.Context(), &cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("llm client: %w", err)
	}

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    logger,
			Database:  infra.Database,
			Storage:   infra.Storage,
			Metrics:   infra.Metrics,
		},
		LLM:        client,
		Pagination: cfg.API.Pagination,
	}, nil
}
