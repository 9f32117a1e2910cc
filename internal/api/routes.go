package api

import (
	"net/http"

	"github.com/JaimeStill/cold/internal/config"
	"github.com/JaimeStill/cold/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	reference := newReferenceHandler(domain.Extractor, cfg.LLM.Model, runtime.Logger)

	groups := append([]routes.Group{
		domain.Documents.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Prompts.Handler().Routes(),
		domain.Sessions.Handler().Routes(),
		newStorageHandler(runtime.Storage, runtime.Logger).routes(),
	}, reference.routes()...)

	registered := routes.Register(mux, groups...)
	runtime.Logger.Debug("api routes registered", "count", len(registered), "patterns", registered)
}
