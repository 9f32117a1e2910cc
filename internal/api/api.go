// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/cold/internal/config"
	"github.com/JaimeStill/cold/internal/infrastructure"
	"github.com/JaimeStill/cold/pkg/middleware"
	"github.com/JaimeStill/cold/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
// The session cleanup hook is registered on the infrastructure lifecycle.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime, err := NewRuntime(cfg, infra)
	if err != nil {
		return nil, err
	}
	domain := NewDomain(cfg, runtime)
	domain.Sessions.Start(runtime.Lifecycle)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, runtime)

	m, err := module.New(cfg.API.BasePath, mux)
	if err != nil {
		return nil, err
	}
	m.Use(middleware.RequestID())
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
