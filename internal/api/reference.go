package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/cold/internal/analysis"
	"github.com/JaimeStill/cold/internal/extraction"
	"github.com/JaimeStill/cold/internal/jurisdictions"
	"github.com/JaimeStill/cold/internal/themes"
	"github.com/JaimeStill/cold/pkg/handlers"
	"github.com/JaimeStill/cold/pkg/routes"
)

var errInvalidDetect = errors.New("text is required")

// DetectRequest is the body of a jurisdiction detection call.
type DetectRequest struct {
	Text  string `json:"text"`
	Model string `json:"model,omitempty"`
}

// referenceHandler exposes the theme vocabulary, the jurisdiction registry
// and standalone jurisdiction detection.
type referenceHandler struct {
	themes        *themes.Catalog
	jurisdictions *jurisdictions.Registry
	extractor     *extraction.Extractor
	model         string
	logger        *slog.Logger
}

func newReferenceHandler(extractor *extraction.Extractor, model string, logger *slog.Logger) *referenceHandler {
	return &referenceHandler{
		themes:        themes.Default(),
		jurisdictions: jurisdictions.Default(),
		extractor:     extractor,
		model:         model,
		logger:        logger.With("handler", "reference"),
	}
}

func (h *referenceHandler) routes() []routes.Group {
	return []routes.Group{
		{
			Prefix: "/themes",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "", Handler: h.listThemes},
			},
		},
		{
			Prefix: "/jurisdictions",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "", Handler: h.listJurisdictions},
				{Method: "POST", Pattern: "/detect", Handler: h.detect},
			},
		},
	}
}

func (h *referenceHandler) listThemes(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.themes.All())
}

func (h *referenceHandler) listJurisdictions(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.jurisdictions.All())
}

func (h *referenceHandler) detect(w http.ResponseWriter, r *http.Request) {
	var req DetectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if req.Text == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, errInvalidDetect)
		return
	}

	model := req.Model
	if model == "" {
		model = h.model
	}

	j, err := h.extractor.DetectJurisdiction(r.Context(), req.Text, model)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, analysis.ErrEmptyText) {
			status = http.StatusBadRequest
		}
		handlers.RespondError(w, h.logger, status, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, j)
}
