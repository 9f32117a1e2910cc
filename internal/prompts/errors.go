package prompts

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/cold/internal/analysis"
)

// Domain errors for prompt operations.
var (
	ErrNotFound        = errors.New("prompt not found")
	ErrInvalidID       = errors.New("invalid prompt id")
	ErrDuplicate       = errors.New("prompt name already exists")
	ErrInvalidFamily   = errors.New("family must be civil-law, common-law, or india")
	ErrMissingTemplate = errors.New("no template for step")
	ErrInvalidCatalog  = errors.New("invalid template catalog")

	ErrUnknownPlaceholder = errors.New("invalid template placeholder")
)

// MapHTTPStatus maps prompt domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrMissingTemplate):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidFamily),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrUnknownPlaceholder),
		errors.Is(err, analysis.ErrUnknownStep):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
