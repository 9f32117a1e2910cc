package sessions

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/cold/internal/analysis"
	"github.com/JaimeStill/cold/internal/documents"
)

// Domain errors for session operations.
var (
	ErrNotFound        = errors.New("session not found")
	ErrDuplicate       = errors.New("session already exists")
	ErrInvalidRequest  = errors.New("invalid session request")
	ErrNoDecision      = errors.New("either text or document_id is required")
	ErrAnalysisRunning = errors.New("analysis already running for session")
)

// MapHTTPStatus maps session and analysis errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, documents.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrAnalysisRunning):
		return http.StatusConflict
	case errors.Is(err, analysis.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, analysis.ErrMissingPrerequisite):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrNoDecision),
		errors.Is(err, documents.ErrNoText),
		errors.Is(err, analysis.ErrEmptyText),
		errors.Is(err, analysis.ErrUnknownStep),
		errors.Is(err, analysis.ErrUnknownLegalSystem),
		errors.Is(err, analysis.ErrValueShape):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorKind names the failure class carried by error events.
func errorKind(err error) string {
	var unavailable *analysis.ServiceUnavailableError
	switch {
	case errors.As(err, &unavailable):
		return "service_unavailable_" + string(unavailable.Kind)
	case errors.Is(err, analysis.ErrMissingPrerequisite):
		return "missing_prerequisite"
	default:
		return "step_failed"
	}
}
