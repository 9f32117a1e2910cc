package extraction

import (
	"errors"

	"github.com/JaimeStill/cold/internal/analysis"
	"github.com/JaimeStill/cold/internal/llm"
)

// classify maps a completion failure onto the analysis error types. The
// client has already retried transient failures, so a rate limit or server
// error reaching this point is reported as the service being unavailable.
func classify(step analysis.Step, err error) error {
	var llmErr *llm.Error
	if !errors.As(err, &llmErr) {
		return analysis.Classify(step, err)
	}

	switch llmErr.Kind {
	case llm.KindTimeout:
		return &analysis.ServiceUnavailableError{Step: step, Kind: analysis.KindTimeout, Err: err}
	case llm.KindConnection, llm.KindRateLimit, llm.KindServer:
		return &analysis.ServiceUnavailableError{Step: step, Kind: analysis.KindConnection, Err: err}
	default:
		return &analysis.StepError{Step: step, Err: err}
	}
}
