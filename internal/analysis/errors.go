package analysis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"slices"
	"strings"
	"syscall"
)

// Sentinel errors for analysis operations.
var (
	ErrEmptyText           = errors.New("full text must not be empty")
	ErrUnknownStep         = errors.New("unknown analysis step")
	ErrUnknownLegalSystem  = errors.New("unknown legal system")
	ErrInvalidConfidence   = errors.New("invalid confidence level")
	ErrValueShape          = errors.New("value shape does not match step")
	ErrServiceUnavailable  = errors.New("analysis service unavailable")
	ErrMissingPrerequisite = errors.New("missing prerequisite")
)

// UnavailableKind distinguishes the two transient failure classes reported
// to reviewers so they can be offered an appropriate retry.
type UnavailableKind string

const (
	KindConnection UnavailableKind = "connection"
	KindTimeout    UnavailableKind = "timeout"
)

// ServiceUnavailableError reports that the language model could not be
// reached for a step. errors.Is(err, ErrServiceUnavailable) holds.
type ServiceUnavailableError struct {
	Step Step
	Kind UnavailableKind
	Err  error
}

func (e *ServiceUnavailableError) Error() string {
	return fmt.Sprintf("%s: service unavailable (%s): %v", e.Step, e.Kind, e.Err)
}

func (e *ServiceUnavailableError) Unwrap() error { return e.Err }

func (e *ServiceUnavailableError) Is(target error) bool {
	return target == ErrServiceUnavailable
}

// MissingPrerequisiteError reports a step invoked before its dependencies
// produced an output. It always indicates a sequencing bug.
type MissingPrerequisiteError struct {
	Step    Step
	Missing []Step
}

func (e *MissingPrerequisiteError) Error() string {
	names := make([]string, len(e.Missing))
	for i, s := range e.Missing {
		names[i] = string(s)
	}
	return fmt.Sprintf("%s: missing prerequisite %s", e.Step, strings.Join(names, ", "))
}

func (e *MissingPrerequisiteError) Is(target error) bool {
	return target == ErrMissingPrerequisite
}

// StepError wraps any other failure of a single step, such as an
// unparseable model response or a rejected request.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// PhaseError reports every failed step of a parallel phase. Successful
// siblings were already emitted when it is raised.
type PhaseError struct {
	Phase    Phase
	Failures map[Step]error
}

// Steps returns the failed steps in pipeline order.
func (e *PhaseError) Steps() []Step {
	failed := make([]Step, 0, len(e.Failures))
	for s := range e.Failures {
		failed = append(failed, s)
	}
	slices.SortFunc(failed, func(a, b Step) int { return a.index() - b.index() })
	return failed
}

func (e *PhaseError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, s := range e.Steps() {
		parts = append(parts, e.Failures[s].Error())
	}
	return fmt.Sprintf("%s failed: %s", e.Phase, strings.Join(parts, "; "))
}

func (e *PhaseError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, s := range e.Steps() {
		errs = append(errs, e.Failures[s])
	}
	return errs
}

// FailedSteps extracts the steps named by err, whichever typed error it is.
func FailedSteps(err error) []Step {
	var phaseErr *PhaseError
	if errors.As(err, &phaseErr) {
		return phaseErr.Steps()
	}
	var unavailable *ServiceUnavailableError
	if errors.As(err, &unavailable) {
		return []Step{unavailable.Step}
	}
	var missing *MissingPrerequisiteError
	if errors.As(err, &missing) {
		return []Step{missing.Step}
	}
	var stepErr *StepError
	if errors.As(err, &stepErr) {
		return []Step{stepErr.Step}
	}
	return nil
}

// Classify converts a raw step failure into one of the typed errors above.
// Errors that are already typed pass through. Deadline expiry and network
// timeouts become KindTimeout; refused or reset connections and other
// network failures become KindConnection.
func Classify(step Step, err error) error {
	if err == nil {
		return nil
	}

	var (
		unavailable *ServiceUnavailableError
		missing     *MissingPrerequisiteError
		stepErr     *StepError
	)
	if errors.As(err, &unavailable) || errors.As(err, &missing) || errors.As(err, &stepErr) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &ServiceUnavailableError{Step: step, Kind: KindTimeout, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		kind := KindConnection
		if netErr.Timeout() {
			kind = KindTimeout
		}
		return &ServiceUnavailableError{Step: step, Kind: kind, Err: err}
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return &ServiceUnavailableError{Step: step, Kind: KindConnection, Err: err}
	}

	return &StepError{Step: step, Err: err}
}
