package analysis

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// MinWorkers is the smallest pool that can run the widest parallel phase
// (court's position, obiter dicta, dissenting opinions) at once.
const MinWorkers = 3

// Runner executes a single extraction step.
type Runner interface {
	Run(ctx context.Context, step Step, in Input) (Output, error)
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, step Step, in Input) (Output, error)

func (f RunnerFunc) Run(ctx context.Context, step Step, in Input) (Output, error) {
	return f(ctx, step, in)
}

// Orchestrator drives the extraction steps through the dependency graph.
// It holds no per-run state and may start any number of runs.
type Orchestrator struct {
	runner  Runner
	logger  *slog.Logger
	workers int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithWorkers bounds the number of steps executing at once within a
// parallel phase. Values below MinWorkers are raised to MinWorkers.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		o.workers = max(n, MinWorkers)
	}
}

// New creates an Orchestrator that executes steps with runner.
func New(runner Runner, logger *slog.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		runner:  runner,
		logger:  logger.With("system", "analysis"),
		workers: MinWorkers,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run is a single pass through the pipeline. Outputs are delivered on the
// channel returned by Outputs in completion order; the channel is closed
// when the run ends. A Run cannot be restarted: resuming requires a new
// Begin call with the emitted outputs supplied as Request.Existing.
type Run struct {
	out  chan Output
	done chan struct{}

	mu    sync.RWMutex
	phase Phase
	err   error
}

func newRun() *Run {
	return &Run{
		out:  make(chan Output),
		done: make(chan struct{}),
	}
}

// Outputs returns the channel of step outputs.
func (r *Run) Outputs() <-chan Output {
	return r.out
}

// Done is closed once the run has finished and Err is final.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Err blocks until the run finishes and returns the terminal error. It is
// nil when the pipeline completed or was abandoned through its context.
// Consumers that stop reading Outputs must cancel the context first.
func (r *Run) Err() error {
	<-r.done
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}

// Phase returns the phase the run is currently in.
func (r *Run) Phase() Phase {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.phase
}

func (r *Run) transition(p Phase) {
	r.mu.Lock()
	r.phase = p
	r.mu.Unlock()
}

func (r *Run) fail(err error) {
	r.mu.Lock()
	r.phase = PhaseFailed
	r.err = err
	r.mu.Unlock()
}

func (r *Run) finish() {
	close(r.out)
	close(r.done)
}

// Begin starts a run for req and returns immediately. Steps already present
// in req.Existing are reused without invoking the runner and are not emitted.
func (o *Orchestrator) Begin(ctx context.Context, req Request) *Run {
	run := newRun()
	go o.drive(ctx, req, run)
	return run
}

func (o *Orchestrator) drive(ctx context.Context, req Request, run *Run) {
	defer run.finish()

	start := time.Now()

	if err := req.Validate(); err != nil {
		o.logger.ErrorContext(ctx, "analysis request rejected", "error", err)
		run.fail(err)
		return
	}

	x := &execution{
		orch:    o,
		run:     run,
		req:     req,
		outputs: req.outputs(),
	}

	err := x.execute(ctx)

	switch {
	case err == nil:
		run.transition(PhaseDone)
		o.logger.InfoContext(ctx, "analysis complete",
			"legal_system", req.LegalSystem,
			"emitted", x.emitted,
			"reused", len(req.Existing),
			"duration", time.Since(start),
		)
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		o.logger.InfoContext(ctx, "analysis abandoned",
			"phase", run.Phase(),
			"emitted", x.emitted,
		)
	default:
		o.logger.ErrorContext(ctx, "analysis failed",
			"phase", run.Phase(),
			"failed_steps", FailedSteps(err),
			"error", err,
		)
		run.fail(err)
	}
}

// execution holds the mutable state of one run. Only the driving goroutine
// touches outputs; parallel tasks receive their inputs by value.
type execution struct {
	orch    *Orchestrator
	run     *Run
	req     Request
	outputs Outputs
	emitted int
}

func (x *execution) execute(ctx context.Context) error {
	x.run.transition(PhaseExtractingCoL)
	if err := x.resolve(ctx, StepColSection); err != nil {
		return err
	}

	x.run.transition(PhaseClassifyingThemes)
	if err := x.resolve(ctx, StepThemes); err != nil {
		return err
	}

	x.run.transition(PhaseParallelFactsProvisions)
	if err := x.parallel(ctx, PhaseParallelFactsProvisions, StepRelevantFacts, StepPILProvisions); err != nil {
		return err
	}

	x.run.transition(PhaseExtractingIssue)
	if err := x.resolve(ctx, StepColIssue); err != nil {
		return err
	}

	x.run.transition(PhaseParallelPosition)
	if err := x.parallel(ctx, PhaseParallelPosition, positionSteps(x.req.LegalSystem)...); err != nil {
		return err
	}

	x.run.transition(PhaseGeneratingAbstract)
	if missing := x.outputs.Missing(Dependencies(StepAbstract)...); len(missing) > 0 {
		return &MissingPrerequisiteError{Step: StepAbstract, Missing: missing}
	}
	return x.resolve(ctx, StepAbstract)
}

func positionSteps(ls LegalSystem) []Step {
	if ls == CommonLaw {
		return []Step{StepCourtsPosition, StepObiterDicta, StepDissentingOpinions}
	}
	return []Step{StepCourtsPosition}
}

// resolve reuses an existing output for step or computes and emits it inline.
func (x *execution) resolve(ctx context.Context, step Step) error {
	if x.outputs.Has(step) {
		x.orch.logger.DebugContext(ctx, "reusing step output", "step", step)
		return nil
	}

	out, err := x.call(ctx, step, x.req.input(x.outputs, step))
	if err != nil {
		return err
	}

	x.outputs[step] = out
	return x.emit(ctx, out)
}

type stepResult struct {
	step Step
	out  Output
	err  error
}

// parallel runs the steps without outputs concurrently on the bounded pool
// and emits each result as it completes. When any step fails, the remaining
// steps are still collected and emitted before a PhaseError is returned.
func (x *execution) parallel(ctx context.Context, phase Phase, steps ...Step) error {
	pending := x.outputs.Missing(steps...)
	if len(pending) == 0 {
		return nil
	}

	results := make(chan stepResult, len(pending))

	var g errgroup.Group
	g.SetLimit(x.orch.workers)

	for _, step := range pending {
		in := x.req.input(x.outputs, step)
		g.Go(func() error {
			out, err := x.call(ctx, step, in)
			results <- stepResult{step: step, out: out, err: err}
			return nil
		})
	}

	go func() {
		g.Wait()
		close(results)
	}()

	failures := make(map[Step]error)
	for res := range results {
		if res.err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failures[res.step] = res.err
			continue
		}

		x.outputs[res.step] = res.out
		if err := x.emit(ctx, res.out); err != nil {
			return err
		}
	}

	if len(failures) > 0 {
		return &PhaseError{Phase: phase, Failures: failures}
	}
	return nil
}

// call invokes the runner and normalizes its result. Context cancellation is
// returned unwrapped so drive can recognize abandonment.
func (x *execution) call(ctx context.Context, step Step, in Input) (Output, error) {
	start := time.Now()
	out, err := x.orch.runner.Run(ctx, step, in)

	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		err = Classify(step, err)
		x.orch.logger.WarnContext(ctx, "step failed",
			"step", step,
			"duration", time.Since(start),
			"error", err,
		)
		return nil, err
	}

	if out == nil || out.Step() != step {
		return nil, &StepError{Step: step, Err: errors.New("runner returned an output for a different step")}
	}

	x.orch.logger.InfoContext(ctx, "step complete",
		"step", step,
		"confidence", out.Assessed().Confidence,
		"duration", time.Since(start),
	)
	return out, nil
}

func (x *execution) emit(ctx context.Context, out Output) error {
	select {
	case x.run.out <- out:
		x.emitted++
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
