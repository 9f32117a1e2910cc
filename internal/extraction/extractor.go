// Package extraction runs the individual case analysis steps against a
// language model. Extractor implements analysis.Runner: each step renders
// its template, makes one completion call and parses the JSON answer into
// the step's output type.
package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JaimeStill/cold/internal/analysis"
	"github.com/JaimeStill/cold/internal/jurisdictions"
	"github.com/JaimeStill/cold/internal/llm"
	"github.com/JaimeStill/cold/internal/prompts"
	"github.com/JaimeStill/cold/internal/themes"
	"github.com/JaimeStill/cold/pkg/formatting"
)

// DefaultThemeAttempts bounds theme classification calls per step.
const DefaultThemeAttempts = 5

// Observer receives step timings and theme retries.
type Observer interface {
	ObserveStep(step analysis.Step, d time.Duration, err error)
	ObserveThemeRetry()
}

type nopObserver struct{}

func (nopObserver) ObserveStep(analysis.Step, time.Duration, error) {}
func (nopObserver) ObserveThemeRetry()                              {}

// Extractor executes analysis steps with an llm.Client.
type Extractor struct {
	client        llm.Client
	source        prompts.Source
	catalog       *prompts.Catalog
	themes        *themes.Catalog
	jurisdictions *jurisdictions.Registry
	themeAttempts int
	observer      Observer
	logger        *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithCatalog replaces the embedded prompt catalog used for the system and
// detection prompts.
func WithCatalog(c *prompts.Catalog) Option {
	return func(e *Extractor) { e.catalog = c }
}

func WithThemes(c *themes.Catalog) Option {
	return func(e *Extractor) { e.themes = c }
}

func WithJurisdictions(r *jurisdictions.Registry) Option {
	return func(e *Extractor) { e.jurisdictions = r }
}

// WithThemeAttempts sets the classification attempt budget. Values below
// one are ignored.
func WithThemeAttempts(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.themeAttempts = n
		}
	}
}

func WithObserver(o Observer) Option {
	return func(e *Extractor) { e.observer = o }
}

// New creates an Extractor. source resolves step templates; a nil source
// uses the catalog defaults.
func New(client llm.Client, source prompts.Source, logger *slog.Logger, opts ...Option) *Extractor {
	e := &Extractor{
		client:        client,
		source:        source,
		catalog:       prompts.Defaults(),
		themes:        themes.Default(),
		jurisdictions: jurisdictions.Default(),
		themeAttempts: DefaultThemeAttempts,
		observer:      nopObserver{},
		logger:        logger.With("system", "extraction"),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.source == nil {
		e.source = e.catalog
	}
	return e
}

// Run executes one step. It satisfies analysis.Runner.
func (e *Extractor) Run(ctx context.Context, step analysis.Step, in analysis.Input) (analysis.Output, error) {
	start := time.Now()
	out, err := e.run(ctx, step, in)
	e.observer.ObserveStep(step, time.Since(start), err)
	return out, err
}

func (e *Extractor) run(ctx context.Context, step analysis.Step, in analysis.Input) (analysis.Output, error) {
	if missing := in.Deps.Missing(analysis.Dependencies(step)...); len(missing) > 0 {
		return nil, &analysis.MissingPrerequisiteError{Step: step, Missing: missing}
	}

	prompt, err := e.prompt(ctx, step, in)
	if err != nil {
		return nil, &analysis.StepError{Step: step, Err: err}
	}

	if step == analysis.StepThemes {
		return e.classifyThemes(ctx, in, prompt)
	}

	return e.complete(ctx, step, in, prompt)
}

// prompt renders the step template with the step's inputs and appends the
// fixed output specification.
func (e *Extractor) prompt(ctx context.Context, step analysis.Step, in analysis.Input) (string, error) {
	tmpl, err := e.source.Template(ctx, step, in.LegalSystem, in.PreciseJurisdiction)
	if err != nil {
		return "", fmt.Errorf("load template: %w", err)
	}

	spec, err := prompts.Spec(step)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(prompts.Render(tmpl, e.vars(in)))
	sb.WriteString("\n\n")
	sb.WriteString(spec)
	return sb.String(), nil
}

func (e *Extractor) complete(ctx context.Context, step analysis.Step, in analysis.Input, prompt string) (analysis.Output, error) {
	resp, err := e.client.Complete(ctx, llm.Request{
		Model:  in.Model,
		System: e.systemPrompt(in),
		Prompt: prompt,
		JSON:   true,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, classify(step, err)
	}

	e.logger.DebugContext(ctx, "completion received",
		"step", step,
		"model", resp.Model,
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens,
	)

	out, err := parse(step, resp.Content)
	if err != nil {
		return nil, &analysis.StepError{Step: step, Err: err}
	}
	return out, nil
}

// parse reads the step field, confidence and reasoning from a JSON answer.
// A missing confidence is recorded as low.
func parse(step analysis.Step, content string) (analysis.Output, error) {
	field, err := prompts.Field(step)
	if err != nil {
		return nil, err
	}

	raw, err := formatting.Parse[map[string]json.RawMessage](content)
	if err != nil {
		return nil, err
	}

	data, ok := raw[field]
	if !ok {
		return nil, fmt.Errorf("%w: missing %s field", formatting.ErrParseFailed, field)
	}

	var v analysis.Value
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", formatting.ErrParseFailed, field, err)
	}

	a := analysis.Assessment{Confidence: analysis.ConfidenceLow}
	if c, ok := raw["confidence"]; ok {
		var s string
		if err := json.Unmarshal(c, &s); err == nil {
			if parsed, err := analysis.ParseConfidence(s); err == nil {
				a.Confidence = parsed
			}
		}
	}
	if r, ok := raw["reasoning"]; ok {
		a.Reasoning = reasoning(r)
	}

	return analysis.NewOutput(step, v, a)
}

// reasoning keeps a non-string reasoning value as its JSON text.
func reasoning(r json.RawMessage) string {
	var s string
	if err := json.Unmarshal(r, &s); err == nil {
		return s
	}
	if t := strings.TrimSpace(string(r)); t != "null" {
		return t
	}
	return ""
}
