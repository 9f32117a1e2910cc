package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/JaimeStill/cold/internal/analysis"
	"github.com/JaimeStill/cold/internal/extraction"
	"github.com/JaimeStill/cold/internal/sessions"
)

var analyzeFlags struct {
	file         string
	legalSystem  string
	jurisdiction string
	model        string
	statePath    string
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the analysis workflow over a decision",
	Long: `Run the analysis workflow over a decision and print each completed step
as a JSON line.

With --state, progress is written after every step and an existing state
file is resumed: completed steps are kept and only the rest are run.

Examples:
  cold analyze --file decision.txt --legal-system civil-law
  cold analyze --file decision.txt --state run.json
  cold analyze --state run.json`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVarP(&analyzeFlags.file, "file", "f", "", "Decision text file (- for stdin)")
	f.StringVar(&analyzeFlags.legalSystem, "legal-system", "", "civil-law, common-law or indian (detected when empty)")
	f.StringVar(&analyzeFlags.jurisdiction, "jurisdiction", "", "Precise jurisdiction, e.g. Switzerland")
	f.StringVar(&analyzeFlags.model, "model", "", "Model identifier (default: llm.model)")
	f.StringVar(&analyzeFlags.statePath, "state", "", "State file to resume from and write to")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	extractor, err := newExtractor(ctx)
	if err != nil {
		return err
	}

	state, err := openState(ctx, extractor)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	persist := func() error {
		if analyzeFlags.statePath == "" {
			return nil
		}
		return saveState(analyzeFlags.statePath, state)
	}

	if state.CaseCitation == "" {
		out, err := extractor.Run(ctx, analysis.StepCaseCitation, analysis.Input{
			FullText:            state.FullText,
			LegalSystem:         state.LegalSystem,
			PreciseJurisdiction: state.PreciseJurisdiction,
			Model:               state.Model,
		})
		switch {
		case err == nil:
			analysis.Apply(state, out)
			if err := persist(); err != nil {
				return err
			}
			if err := enc.Encode(sessions.NewOutputEvent(state.LegalSystem, out)); err != nil {
				return err
			}
		case ctx.Err() != nil:
			return ctx.Err()
		default:
			logger.Warn("case citation extraction failed", "error", err)
		}
	}

	req, err := state.Request()
	if err != nil {
		return err
	}

	orch := analysis.New(extractor, logger, analysis.WithWorkers(cfg.Analysis.Workers))
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	run := orch.Begin(runCtx, req)

	var stopErr error
	for out := range run.Outputs() {
		if stopErr != nil {
			continue
		}
		analysis.Apply(state, out)
		if err := persist(); err != nil {
			stopErr = err
			cancel()
			continue
		}
		if err := enc.Encode(sessions.NewOutputEvent(state.LegalSystem, out)); err != nil {
			stopErr = err
			cancel()
		}
	}

	if stopErr != nil {
		return stopErr
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err := run.Err(); err != nil {
		ev := sessions.NewErrorEvent(err)
		if data, merr := json.Marshal(ev); merr == nil {
			fmt.Fprintln(cmd.ErrOrStderr(), string(data))
		}
		return fmt.Errorf("analysis %s", run.Phase())
	}

	logger.Info("analysis complete", "done", state.Done, "state", analyzeFlags.statePath)
	return nil
}

// openState resumes the state file when it exists and otherwise starts a
// new analysis of --file, detecting the jurisdiction when no legal system
// was given.
func openState(ctx context.Context, extractor *extraction.Extractor) (*analysis.State, error) {
	if analyzeFlags.statePath != "" {
		state, err := loadState(analyzeFlags.statePath)
		if err != nil {
			return nil, err
		}
		if state != nil {
			if analyzeFlags.model != "" {
				state.Model = analyzeFlags.model
			}
			if state.Model == "" {
				state.Model = cfg.LLM.Model
			}
			logger.Info("resuming analysis", "state", analyzeFlags.statePath, "legal_system", state.LegalSystem)
			return state, nil
		}
	}

	if analyzeFlags.file == "" {
		return nil, errors.New("--file is required unless --state names an existing state file")
	}

	text, err := readText(analyzeFlags.file)
	if err != nil {
		return nil, err
	}

	model := analyzeFlags.model
	if model == "" {
		model = cfg.LLM.Model
	}

	var precise *string
	if analyzeFlags.jurisdiction != "" {
		precise = &analyzeFlags.jurisdiction
	}

	var ls analysis.LegalSystem
	if analyzeFlags.legalSystem != "" {
		ls, err = analysis.ParseLegalSystem(analyzeFlags.legalSystem)
		if err != nil {
			return nil, fmt.Errorf("--legal-system %q: %w", analyzeFlags.legalSystem, err)
		}
	} else {
		j, err := extractor.DetectJurisdiction(ctx, text, model)
		if err != nil {
			return nil, err
		}
		logger.Info("jurisdiction detected",
			"legal_system", j.LegalSystem,
			"jurisdiction", j.PreciseJurisdiction,
			"confidence", j.Confidence,
		)
		ls = j.LegalSystem
		if precise == nil {
			precise = j.Precise()
		}
	}

	state := analysis.NewState(uuid.NewString(), text, ls, precise)
	state.Model = model
	return state, nil
}
