package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JaimeStill/cold/internal/analysis"
	"github.com/JaimeStill/cold/internal/themes"
	"github.com/JaimeStill/cold/pkg/formatting"
)

// classifyThemes asks for themes until every returned name belongs to the
// vocabulary or the attempt budget runs out. Each retry appends a note
// naming the rejected themes. Exhaustion yields the NA theme with low
// confidence rather than an error; unreachable service errors still escape.
func (e *Extractor) classifyThemes(ctx context.Context, in analysis.Input, prompt string) (analysis.Output, error) {
	for attempt := 1; attempt <= e.themeAttempts; attempt++ {
		out, err := e.complete(ctx, analysis.StepThemes, in, prompt)
		if err != nil {
			if !errors.Is(err, formatting.ErrParseFailed) {
				return nil, err
			}
			e.logger.WarnContext(ctx, "theme classification unparseable",
				"attempt", attempt,
				"error", err,
			)
			e.observer.ObserveThemeRetry()
			continue
		}

		classified := out.(analysis.ThemeClassification)
		invalid := e.themes.Invalid(classified.Themes)
		if len(classified.Themes) > 0 && len(invalid) == 0 {
			return classified, nil
		}
		if len(classified.Themes) == 0 {
			invalid = []string{"(none)"}
		}

		e.logger.WarnContext(ctx, "invalid themes returned",
			"attempt", attempt,
			"invalid", invalid,
		)
		e.observer.ObserveThemeRetry()

		prompt += fmt.Sprintf(
			"\n\nNote: These themes are invalid and should not be used: %s. "+
				"Please select only from the provided themes table.",
			strings.Join(invalid, ", "),
		)
	}

	return analysis.ThemeClassification{
		Themes: []string{themes.NA},
		Assessment: analysis.Assessment{
			Confidence: analysis.ConfidenceLow,
			Reasoning:  fmt.Sprintf("Classification failed after %d attempts.", e.themeAttempts),
		},
	}, nil
}
