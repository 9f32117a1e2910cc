package prompts_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/JaimeStill/cold/internal/analysis"
	"github.com/JaimeStill/cold/internal/prompts"
	"github.com/JaimeStill/cold/pkg/pagination"
	"github.com/JaimeStill/cold/pkg/routes"
)

func ptr(s string) *string { return &s }

func TestFamilyFor(t *testing.T) {
	tests := []struct {
		ls      analysis.LegalSystem
		precise *string
		want    prompts.Family
	}{
		{analysis.CivilLaw, nil, prompts.FamilyCivilLaw},
		{analysis.CivilLaw, ptr("Switzerland"), prompts.FamilyCivilLaw},
		{analysis.CommonLaw, ptr("United States"), prompts.FamilyCommonLaw},
		{analysis.CommonLaw, ptr(" india "), prompts.FamilyIndia},
		{analysis.Indian, nil, prompts.FamilyIndia},
		{analysis.UnknownSystem, nil, prompts.FamilyCivilLaw},
	}

	for _, tt := range tests {
		if got := prompts.FamilyFor(tt.ls, tt.precise); got != tt.want {
			t.Errorf("FamilyFor(%s, %v) = %s, want %s", tt.ls, tt.precise, got, tt.want)
		}
	}
}

func TestDefaults_Lookup(t *testing.T) {
	c := prompts.Defaults()

	if c.System() == "" || c.Detection() == "" {
		t.Fatal("catalog missing system or detection prompt")
	}

	for _, step := range analysis.Steps() {
		if _, err := c.Lookup(step, prompts.FamilyCommonLaw); err != nil {
			t.Errorf("common-law %s: %v", step, err)
		}
		if _, err := c.Lookup(step, prompts.FamilyIndia); err != nil {
			t.Errorf("india %s: %v", step, err)
		}
	}

	if _, err := c.Lookup(analysis.StepObiterDicta, prompts.FamilyCivilLaw); !errors.Is(err, prompts.ErrMissingTemplate) {
		t.Errorf("civil-law obiter_dicta error = %v, want ErrMissingTemplate", err)
	}

	india, _ := c.Lookup(analysis.StepCourtsPosition, prompts.FamilyIndia)
	common, _ := c.Lookup(analysis.StepCourtsPosition, prompts.FamilyCommonLaw)
	if india == common {
		t.Error("india courts_position does not override common-law")
	}

	indiaFacts, _ := c.Lookup(analysis.StepRelevantFacts, prompts.FamilyIndia)
	commonFacts, _ := c.Lookup(analysis.StepRelevantFacts, prompts.FamilyCommonLaw)
	if indiaFacts != commonFacts {
		t.Error("india relevant_facts did not fall back to common-law")
	}
}

func TestDefaults_AbstractPlaceholders(t *testing.T) {
	c := prompts.Defaults()

	common, _ := c.Lookup(analysis.StepAbstract, prompts.FamilyCommonLaw)
	civil, _ := c.Lookup(analysis.StepAbstract, prompts.FamilyCivilLaw)

	names := prompts.Placeholders(common)
	for _, want := range []string{prompts.VarObiterDicta, prompts.VarDissentingOpinions, prompts.VarCourtPosition} {
		if !contains(names, want) {
			t.Errorf("common-law abstract missing {%s}", want)
		}
	}
	if contains(prompts.Placeholders(civil), prompts.VarObiterDicta) {
		t.Error("civil-law abstract references {obiter_dicta}")
	}

	issue, _ := c.Lookup(analysis.StepColIssue, prompts.FamilyCivilLaw)
	if !contains(prompts.Placeholders(issue), prompts.VarClassificationDefinitions) {
		t.Error("col_issue missing {classification_definitions}")
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestLoadCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no system", "families: {}"},
		{"unknown family", "system: s\nfamilies:\n  roman: {}\n"},
		{"unknown step", "system: s\nfamilies:\n  civil-law:\n    holding: '{text}'\n"},
		{"incomplete", "system: s\nfamilies:\n  civil-law:\n    col_section: '{text}'\n"},
		{"bad placeholder", "system: s\nfamilies:\n  civil-law:\n    col_section: '{text} {verdict}'\n"},
		{"malformed", "system: [unclosed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := prompts.LoadCatalog([]byte(tt.yaml)); !errors.Is(err, prompts.ErrInvalidCatalog) {
				t.Errorf("LoadCatalog() error = %v, want ErrInvalidCatalog", err)
			}
		})
	}
}

func TestRender(t *testing.T) {
	got := prompts.Render("Issue: {col_issue}\nText: {text}\nKeep {unknown}", prompts.Vars{
		prompts.VarColIssue: "Does {text} apply?",
		prompts.VarText:     "decision",
	})
	want := "Issue: Does {text} apply?\nText: decision\nKeep {unknown}"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestValidateTemplate(t *testing.T) {
	if err := prompts.ValidateTemplate("Analyse {text} for {col_issue}"); err != nil {
		t.Errorf("valid template rejected: %v", err)
	}
	if err := prompts.ValidateTemplate("Analyse {document}"); !errors.Is(err, prompts.ErrUnknownPlaceholder) {
		t.Errorf("unknown placeholder error = %v", err)
	}
	if err := prompts.ValidateTemplate("No inputs at all"); !errors.Is(err, prompts.ErrUnknownPlaceholder) {
		t.Errorf("template without input error = %v", err)
	}
}

func TestSpec(t *testing.T) {
	for _, step := range analysis.Steps() {
		spec, err := prompts.Spec(step)
		if err != nil {
			t.Errorf("Spec(%s) error = %v", step, err)
			continue
		}
		if !strings.Contains(spec, `"confidence"`) {
			t.Errorf("Spec(%s) lacks confidence field", step)
		}
	}

	if _, err := prompts.Spec(analysis.Step("verdict")); !errors.Is(err, analysis.ErrUnknownStep) {
		t.Errorf("Spec(verdict) error = %v", err)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{prompts.ErrNotFound, http.StatusNotFound},
		{prompts.ErrDuplicate, http.StatusConflict},
		{prompts.ErrInvalidFamily, http.StatusBadRequest},
		{prompts.ErrInvalidID, http.StatusBadRequest},
		{analysis.ErrUnknownStep, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := prompts.MapHTTPStatus(tt.err); got != tt.want {
			t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

// stubSystem answers Effective from the catalog; other methods are unused.
type stubSystem struct {
	prompts.System
}

func (stubSystem) Effective(_ context.Context, step analysis.Step, family prompts.Family) (string, error) {
	return prompts.Defaults().Lookup(step, family)
}

func TestHandler_Template(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := prompts.NewHandler(stubSystem{}, logger, pagination.Config{})

	mux := http.NewServeMux()
	routes.Register(mux, h.Routes())

	tests := []struct {
		path   string
		status int
	}{
		{"/prompts/templates/india/relevant_facts", http.StatusOK},
		{"/prompts/templates/civil-law/obiter_dicta", http.StatusNotFound},
		{"/prompts/templates/roman/abstract", http.StatusBadRequest},
		{"/prompts/templates/civil-law/holding", http.StatusBadRequest},
		{"/prompts/not-a-uuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.status {
			t.Errorf("GET %s = %d, want %d", tt.path, rec.Code, tt.status)
		}
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/prompts/families", nil))
	var fams []prompts.Family
	if err := json.NewDecoder(rec.Body).Decode(&fams); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(prompts.Families(), fams); diff != "" {
		t.Errorf("families mismatch (-want +got):\n%s", diff)
	}
}
