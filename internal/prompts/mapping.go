package prompts

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/cold/internal/analysis"
	"github.com/JaimeStill/cold/pkg/query"
	"github.com/JaimeStill/cold/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "prompts", "p").
	Project("id", "ID").
	Project("name", "Name").
	Project("step", "Step").
	Project("family", "Family").
	Project("template", "Template").
	Project("description", "Description").
	Project("active", "Active")

var defaultSort = query.SortField{
	Field: "name",
}

// Filters contains optional filtering criteria for prompt queries.
// Nil fields are ignored. Step, Family and Active use exact matching.
// Name uses case-insensitive contains matching.
type Filters struct {
	Step   *analysis.Step `json:"step,omitempty"`
	Family *Family        `json:"family,omitempty"`
	Name   *string        `json:"name,omitempty"`
	Active *bool          `json:"active,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Step", f.Step).
		WhereEquals("Family", f.Family).
		WhereContains("Name", f.Name).
		WhereEquals("Active", f.Active)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("step"); s != "" {
		if step, err := analysis.ParseStep(s); err == nil {
			f.Step = &step
		}
	}

	if fam := values.Get("family"); fam != "" {
		if family, err := ParseFamily(fam); err == nil {
			f.Family = &family
		}
	}

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	if a := values.Get("active"); a != "" {
		if v, err := strconv.ParseBool(a); err == nil {
			f.Active = &v
		}
	}

	return f
}

func scanPrompt(s repository.Scanner) (Prompt, error) {
	var p Prompt
	err := s.Scan(
		&p.ID,
		&p.Name,
		&p.Step,
		&p.Family,
		&p.Template,
		&p.Description,
		&p.Active,
	)
	return p, err
}
