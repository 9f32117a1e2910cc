package sessions

import (
	"net/url"
	"strconv"
	"time"

	"github.com/JaimeStill/cold/pkg/query"
	"github.com/JaimeStill/cold/pkg/repository"
)

const returning = `RETURNING id, document_id, case_citation, username, legal_system,
		precise_jurisdiction, model, analysis_done, created_at, updated_at`

var projection = query.
	NewProjectionMap("public", "sessions", "s").
	Project("id", "ID").
	Project("document_id", "DocumentID").
	Project("case_citation", "CaseCitation").
	Project("username", "Username").
	Project("legal_system", "LegalSystem").
	Project("precise_jurisdiction", "PreciseJurisdiction").
	Project("model", "Model").
	Project("analysis_done", "Done").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "UpdatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for session queries.
// CaseCitation uses case-insensitive contains; the update bounds are
// exclusive; the rest match exactly.
type Filters struct {
	CaseCitation  *string    `json:"case_citation,omitempty"`
	Username      *string    `json:"username,omitempty"`
	LegalSystem   *string    `json:"legal_system,omitempty"`
	Done          *bool      `json:"analysis_done,omitempty"`
	UpdatedAfter  *time.Time `json:"updated_after,omitempty"`
	UpdatedBefore *time.Time `json:"updated_before,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("CaseCitation", f.CaseCitation).
		WhereEquals("Username", f.Username).
		WhereEquals("LegalSystem", f.LegalSystem).
		WhereEquals("Done", f.Done).
		WhereAfter("UpdatedAt", f.UpdatedAfter).
		WhereBefore("UpdatedAt", f.UpdatedBefore)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// Unparseable analysis_done or RFC 3339 bound values are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if c := values.Get("case_citation"); c != "" {
		f.CaseCitation = &c
	}

	if u := values.Get("username"); u != "" {
		f.Username = &u
	}

	if ls := values.Get("legal_system"); ls != "" {
		f.LegalSystem = &ls
	}

	if d := values.Get("analysis_done"); d != "" {
		if v, err := strconv.ParseBool(d); err == nil {
			f.Done = &v
		}
	}

	f.UpdatedAfter = parseTime(values.Get("updated_after"))
	f.UpdatedBefore = parseTime(values.Get("updated_before"))

	return f
}

func parseTime(v string) *time.Time {
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil
	}
	return &t
}

func scanSession(s repository.Scanner) (Session, error) {
	var sess Session
	err := s.Scan(
		&sess.ID,
		&sess.DocumentID,
		&sess.CaseCitation,
		&sess.Username,
		&sess.LegalSystem,
		&sess.PreciseJurisdiction,
		&sess.Model,
		&sess.Done,
		&sess.CreatedAt,
		&sess.UpdatedAt,
	)
	return sess, err
}
