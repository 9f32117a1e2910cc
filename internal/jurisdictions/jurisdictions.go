// Package jurisdictions is the reference list of jurisdictions with their
// legal system family and private international law summary.
package jurisdictions

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/JaimeStill/cold/internal/analysis"
)

//go:embed jurisdictions.csv
var jurisdictionsCSV []byte

var ErrInvalidRegistry = errors.New("invalid jurisdictions registry")

type Jurisdiction struct {
	Name        string               `json:"name"`
	Code        string               `json:"code"`
	LegalSystem analysis.LegalSystem `json:"legal_system"`
	Summary     string               `json:"summary"`
}

// Registry is sorted by name.
type Registry struct {
	entries []Jurisdiction
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := Load(bytes.NewReader(jurisdictionsCSV))
	if err != nil {
		panic(fmt.Sprintf("load jurisdictions.csv: %v", err))
	}
	return r
})

// Default returns the embedded registry.
func Default() *Registry {
	return defaultRegistry()
}

// Load reads a registry from CSV with Name, Alpha-3 Code, Legal System and
// Jurisdiction Summary columns.
func Load(r io.Reader) (*Registry, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrInvalidRegistry, err)
	}

	cols := map[string]int{}
	for _, name := range []string{"Name", "Alpha-3 Code", "Legal System", "Jurisdiction Summary"} {
		i := slices.Index(header, name)
		if i < 0 {
			return nil, fmt.Errorf("%w: missing %s column", ErrInvalidRegistry, name)
		}
		cols[name] = i
	}

	reg := &Registry{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRegistry, err)
		}

		name := strings.TrimSpace(row[cols["Name"]])
		if name == "" {
			continue
		}

		ls, err := analysis.ParseLegalSystem(row[cols["Legal System"]])
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRegistry, name, err)
		}

		reg.entries = append(reg.entries, Jurisdiction{
			Name:        name,
			Code:        strings.TrimSpace(row[cols["Alpha-3 Code"]]),
			LegalSystem: ls,
			Summary:     strings.TrimSpace(row[cols["Jurisdiction Summary"]]),
		})
	}

	slices.SortFunc(reg.entries, func(a, b Jurisdiction) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})

	return reg, nil
}

func (r *Registry) All() []Jurisdiction {
	return slices.Clone(r.entries)
}

// Lookup finds a jurisdiction by case-insensitive name.
func (r *Registry) Lookup(name string) (Jurisdiction, bool) {
	name = strings.TrimSpace(name)
	for _, j := range r.entries {
		if strings.EqualFold(j.Name, name) {
			return j, true
		}
	}
	return Jurisdiction{}, false
}

// Match performs Lookup and falls back to containment in either direction.
// The second result reports whether the match was exact.
func (r *Registry) Match(name string) (j Jurisdiction, exact bool, ok bool) {
	if j, ok := r.Lookup(name); ok {
		return j, true, true
	}

	needle := strings.ToLower(strings.TrimSpace(name))
	if len(needle) < 3 {
		return Jurisdiction{}, false, false
	}
	for _, j := range r.entries {
		hay := strings.ToLower(j.Name)
		if strings.Contains(hay, needle) || strings.Contains(needle, hay) {
			return j, false, true
		}
	}
	return Jurisdiction{}, false, false
}

// Summary returns the summary for name, or "" when unknown.
func (r *Registry) Summary(name string) string {
	if j, ok := r.Lookup(name); ok {
		return j.Summary
	}
	return ""
}

// List renders the jurisdiction names as a Markdown bullet list.
func (r *Registry) List() string {
	var b strings.Builder
	for _, j := range r.entries {
		b.WriteString("- ")
		b.WriteString(j.Name)
		b.WriteByte('\n')
	}
	return b.String()
}
