// Package themes holds the controlled vocabulary of private international
// law themes used to classify court decisions.
package themes

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
)

// NA is the sentinel theme recorded when classification cannot produce a
// valid result.
const NA = "NA"

//go:embed themes.csv
var themesCSV []byte

var ErrInvalidCatalog = errors.New("invalid themes catalog")

// Theme is a vocabulary entry.
type Theme struct {
	Name       string `json:"theme"`
	Definition string `json:"definition"`
}

// Catalog is an immutable, ordered theme vocabulary.
type Catalog struct {
	themes []Theme
	index  map[string]int
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c, err := Load(bytes.NewReader(themesCSV))
	if err != nil {
		panic(fmt.Sprintf("load themes.csv: %v", err))
	}
	return c
})

// Default returns the embedded catalog.
func Default() *Catalog {
	return defaultCatalog()
}

// Load reads a catalog from CSV with Theme and Definition columns.
// Rows with an empty theme are skipped.
func Load(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrInvalidCatalog, err)
	}

	nameCol := slices.Index(header, "Theme")
	defCol := slices.Index(header, "Definition")
	if nameCol < 0 || defCol < 0 {
		return nil, fmt.Errorf("%w: missing Theme or Definition column", ErrInvalidCatalog)
	}

	c := &Catalog{index: make(map[string]int)}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
		}

		name := strings.TrimSpace(row[nameCol])
		if name == "" {
			continue
		}
		if _, dup := c.index[name]; dup {
			return nil, fmt.Errorf("%w: duplicate theme %q", ErrInvalidCatalog, name)
		}

		c.index[name] = len(c.themes)
		c.themes = append(c.themes, Theme{
			Name:       name,
			Definition: strings.TrimSpace(row[defCol]),
		})
	}

	return c, nil
}

func (c *Catalog) All() []Theme {
	return slices.Clone(c.themes)
}

func (c *Catalog) Names() []string {
	names := make([]string, len(c.themes))
	for i, t := range c.themes {
		names[i] = t.Name
	}
	return names
}

// Valid reports whether name is in the vocabulary. Matching is exact.
func (c *Catalog) Valid(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Invalid returns the names not present in the vocabulary, in input order.
func (c *Catalog) Invalid(names []string) []string {
	var invalid []string
	for _, n := range names {
		if !c.Valid(n) {
			invalid = append(invalid, n)
		}
	}
	return invalid
}

// Filter returns the entries for names in catalog order, ignoring unknown
// names.
func (c *Catalog) Filter(names []string) []Theme {
	var out []Theme
	for _, t := range c.themes {
		if slices.Contains(names, t.Name) {
			out = append(out, t)
		}
	}
	return out
}

// Table renders the full vocabulary as a Markdown table.
func (c *Catalog) Table() string {
	return Table(c.themes)
}

// Table renders themes as a two-column Markdown table.
func Table(themes []Theme) string {
	if len(themes) == 0 {
		return "No themes available."
	}

	var b strings.Builder
	b.WriteString("| Theme | Definition |\n")
	b.WriteString("|-------|------------|\n")
	for _, t := range themes {
		fmt.Fprintf(&b, "| %s | %s |\n", escape(t.Name), escape(t.Definition))
	}
	return b.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
