package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/JaimeStill/cold/internal/analysis"
)

//go:embed templates.yaml
var templatesYAML []byte

type catalogFile struct {
	System    string                       `yaml:"system"`
	Detection string                       `yaml:"detection"`
	Families  map[string]map[string]string `yaml:"families"`
}

// Catalog holds the default templates. It is read-only after loading.
type Catalog struct {
	system    string
	detection string
	templates map[Family]map[analysis.Step]string
}

var defaults = sync.OnceValue(func() *Catalog {
	c, err := LoadCatalog(templatesYAML)
	if err != nil {
		panic(fmt.Sprintf("load templates.yaml: %v", err))
	}
	return c
})

// Defaults returns the embedded catalog.
func Defaults() *Catalog {
	return defaults()
}

// LoadCatalog parses a YAML catalog. The civil-law family must define every
// step it runs and the common-law family every step; other families may be
// partial and fall back to common-law.
func LoadCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	c := &Catalog{
		system:    strings.TrimSpace(file.System),
		detection: strings.TrimSpace(file.Detection),
		templates: make(map[Family]map[analysis.Step]string),
	}
	if c.system == "" {
		return nil, fmt.Errorf("%w: missing system prompt", ErrInvalidCatalog)
	}

	for rawFamily, steps := range file.Families {
		family, err := ParseFamily(rawFamily)
		if err != nil {
			return nil, fmt.Errorf("%w: family %q: %v", ErrInvalidCatalog, rawFamily, err)
		}
		c.templates[family] = make(map[analysis.Step]string, len(steps))

		for rawStep, tmpl := range steps {
			step, err := analysis.ParseStep(rawStep)
			if err != nil {
				return nil, fmt.Errorf("%w: %s/%s: %v", ErrInvalidCatalog, family, rawStep, err)
			}
			if err := ValidateTemplate(tmpl); err != nil {
				return nil, fmt.Errorf("%w: %s/%s: %v", ErrInvalidCatalog, family, step, err)
			}
			c.templates[family][step] = strings.TrimSpace(tmpl)
		}
	}

	for _, step := range analysis.Steps() {
		if _, ok := c.templates[FamilyCommonLaw][step]; !ok {
			return nil, fmt.Errorf("%w: common-law missing %s", ErrInvalidCatalog, step)
		}
		if step == analysis.StepObiterDicta || step == analysis.StepDissentingOpinions {
			continue
		}
		if _, ok := c.templates[FamilyCivilLaw][step]; !ok {
			return nil, fmt.Errorf("%w: civil-law missing %s", ErrInvalidCatalog, step)
		}
	}

	return c, nil
}

// System returns the base system prompt shared by every step.
func (c *Catalog) System() string {
	return c.system
}

// Detection returns the jurisdiction detection template.
func (c *Catalog) Detection() string {
	return c.detection
}

// Lookup returns the default template for step in family, following the
// family fallback chain.
func (c *Catalog) Lookup(step analysis.Step, family Family) (string, error) {
	for f := family; f != ""; f = fallback[f] {
		if tmpl, ok := c.templates[f][step]; ok {
			return tmpl, nil
		}
	}
	return "", fmt.Errorf("%w: %s/%s", ErrMissingTemplate, family, step)
}

// Template implements Source without stored overrides.
func (c *Catalog) Template(_ context.Context, step analysis.Step, ls analysis.LegalSystem, precise *string) (string, error) {
	return c.Lookup(step, FamilyFor(ls, precise))
}
