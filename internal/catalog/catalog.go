package catalog

import (
	"errors"
	"fmt"
	"sort"

	"lantern/internal/profile"
)

const (
	// DefaultCategory is used for careers that do not declare one.
	DefaultCategory = "General"
	// DefaultMinGPA is used for careers that do not declare a minimum GPA.
	DefaultMinGPA = 2.5
)

// ErrCareerNotFound is returned when a career identifier is not in the catalog.
var ErrCareerNotFound = errors.New("career not found")

// Requirement is a single required skill or interest with its level on the 1-5 scale.
type Requirement struct {
	Name  string
	Level int
}

// Requirements keeps requirements in the order they were declared.
type Requirements []Requirement

// Map returns the requirements as a name to level mapping.
func (r Requirements) Map() map[string]int {
	m := make(map[string]int, len(r))
	for _, req := range r {
		m[req.Name] = req.Level
	}
	return m
}

// AcademicWeights maps a subject (math, science, english) to its weight.
// Weights are used as given and never renormalized.
type AcademicWeights map[string]float64

// Weight returns the weight of a subject, 1/3 when the subject is not specified.
func (w AcademicWeights) Weight(subject string) float64 {
	if v, ok := w[subject]; ok {
		return v
	}
	return 1.0 / 3.0
}

// Primary returns the heaviest-weighted subject; ties go to the canonical subject order.
// Without any weights the primary subject is math.
func (w AcademicWeights) Primary() string {
	if len(w) == 0 {
		return profile.SubjectMath
	}
	best := ""
	for _, subject := range profile.Subjects {
		v, ok := w[subject]
		if !ok {
			continue
		}
		if best == "" || v > w[best] {
			best = subject
		}
	}
	if best == "" {
		return profile.SubjectMath
	}
	return best
}

// CareerDefinition describes the requirements of one career.
type CareerDefinition struct {
	ID                string
	Name              string
	Category          string
	Description       string
	RequiredSkills    Requirements
	RequiredInterests Requirements
	AcademicWeights   AcademicWeights
	MinGPA            float64
}

// Features lists the vocabularies recognized by the catalog.
type Features struct {
	Skills           []string `yaml:"skills" json:"skills"`
	Interests        []string `yaml:"interests" json:"interests"`
	AcademicSubjects []string `yaml:"academic_subjects" json:"academic_subjects"`
}

// Summary is the short listing form of a career.
type Summary struct {
	ID          string `json:"career_id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// Catalog is the read-only store of career definitions.
// It is built once at startup and never mutated, so it is safe for concurrent use.
type Catalog struct {
	order    []string
	careers  map[string]*CareerDefinition
	features Features
}

// New builds a catalog from definitions in iteration order.
// Returns an error when two definitions share an identifier or an identifier is empty.
func New(definitions []CareerDefinition, features Features) (*Catalog, error) {
	c := &Catalog{
		order:    make([]string, 0, len(definitions)),
		careers:  make(map[string]*CareerDefinition, len(definitions)),
		features: features,
	}

	for i := range definitions {
		def := definitions[i]
		if def.ID == "" {
			return nil, fmt.Errorf("career #%d: empty identifier", i)
		}
		if _, dup := c.careers[def.ID]; dup {
			return nil, fmt.Errorf("career %q: duplicate identifier", def.ID)
		}
		if def.Name == "" {
			def.Name = def.ID
		}
		if def.Category == "" {
			def.Category = DefaultCategory
		}
		c.order = append(c.order, def.ID)
		c.careers[def.ID] = &def
	}

	if len(c.features.AcademicSubjects) == 0 {
		c.features.AcademicSubjects = append([]string(nil), profile.Subjects...)
	}

	return c, nil
}

// Len returns the number of careers.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Get returns the definition for id.
func (c *Catalog) Get(id string) (*CareerDefinition, bool) {
	def, ok := c.careers[id]
	return def, ok
}

// All returns every definition in catalog order.
func (c *Catalog) All() []*CareerDefinition {
	result := make([]*CareerDefinition, len(c.order))
	for i, id := range c.order {
		result[i] = c.careers[id]
	}
	return result
}

// Summaries returns the listing form of every career in catalog order.
func (c *Catalog) Summaries() []Summary {
	return summarize(c.All())
}

// Categories returns the sorted set of categories.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	for _, def := range c.careers {
		seen[def.Category] = struct{}{}
	}
	result := make([]string, 0, len(seen))
	for category := range seen {
		result = append(result, category)
	}
	sort.Strings(result)
	return result
}

// Features returns a copy of the features manifest.
func (c *Catalog) Features() Features {
	return Features{
		Skills:           append([]string{}, c.features.Skills...),
		Interests:        append([]string{}, c.features.Interests...),
		AcademicSubjects: append([]string{}, c.features.AcademicSubjects...),
	}
}

func summarize(defs []*CareerDefinition) []Summary {
	result := make([]Summary, len(defs))
	for i, def := range defs {
		result[i] = Summary{
			ID:          def.ID,
			Name:        def.Name,
			Category:    def.Category,
			Description: def.Description,
		}
	}
	return result
}
