package catalog

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// document is the on-disk layout of the careers file.
//
//	careers:
//	  software_engineer:
//	    name: Software Engineer
//	    category: Technology
//	    required_skills: {programming: 4}
//	    required_interests: {technology: 4}
//	    academic_weights: {math: 0.4, science: 0.3, english: 0.3}
//	    min_gpa: 3.0
//	features:
//	  skills: [programming]
//	  interests: [technology]
type document struct {
	Careers  yaml.Node `yaml:"careers"`
	Features Features  `yaml:"features"`
}

type rawCareer struct {
	Name              string          `yaml:"name"`
	Category          string          `yaml:"category"`
	Description       string          `yaml:"description"`
	RequiredSkills    Requirements    `yaml:"required_skills"`
	RequiredInterests Requirements    `yaml:"required_interests"`
	AcademicWeights   AcademicWeights `yaml:"academic_weights"`
	MinGPA            *float64        `yaml:"min_gpa"`
}

// UnmarshalYAML decodes a mapping of name to level, keeping declaration order.
func (r *Requirements) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: requirements must be a mapping", node.Line)
	}

	result := make(Requirements, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var req Requirement
		if err := node.Content[i].Decode(&req.Name); err != nil {
			return err
		}
		if err := node.Content[i+1].Decode(&req.Level); err != nil {
			return fmt.Errorf("requirement %q: %w", req.Name, err)
		}
		result = append(result, req)
	}

	*r = result
	return nil
}

// Load parses a careers document.
// Careers keep the order in which they appear in the document.
func Load(content []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	if doc.Careers.Kind != yaml.MappingNode || len(doc.Careers.Content) == 0 {
		return nil, errors.New("parse catalog: no careers defined")
	}

	definitions := make([]CareerDefinition, 0, len(doc.Careers.Content)/2)
	for i := 0; i+1 < len(doc.Careers.Content); i += 2 {
		var id string
		if err := doc.Careers.Content[i].Decode(&id); err != nil {
			return nil, fmt.Errorf("parse catalog: %w", err)
		}

		var raw rawCareer
		if err := doc.Careers.Content[i+1].Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse catalog: career %q: %w", id, err)
		}

		minGPA := DefaultMinGPA
		if raw.MinGPA != nil {
			minGPA = *raw.MinGPA
		}

		definitions = append(definitions, CareerDefinition{
			ID:                id,
			Name:              raw.Name,
			Category:          raw.Category,
			Description:       raw.Description,
			RequiredSkills:    raw.RequiredSkills,
			RequiredInterests: raw.RequiredInterests,
			AcademicWeights:   raw.AcademicWeights,
			MinGPA:            minGPA,
		})
	}

	return New(definitions, doc.Features)
}

// LoadFile reads and parses a careers file.
func LoadFile(path string) (*Catalog, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(content)
}

// LoadFileOrFallback reads a careers file and substitutes the built-in catalog
// when the file is missing or cannot be parsed.
func LoadFileOrFallback(path string, logger *zap.Logger) *Catalog {
	c, err := LoadFile(path)
	if err != nil {
		logger.Warn("Unable to load career catalog, using built-in fallback",
			zap.String("path", path), zap.Error(err))
		return Fallback()
	}

	logger.Info("Career catalog loaded", zap.String("path", path), zap.Int("careers", c.Len()))
	return c
}
