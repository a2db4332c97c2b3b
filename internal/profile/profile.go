package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidProfile is returned when a profile document fails schema validation.
var ErrInvalidProfile = errors.New("invalid profile")

// Profile is the user input to a single matching request.
// Missing fields are zero values; scoring treats them as 0 or empty.
type Profile struct {
	MathScore      float64        `json:"math_score"`
	ScienceScore   float64        `json:"science_score"`
	EnglishScore   float64        `json:"english_score"`
	GPA            float64        `json:"gpa"`
	Skills         map[string]int `json:"skills"`
	Interests      map[string]int `json:"interests"`
	AcademicLevel  string         `json:"academic_level,omitempty"`
	Certifications []string       `json:"certifications,omitempty"`
}

// Subject returns the academic score for one of math, science or english.
func (p *Profile) Subject(name string) float64 {
	switch name {
	case SubjectMath:
		return p.MathScore
	case SubjectScience:
		return p.ScienceScore
	case SubjectEnglish:
		return p.EnglishScore
	}
	return 0
}

const (
	SubjectMath    = "math"
	SubjectScience = "science"
	SubjectEnglish = "english"
)

// Subjects lists the academic subjects in their canonical order.
var Subjects = []string{SubjectMath, SubjectScience, SubjectEnglish}

// ValidationError lists every schema violation found in a profile document.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return "profile validation failed: " + strings.Join(e.Issues, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidProfile
}

var schemaLoader = gojsonschema.NewStringLoader(schema)

// Validate checks a raw JSON profile document against the profile schema.
func Validate(doc []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	if !result.Valid() {
		issues := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			issues[i] = desc.String()
		}
		return &ValidationError{Issues: issues}
	}

	return nil
}

// Decode validates and unmarshals a raw JSON profile document.
func Decode(doc []byte) (*Profile, error) {
	if err := Validate(doc); err != nil {
		return nil, err
	}

	var p Profile
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	return &p, nil
}
