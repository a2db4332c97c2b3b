// Package features maps a profile onto the fixed-order numeric vector a trained
// classifier expects.
package features

import (
	"strings"

	"lantern/internal/profile"
	"lantern/internal/textmatch"
)

const (
	SkillPrefix    = "skill_"
	InterestPrefix = "interest_"

	maxSubjectScore = 100.0
	maxGPA          = 4.0
	maxRating       = 5.0
)

// Schema is the ordered list of feature names a model was trained on.
type Schema []string

var defaultSkills = []string{
	"programming", "communication", "analytical_thinking", "problem_solving", "creativity",
	"leadership", "teamwork", "attention_to_detail", "time_management", "stress_management",
	"empathy", "technical_skills", "presentation", "project_management", "dedication",
	"integrity", "patience",
}

var defaultInterests = []string{
	"technology", "engineering", "healthcare", "business", "arts",
	"education", "research", "helping_others", "finance", "law",
}

// DefaultSchema returns the training-time feature order used when a model artifact
// does not carry its own feature names.
func DefaultSchema() Schema {
	schema := make(Schema, 0, 4+len(defaultSkills)+len(defaultInterests))
	schema = append(schema, "math_score", "science_score", "english_score", "gpa")
	for _, s := range defaultSkills {
		schema = append(schema, SkillPrefix+s)
	}
	for _, i := range defaultInterests {
		schema = append(schema, InterestPrefix+i)
	}
	return schema
}

// BuildVector returns one value per schema entry, in schema order:
//   - math_score, science_score and english_score divided by 100;
//   - gpa divided by 4.0;
//   - skill_<name> and interest_<name> ratings divided by 5;
//   - any other name is looked up among skills, then interests, divided by 5.
//
// Missing profile fields yield 0. An empty schema yields the basic vector.
func BuildVector(p *profile.Profile, schema Schema) []float64 {
	if p == nil {
		p = &profile.Profile{}
	}
	if len(schema) == 0 {
		return Basic(p)
	}

	vector := make([]float64, len(schema))
	for i, name := range schema {
		vector[i] = value(p, name)
	}
	return vector
}

func value(p *profile.Profile, name string) float64 {
	switch name {
	case "math_score":
		return p.MathScore / maxSubjectScore
	case "science_score":
		return p.ScienceScore / maxSubjectScore
	case "english_score":
		return p.EnglishScore / maxSubjectScore
	case "gpa":
		return p.GPA / maxGPA
	}

	if skill, ok := strings.CutPrefix(name, SkillPrefix); ok {
		return rating(p.Skills, skill)
	}
	if interest, ok := strings.CutPrefix(name, InterestPrefix); ok {
		return rating(p.Interests, interest)
	}

	if _, v, ok := textmatch.Lookup(p.Skills, name); ok {
		return clampRating(v)
	}
	if _, v, ok := textmatch.Lookup(p.Interests, name); ok {
		return clampRating(v)
	}
	return 0
}

func rating(ratings map[string]int, name string) float64 {
	return clampRating(textmatch.Rating(ratings, name))
}

func clampRating(v int) float64 {
	if v <= 0 {
		return 0
	}
	return float64(v) / maxRating
}
