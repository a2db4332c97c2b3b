package features

import (
	"lantern/internal/profile"
	"lantern/internal/textmatch"
)

// defaultEducationRank is used for missing or unrecognized academic levels.
const defaultEducationRank = 2

var educationRanks = map[string]float64{
	"high_school":   0,
	"plus_two":      1,
	"bachelors":     2,
	"undergraduate": 2,
	"masters":       3,
	"graduate":      3,
	"phd":           4,
}

// BasicSchema names the entries of the basic vector.
var BasicSchema = Schema{"education_level", "gpa", "skill_count", "certification_count"}

// Basic is the last-resort vector for models that carry no feature names:
// education rank, GPA fraction, number of skills, number of certifications.
func Basic(p *profile.Profile) []float64 {
	if p == nil {
		p = &profile.Profile{}
	}
	return []float64{
		EducationRank(p.AcademicLevel),
		p.GPA / maxGPA,
		float64(len(p.Skills)),
		float64(len(p.Certifications)),
	}
}

// EducationRank orders academic levels from high school (0) to doctorate (4).
func EducationRank(level string) float64 {
	if rank, ok := educationRanks[textmatch.Normalize(level)]; ok {
		return rank
	}
	return defaultEducationRank
}
