package features

import (
	"testing"

	"lantern/internal/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfile() *profile.Profile {
	return &profile.Profile{
		MathScore:      85,
		ScienceScore:   90,
		EnglishScore:   75,
		GPA:            3.6,
		Skills:         map[string]int{"programming": 4, "Problem Solving": 5},
		Interests:      map[string]int{"technology": 5, "arts": 2},
		AcademicLevel:  "Undergraduate",
		Certifications: []string{"Python Basics", "AWS"},
	}
}

func TestBuildVector_DirectAndPrefixed(t *testing.T) {
	schema := Schema{"math_score", "gpa", "skill_programming", "interest_arts", "skill_leadership", "english_score", "science_score"}

	vector := BuildVector(testProfile(), schema)

	require.Len(t, vector, len(schema))
	assert.InDelta(t, 0.85, vector[0], 1e-9)
	assert.InDelta(t, 0.9, vector[1], 1e-9)
	assert.InDelta(t, 0.8, vector[2], 1e-9)
	assert.InDelta(t, 0.4, vector[3], 1e-9)
	assert.Equal(t, 0.0, vector[4])
	assert.InDelta(t, 0.75, vector[5], 1e-9)
	assert.InDelta(t, 0.9, vector[6], 1e-9)
}

func TestBuildVector_GPAIndependentOfNeighbours(t *testing.T) {
	p := testProfile()

	a := BuildVector(p, Schema{"gpa"})
	b := BuildVector(p, Schema{"skill_programming", "interest_technology", "gpa"})

	assert.Equal(t, a[0], b[2])
	assert.InDelta(t, 0.9, b[2], 1e-9)
}

func TestBuildVector_FuzzyAndUnprefixed(t *testing.T) {
	vector := BuildVector(testProfile(), Schema{"skill_problem_solving", "technology", "programming", "unknown"})

	assert.InDelta(t, 1.0, vector[0], 1e-9)
	assert.InDelta(t, 1.0, vector[1], 1e-9)
	assert.InDelta(t, 0.8, vector[2], 1e-9)
	assert.Equal(t, 0.0, vector[3])
}

func TestBuildVector_NilProfile(t *testing.T) {
	vector := BuildVector(nil, DefaultSchema())
	require.Len(t, vector, len(DefaultSchema()))
	for _, v := range vector {
		assert.Equal(t, 0.0, v)
	}
}

func TestBuildVector_EmptySchemaFallsBack(t *testing.T) {
	vector := BuildVector(testProfile(), nil)
	assert.Equal(t, []float64{2, 0.9, 2, 2}, vector)
	assert.Len(t, BasicSchema, len(vector))
}

func TestDefaultSchema(t *testing.T) {
	schema := DefaultSchema()

	require.Len(t, schema, 31)
	assert.Equal(t, Schema{"math_score", "science_score", "english_score", "gpa"}, schema[:4])
	assert.Equal(t, "skill_programming", schema[4])
	assert.Equal(t, "interest_law", schema[len(schema)-1])
}

func TestEducationRank(t *testing.T) {
	assert.Equal(t, 0.0, EducationRank("high school"))
	assert.Equal(t, 1.0, EducationRank("plus_two"))
	assert.Equal(t, 2.0, EducationRank("bachelors"))
	assert.Equal(t, 3.0, EducationRank("Graduate"))
	assert.Equal(t, 4.0, EducationRank("phd"))
	assert.Equal(t, 2.0, EducationRank(""))
	assert.Equal(t, 2.0, EducationRank("apprenticeship"))
}
