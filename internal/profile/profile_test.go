package profile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDoc = `{
  "math_score": 85,
  "science_score": 90,
  "english_score": 75,
  "gpa": 3.7,
  "skills": {"programming": 4, "analytical_thinking": 5},
  "interests": {"technology": 5},
  "academic_level": "undergraduate",
  "certifications": ["Python Basics"]
}`

func TestDecode_Valid(t *testing.T) {
	p, err := Decode([]byte(validDoc))
	require.NoError(t, err)

	assert.Equal(t, 85.0, p.MathScore)
	assert.Equal(t, 3.7, p.GPA)
	assert.Equal(t, 5, p.Skills["analytical_thinking"])
	assert.Equal(t, []string{"Python Basics"}, p.Certifications)
	assert.Equal(t, 90.0, p.Subject(SubjectScience))
	assert.Equal(t, 0.0, p.Subject("history"))
}

func TestValidate_OutOfRange(t *testing.T) {
	doc := `{"math_score": 120, "science_score": 90, "english_score": 75, "gpa": 4.5,
		"skills": {"programming": 7}, "interests": {}}`

	err := Validate([]byte(doc))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidProfile))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Issues, 3)
}

func TestValidate_MissingRequired(t *testing.T) {
	err := Validate([]byte(`{"math_score": 50}`))
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Issues)
}

func TestValidate_NotJSON(t *testing.T) {
	err := Validate([]byte(`{not json`))
	assert.ErrorIs(t, err, ErrInvalidProfile)
}
