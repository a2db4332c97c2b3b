package textmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "analytical_thinking", Normalize("  Analytical Thinking "))
	assert.Equal(t, "problem_solving", Normalize("problem-solving"))
	assert.Equal(t, "", Normalize("   "))
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("programming", "Programming"))
	assert.True(t, Matches("communication", "communication_skills"))
	assert.True(t, Matches("communication_skills", "communication"))
	assert.False(t, Matches("arts", "law"))
	assert.False(t, Matches("", "law"), "empty names must not match")
}

func TestLookup_ExactWins(t *testing.T) {
	values := map[string]int{"programming": 4, "programming_basics": 2}

	key, v, ok := Lookup(values, "programming")
	assert.True(t, ok)
	assert.Equal(t, "programming", key)
	assert.Equal(t, 4, v)
}

func TestLookup_Normalized(t *testing.T) {
	values := map[string]int{"Analytical Thinking": 5}

	key, v, ok := Lookup(values, "analytical_thinking")
	assert.True(t, ok)
	assert.Equal(t, "Analytical Thinking", key)
	assert.Equal(t, 5, v)
}

func TestLookup_ContainmentIsDeterministic(t *testing.T) {
	values := map[string]int{"tech_writing": 1, "technology": 5, "biotech": 3}

	for i := 0; i < 20; i++ {
		key, v, ok := Lookup(values, "tech")
		assert.True(t, ok)
		assert.Equal(t, "biotech", key, "smallest key wins among containment matches")
		assert.Equal(t, 3, v)
	}
}

func TestLookup_Missing(t *testing.T) {
	_, v, ok := Lookup(map[string]int{"arts": 3}, "law")
	assert.False(t, ok)
	assert.Zero(t, v)

	_, _, ok = Lookup[int](nil, "law")
	assert.False(t, ok)

	_, _, ok = Lookup(map[string]int{"": 3}, "")
	assert.True(t, ok, "empty key is still an exact match")

	_, _, ok = Lookup(map[string]int{"arts": 3}, "  ")
	assert.False(t, ok)
}

func TestRating(t *testing.T) {
	ratings := map[string]int{"teamwork": 4}
	assert.Equal(t, 4, Rating(ratings, "Teamwork"))
	assert.Equal(t, 0, Rating(ratings, "leadership"))
}
