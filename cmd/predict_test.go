package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lantern/internal/profile"
)

const testProfile = `{
  "math_score": 85, "science_score": 90, "english_score": 75, "gpa": 3.7,
  "skills": {"programming": 4, "analytical_thinking": 5, "problem_solving": 4},
  "interests": {"technology": 5, "engineering": 4}
}`

func TestReadProfile(t *testing.T) {
	p, err := readProfile(strings.NewReader(testProfile), "-")
	require.NoError(t, err)
	assert.Equal(t, 3.7, p.GPA)
	assert.Equal(t, 5, p.Skills["analytical_thinking"])

	path := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, os.WriteFile(path, []byte(testProfile), 0o600))
	p, err = readProfile(nil, path)
	require.NoError(t, err)
	assert.Equal(t, 85.0, p.MathScore)

	_, err = readProfile(strings.NewReader(`{"gpa": 9}`), "-")
	assert.ErrorIs(t, err, profile.ErrInvalidProfile)

	_, err = readProfile(nil, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

// The catalog path defaults to config/careers.yaml, which does not exist relative
// to this package, so the commands run against the built-in catalog.
func TestPredictCommand_FallbackCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, os.WriteFile(path, []byte(testProfile), 0o600))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"predict", "--profile", path, "--top-k", "3", "--no-model"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())

	var resp struct {
		Success         bool   `json:"success"`
		TotalMatches    int    `json:"total_matches"`
		MethodUsed      string `json:"method_used"`
		Recommendations []struct {
			CareerID string `json:"career_id"`
		} `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp), out.String())
	assert.True(t, resp.Success)
	assert.Equal(t, "rule_based", resp.MethodUsed)
	require.Equal(t, 1, resp.TotalMatches)
	assert.Equal(t, "software_engineer", resp.Recommendations[0].CareerID)
}
