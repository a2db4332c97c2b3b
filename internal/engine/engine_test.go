package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"lantern/internal/catalog"
	"lantern/internal/model"
	"lantern/internal/profile"
	"lantern/internal/score"
	"lantern/internal/score/scorer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPredictor struct {
	available bool
	outcome   model.Outcome
	calls     int
}

func (sp *stubPredictor) Available() bool {
	return sp.available
}

func (sp *stubPredictor) Predict(context.Context, *profile.Profile, int) model.Outcome {
	sp.calls++
	return sp.outcome
}

const testCatalog = `
careers:
  software_engineer:
    name: Software Engineer
    category: Technology
    required_skills: {programming: 4, analytical_thinking: 4}
    required_interests: {technology: 4}
    academic_weights: {math: 0.4, science: 0.3, english: 0.3}
    min_gpa: 3.0
  data_scientist:
    name: Data Scientist
    category: Technology
    description: Turns data into decisions
    required_skills: {programming: 4, statistics: 4}
    required_interests: {research: 4}
    academic_weights: {math: 0.6, science: 0.3, english: 0.1}
  graphic_designer:
    name: Graphic Designer
    category: Arts
    required_skills: {creativity: 5}
    required_interests: {arts: 4}
  nurse:
    name: Nurse
    category: Healthcare
    required_skills: {empathy: 4}
    required_interests: {healthcare: 4}
`

func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load([]byte(testCatalog))
	require.NoError(t, err)
	return c
}

func newTestEngine(t *testing.T, predictor Predictor) *Engine {
	t.Helper()
	return New(Params{Catalog: newTestCatalog(t), Predictor: predictor, Workers: 3, Logger: zap.NewNop()})
}

func scenarioProfile() *profile.Profile {
	return &profile.Profile{
		MathScore:    85,
		ScienceScore: 90,
		EnglishScore: 75,
		GPA:          3.7,
		Skills:       map[string]int{"programming": 4, "analytical_thinking": 5},
		Interests:    map[string]int{"technology": 5},
	}
}

func TestEngine_TopCareers(t *testing.T) {
	e := newTestEngine(t, nil)

	results := e.TopCareers(context.Background(), scenarioProfile(), 2)
	require.Len(t, results, 2)
	assert.Equal(t, "software_engineer", results[0].CareerID)
	assert.InDelta(t, 94.05, results[0].MatchScore, 1e-9)
	assert.NotEqual(t, results[0].CareerID, results[1].CareerID)
}

func TestEngine_TopCareersMatchesSequentialScorer(t *testing.T) {
	c := newTestCatalog(t)
	e := New(Params{Catalog: c, Workers: 4})
	rs := scorer.NewRulesScorer(c)

	profiles := []*profile.Profile{
		scenarioProfile(),
		{GPA: 2.0},
		{MathScore: 50, Skills: map[string]int{"creativity": 5, "empathy": 5}, Interests: map[string]int{"arts": 4, "healthcare": 4}},
	}
	for i, p := range profiles {
		t.Run(fmt.Sprintf("profile %d", i), func(t *testing.T) {
			for k := 1; k <= c.Len()+1; k++ {
				assert.Equal(t, rs.TopK(p, k), e.TopCareers(context.Background(), p, k))
			}
		})
	}
}

func TestEngine_TopCareersPrefix(t *testing.T) {
	e := newTestEngine(t, nil)
	p := scenarioProfile()

	full := e.TopCareers(context.Background(), p, 10)
	for k := 1; k < len(full); k++ {
		top := e.TopCareers(context.Background(), p, k)
		assert.Equal(t, full[:k], top)

		seen := make(map[string]bool)
		for _, r := range top {
			assert.False(t, seen[r.CareerID], "duplicate %s", r.CareerID)
			seen[r.CareerID] = true
		}
	}
}

func TestEngine_PredictHybrid_ModelUnavailable(t *testing.T) {
	e := newTestEngine(t, model.Unavailable(zap.NewNop()))
	p := scenarioProfile()

	hybrid := e.PredictHybrid(context.Background(), p, 3, true)

	assert.Equal(t, score.MethodRuleBased, hybrid.Method)
	assert.Equal(t, model.StatusUnavailable, hybrid.ModelStatus)
	require.Len(t, hybrid.Results, 3)

	top := e.TopCareers(context.Background(), p, 3)
	for i := range top {
		assert.Equal(t, top[i], hybrid.Results[i].MatchResult)
	}
}

func TestEngine_PredictHybrid_ModelNotRequested(t *testing.T) {
	sp := &stubPredictor{available: true}
	e := newTestEngine(t, sp)

	hybrid := e.PredictHybrid(context.Background(), scenarioProfile(), 3, false)

	assert.Equal(t, score.MethodRuleBased, hybrid.Method)
	assert.Empty(t, hybrid.ModelStatus)
	assert.Zero(t, sp.calls)
}

func TestEngine_PredictHybrid_ModelFailure(t *testing.T) {
	sp := &stubPredictor{available: true, outcome: model.Outcome{
		Predictions: []score.ModelPrediction{},
		Status:      model.StatusFailed,
		Err:         errors.New("corrupt vector"),
	}}
	e := newTestEngine(t, sp)
	p := scenarioProfile()

	hybrid := e.PredictHybrid(context.Background(), p, 2, true)

	assert.Equal(t, score.MethodRuleBased, hybrid.Method)
	assert.Equal(t, model.StatusFailed, hybrid.ModelStatus)
	assert.Equal(t, scorer.FromMatches(e.TopCareers(context.Background(), p, 2)), hybrid.Results)
}

func TestEngine_PredictHybrid_EmptyPredictions(t *testing.T) {
	sp := &stubPredictor{available: true, outcome: model.Outcome{Predictions: []score.ModelPrediction{}, Status: model.StatusOK}}
	e := newTestEngine(t, sp)

	hybrid := e.PredictHybrid(context.Background(), scenarioProfile(), 2, true)
	assert.Equal(t, score.MethodRuleBased, hybrid.Method)
}

func TestEngine_PredictHybrid_Fused(t *testing.T) {
	sp := &stubPredictor{available: true, outcome: model.Outcome{
		Status: model.StatusOK,
		Predictions: []score.ModelPrediction{
			{CareerID: "nurse", Label: "Nurse", Confidence: 0.9, MatchScore: 90},
			{CareerID: "pilot", Label: "Pilot", Confidence: 0.1, MatchScore: 10},
		},
	}}
	e := newTestEngine(t, sp)

	hybrid := e.PredictHybrid(context.Background(), scenarioProfile(), 2, true)

	assert.Equal(t, score.MethodHybrid, hybrid.Method)
	assert.Equal(t, model.StatusOK, hybrid.ModelStatus)
	require.Len(t, hybrid.Results, 2)

	// nurse is outside the rule top 2, so it enters with rule_score 0: 90 × 0.6 = 54
	nurse := hybrid.Results[0]
	assert.Equal(t, "nurse", nurse.CareerID)
	assert.Equal(t, 0.0, nurse.RuleScore)
	assert.InDelta(t, 54.0, nurse.MatchScore, 1e-9)
	assert.Equal(t, "Healthcare", nurse.Category)

	// software engineer: 94.05 × 0.4
	assert.Equal(t, "software_engineer", hybrid.Results[1].CareerID)
	assert.InDelta(t, 37.62, hybrid.Results[1].MatchScore, 1e-9)
}

func TestEngine_PredictHybrid_UnknownModelCareerKeepsLabel(t *testing.T) {
	sp := &stubPredictor{available: true, outcome: model.Outcome{
		Status:      model.StatusOK,
		Predictions: []score.ModelPrediction{{CareerID: "pilot", Label: "Pilot", Confidence: 1, MatchScore: 100}},
	}}
	e := newTestEngine(t, sp)

	hybrid := e.PredictHybrid(context.Background(), scenarioProfile(), 5, true)

	require.NotEmpty(t, hybrid.Results)
	assert.Equal(t, "pilot", hybrid.Results[0].CareerID)
	assert.Equal(t, "Pilot", hybrid.Results[0].CareerName)
	assert.Empty(t, hybrid.Results[0].Category)
}

func TestEngine_ExplainMatch(t *testing.T) {
	e := newTestEngine(t, nil)

	explanation, err := e.ExplainMatch(context.Background(), scenarioProfile(), "software_engineer")
	require.NoError(t, err)
	assert.Equal(t, "Software Engineer", explanation.Career)

	_, err = e.ExplainMatch(context.Background(), scenarioProfile(), "astronaut")
	assert.ErrorIs(t, err, catalog.ErrCareerNotFound)
}

func TestEngine_CatalogAccessors(t *testing.T) {
	e := newTestEngine(t, nil)

	assert.Equal(t, []string{"Arts", "Healthcare", "Technology"}, e.Categories())
	assert.False(t, e.ModelAvailable())

	def, err := e.Career("data_scientist")
	require.NoError(t, err)
	assert.Equal(t, "Turns data into decisions", def.Description)

	_, err = e.Career("astronaut")
	assert.ErrorIs(t, err, catalog.ErrCareerNotFound)

	careers, err := e.Careers("Technology", `skills["programming"] >= 4`)
	require.NoError(t, err)
	assert.Len(t, careers, 2)

	assert.Equal(t, []string{"math", "science", "english"}, e.Features().AcademicSubjects)
}
