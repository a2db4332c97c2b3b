package score

import (
	"math"

	"lantern/internal/profile"
)

// Methods reported by a hybrid prediction.
const (
	MethodHybrid    = "hybrid"
	MethodRuleBased = "rule_based"
)

// Pillar budgets of the rule-based score.
const (
	AcademicBudget  = 30.0
	SkillsBudget    = 40.0
	InterestsBudget = 30.0
	MaxScore        = 100.0
)

// Breakdown holds the per-pillar sub-scores of a rule-based match.
type Breakdown struct {
	Academic  float64 `json:"academic"`
	Skills    float64 `json:"skills"`
	Interests float64 `json:"interests"`
}

// MatchResult is the score of one profile against one career.
type MatchResult struct {
	CareerID     string    `json:"career_id"`
	CareerName   string    `json:"career_name"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	MatchScore   float64   `json:"match_score"`
	Confidence   float64   `json:"confidence"`
	Breakdown    Breakdown `json:"score_breakdown"`
	Explanations []string  `json:"explanations"`
}

// ModelPrediction is one class produced by the trained classifier.
// CareerID is derived from the class label and may not exist in the catalog.
type ModelPrediction struct {
	CareerID   string  `json:"career_id"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	MatchScore float64 `json:"match_score"`
}

// CombinedResult is a fused rule and model result.
// MatchScore carries the combined score rounded to 2 decimals.
type CombinedResult struct {
	MatchResult
	RuleScore     float64 `json:"rule_score"`
	MLScore       float64 `json:"ml_score"`
	CombinedScore float64 `json:"combined_score"`
}

// AcademicFit explains the academic pillar.
type AcademicFit struct {
	Score       string `json:"score"`
	Explanation string `json:"explanation"`
}

// SkillGap is a required skill the profile rates below the requirement.
type SkillGap struct {
	Skill    string `json:"skill"`
	Current  int    `json:"current"`
	Required int    `json:"required"`
	Gap      int    `json:"gap"`
}

// SkillsFit explains the skills pillar.
type SkillsFit struct {
	Score    string     `json:"score"`
	Matching []string   `json:"matching"`
	Gaps     []SkillGap `json:"gaps"`
}

// InterestsFit explains the interests pillar.
type InterestsFit struct {
	Score    string   `json:"score"`
	Matching []string `json:"matching"`
}

// ExplanationBreakdown groups the three pillar explanations.
type ExplanationBreakdown struct {
	AcademicFit  AcademicFit  `json:"academic_fit"`
	SkillsFit    SkillsFit    `json:"skills_fit"`
	InterestsFit InterestsFit `json:"interests_fit"`
}

// Explanation is the detailed account of a single match.
type Explanation struct {
	CareerID        string               `json:"career_id"`
	Career          string               `json:"career"`
	OverallMatch    string               `json:"overall_match"`
	Summary         string               `json:"summary"`
	Breakdown       ExplanationBreakdown `json:"breakdown"`
	Recommendations []string             `json:"recommendations"`
}

// Scorer rates a profile against catalog careers.
type Scorer interface {
	Score(p *profile.Profile, careerID string) (MatchResult, bool)
	TopK(p *profile.Profile, k int) []MatchResult
}

// Explainer builds detailed explanations of a match.
type Explainer interface {
	Explain(p *profile.Profile, careerID string) (*Explanation, error)
}

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	default:
		return v
	}
}
