package scorer

import (
	"sort"

	"lantern/internal/score"
)

// Default fusion weights of rule scores and model scores.
const (
	DefaultRuleWeight  = 0.4
	DefaultModelWeight = 0.6
)

// CompositeScorer fuses rule-based matches with model predictions.
// Scores from both domains are put on the same 0-100 scale and summed with fixed weights.
type CompositeScorer struct {
	ruleWeight  float64
	modelWeight float64
}

// Combine fuses the results with the scorer's weights.
func (cs *CompositeScorer) Combine(rules []score.MatchResult, predictions []score.ModelPrediction) []score.CombinedResult {
	return Combine(rules, predictions, cs.ruleWeight, cs.modelWeight)
}

// Weights returns the rule and model weights.
func (cs *CompositeScorer) Weights() (float64, float64) {
	return cs.ruleWeight, cs.modelWeight
}

// Combine returns the union of rule results and model predictions:
//  1. every rule result seeds an entry with combined = match_score × ruleWeight;
//  2. a prediction for an existing entry sets ml_score = confidence×100 and adds
//     ml_score × modelWeight to the combined score;
//  3. a prediction for an unseen career creates an entry with rule_score = 0;
//  4. entries are stably sorted by combined score and their match score is replaced
//     by the combined score rounded to 2 decimals.
//
// Entries appear in first-seen order before sorting, so equal combined scores keep
// rule order followed by prediction order.
func Combine(rules []score.MatchResult, predictions []score.ModelPrediction, ruleWeight, modelWeight float64) []score.CombinedResult {
	results := make([]score.CombinedResult, 0, len(rules)+len(predictions))
	index := make(map[string]int, len(rules)+len(predictions))

	for _, r := range rules {
		if _, seen := index[r.CareerID]; seen {
			continue
		}
		index[r.CareerID] = len(results)
		results = append(results, score.CombinedResult{
			MatchResult:   r,
			RuleScore:     r.MatchScore,
			CombinedScore: r.MatchScore * ruleWeight,
		})
	}

	for _, p := range predictions {
		mlScore := p.Confidence * score.MaxScore
		if i, seen := index[p.CareerID]; seen {
			results[i].MLScore = mlScore
			results[i].CombinedScore += mlScore * modelWeight
			continue
		}
		index[p.CareerID] = len(results)
		results = append(results, score.CombinedResult{
			MatchResult: score.MatchResult{
				CareerID:     p.CareerID,
				CareerName:   p.Label,
				MatchScore:   p.MatchScore,
				Confidence:   p.Confidence,
				Explanations: []string{},
			},
			MLScore:       mlScore,
			CombinedScore: mlScore * modelWeight,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CombinedScore > results[j].CombinedScore
	})

	for i := range results {
		results[i].MatchScore = score.Round(results[i].CombinedScore, 2)
	}

	return results
}

// FromMatches wraps rule-based matches as combined results without a model contribution.
// Match scores are left untouched.
func FromMatches(rules []score.MatchResult) []score.CombinedResult {
	results := make([]score.CombinedResult, len(rules))
	for i, r := range rules {
		results[i] = score.CombinedResult{
			MatchResult:   r,
			RuleScore:     r.MatchScore,
			CombinedScore: r.MatchScore,
		}
	}
	return results
}

// NewCompositeScorer creates a fusion step with the given weights.
func NewCompositeScorer(ruleWeight, modelWeight float64) *CompositeScorer {
	return &CompositeScorer{ruleWeight: ruleWeight, modelWeight: modelWeight}
}
