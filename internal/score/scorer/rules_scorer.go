package scorer

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"lantern/internal/catalog"
	"lantern/internal/profile"
	"lantern/internal/score"
	"lantern/internal/textmatch"
)

const (
	strongAcademic = 24.0
	goodAcademic   = 18.0
	gpaPenaltyRate = 5.0
	gpaBonusMargin = 0.5
	gpaBonus       = 3.0
	maxRating      = 5.0
)

// RulesScorer rates profiles against the careers of a catalog using the 30/40/30
// academic, skills and interests split plus a GPA adjustment.
// It holds no mutable state and is safe for concurrent use.
type RulesScorer struct {
	catalog *catalog.Catalog
}

var _ score.Scorer = (*RulesScorer)(nil)

// Score rates the profile against a single career.
// The second result is false only when careerID is not in the catalog.
func (rs *RulesScorer) Score(p *profile.Profile, careerID string) (score.MatchResult, bool) {
	def, ok := rs.catalog.Get(careerID)
	if !ok {
		return score.MatchResult{}, false
	}
	return Evaluate(p, def), true
}

// TopK rates the profile against every career and returns the k best matches.
// Equal scores keep catalog order.
func (rs *RulesScorer) TopK(p *profile.Profile, k int) []score.MatchResult {
	defs := rs.catalog.All()
	results := make([]score.MatchResult, len(defs))
	for i, def := range defs {
		results[i] = Evaluate(p, def)
	}
	return Rank(results, k)
}

// Rank sorts results by match score, highest first, keeping the input order of equal
// scores, and returns at most k of them.
func Rank(results []score.MatchResult, k int) []score.MatchResult {
	if k <= 0 {
		return []score.MatchResult{}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})
	if k < len(results) {
		results = results[:k]
	}
	return results
}

// Evaluate rates a profile against one career definition.
// Missing profile fields count as zero.
func Evaluate(p *profile.Profile, def *catalog.CareerDefinition) score.MatchResult {
	if p == nil {
		p = &profile.Profile{}
	}

	academic := academicScore(p, def.AcademicWeights)
	skills := evaluatePillar(def.RequiredSkills, p.Skills, score.SkillsBudget)
	interests := evaluatePillar(def.RequiredInterests, p.Interests, score.InterestsBudget)

	breakdown := score.Breakdown{
		Academic:  score.Round(academic, 2),
		Skills:    score.Round(skills.score, 2),
		Interests: score.Round(interests.score, 2),
	}

	explanations := make([]string, 0, 6)
	explanations = append(explanations, academicExplanation(academic))

	if len(skills.matched) > 0 {
		top := skills.matched
		if len(top) > 3 {
			top = top[:3]
		}
		parts := make([]string, len(top))
		for i, m := range top {
			parts[i] = fmt.Sprintf("%s (%d/5)", displayName(m.name), m.current)
		}
		explanations = append(explanations, "Matching skills: "+strings.Join(parts, ", "))
	}

	if n := len(skills.gaps); n > 0 && n <= 2 {
		parts := make([]string, n)
		for i, g := range skills.gaps {
			if g.current > 0 {
				parts[i] = fmt.Sprintf("%s (need %d, have %d)", displayName(g.name), g.required, g.current)
			} else {
				parts[i] = fmt.Sprintf("%s (need %d)", displayName(g.name), g.required)
			}
		}
		explanations = append(explanations, "Skills to develop: "+strings.Join(parts, ", "))
	}

	if len(interests.matched) > 0 {
		explanations = append(explanations, "Strong interests: "+strings.Join(displayNames(interests.matched), ", "))
	}

	total := breakdown.Academic + breakdown.Skills + breakdown.Interests
	switch {
	case p.GPA < def.MinGPA:
		total -= (def.MinGPA - p.GPA) * gpaPenaltyRate
		explanations = append(explanations,
			fmt.Sprintf("GPA below recommended (%.1f < %s)", p.GPA, formatGPA(def.MinGPA)))
	case p.GPA >= def.MinGPA+gpaBonusMargin:
		total += gpaBonus
		explanations = append(explanations, fmt.Sprintf("Excellent GPA (%.1f)", p.GPA))
	}

	total = score.Round(score.Clamp(total, 0, score.MaxScore), 2)

	return score.MatchResult{
		CareerID:     def.ID,
		CareerName:   def.Name,
		Category:     def.Category,
		Description:  def.Description,
		MatchScore:   total,
		Confidence:   score.Round(total/score.MaxScore, 3),
		Breakdown:    breakdown,
		Explanations: explanations,
	}
}

func academicScore(p *profile.Profile, weights catalog.AcademicWeights) float64 {
	total := 0.0
	for _, subject := range profile.Subjects {
		total += p.Subject(subject) / 100 * weights.Weight(subject) * score.AcademicBudget
	}
	return score.Clamp(total, 0, score.AcademicBudget)
}

func academicExplanation(academic float64) string {
	switch {
	case academic >= strongAcademic:
		return fmt.Sprintf("Strong academic fit (%.1f/30)", academic)
	case academic >= goodAcademic:
		return fmt.Sprintf("Good academic foundation (%.1f/30)", academic)
	default:
		return fmt.Sprintf("Academic improvement needed (%.1f/30)", academic)
	}
}

// rating is one requirement as the profile meets it.
type rating struct {
	name     string
	required int
	current  int
}

type pillar struct {
	score   float64
	matched []rating
	gaps    []rating
}

// evaluatePillar awards each requirement an equal share of budget: full proportional
// credit when the rating meets the requirement, half credit scaled by the shortfall when
// it is below, nothing when the profile has no rating.
func evaluatePillar(reqs catalog.Requirements, ratings map[string]int, budget float64) pillar {
	var result pillar
	if len(reqs) == 0 {
		return result
	}

	share := budget / float64(len(reqs))
	for _, req := range reqs {
		r := rating{name: req.Name, required: req.Level, current: textmatch.Rating(ratings, req.Name)}
		switch {
		case r.current <= 0:
			r.current = 0
			result.gaps = append(result.gaps, r)
		case r.current >= r.required:
			result.score += float64(r.current) / maxRating * share
			result.matched = append(result.matched, r)
		default:
			result.score += float64(r.current) / float64(r.required) * share * 0.5
			result.gaps = append(result.gaps, r)
		}
	}

	result.score = score.Clamp(result.score, 0, budget)
	return result
}

func formatGPA(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// NewRulesScorer creates a scorer over the given catalog.
func NewRulesScorer(c *catalog.Catalog) *RulesScorer {
	return &RulesScorer{catalog: c}
}
