package scorer

import (
	"fmt"
	"sort"

	"lantern/internal/catalog"
	"lantern/internal/profile"
	"lantern/internal/score"
)

const (
	excellentMatch = 80.0
	goodMatch      = 65.0
	moderateMatch  = 50.0
	alignsWell     = 70.0
	maxGapAdvice   = 2
)

// Explainer expands a single rule-based match into a detailed breakdown.
type Explainer struct {
	catalog *catalog.Catalog
}

var _ score.Explainer = (*Explainer)(nil)

// Explain recomputes the match of the profile against careerID and explains it.
// Returns catalog.ErrCareerNotFound when the career is unknown.
func (e *Explainer) Explain(p *profile.Profile, careerID string) (*score.Explanation, error) {
	def, ok := e.catalog.Get(careerID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", catalog.ErrCareerNotFound, careerID)
	}
	if p == nil {
		p = &profile.Profile{}
	}

	match := Evaluate(p, def)
	skills := evaluatePillar(def.RequiredSkills, p.Skills, score.SkillsBudget)
	interests := evaluatePillar(def.RequiredInterests, p.Interests, score.InterestsBudget)

	gaps := make([]score.SkillGap, len(skills.gaps))
	for i, g := range skills.gaps {
		gaps[i] = score.SkillGap{
			Skill:    displayName(g.name),
			Current:  g.current,
			Required: g.required,
			Gap:      g.required - g.current,
		}
	}

	return &score.Explanation{
		CareerID:     def.ID,
		Career:       def.Name,
		OverallMatch: fmt.Sprintf("%.1f%%", match.MatchScore),
		Summary:      summary(match.MatchScore, def.Name),
		Breakdown: score.ExplanationBreakdown{
			AcademicFit: score.AcademicFit{
				Score:       fmt.Sprintf("%.1f/30", match.Breakdown.Academic),
				Explanation: academicEmphasis(p, def.AcademicWeights),
			},
			SkillsFit: score.SkillsFit{
				Score:    fmt.Sprintf("%.1f/40", match.Breakdown.Skills),
				Matching: displayNames(skills.matched),
				Gaps:     gaps,
			},
			InterestsFit: score.InterestsFit{
				Score:    fmt.Sprintf("%.1f/30", match.Breakdown.Interests),
				Matching: displayNames(interests.matched),
			},
		},
		Recommendations: recommendations(p, def, gaps),
	}, nil
}

func summary(matchScore float64, name string) string {
	switch {
	case matchScore >= excellentMatch:
		return fmt.Sprintf("Excellent match! %s aligns very well with your profile.", name)
	case matchScore >= goodMatch:
		return fmt.Sprintf("Good match! %s is a strong option for you with some areas to develop.", name)
	case matchScore >= moderateMatch:
		return fmt.Sprintf("Moderate match. %s is possible but may require significant skill development.", name)
	default:
		return fmt.Sprintf("Lower match. %s may not be the best fit based on your current profile.", name)
	}
}

func academicEmphasis(p *profile.Profile, weights catalog.AcademicWeights) string {
	primary := weights.Primary()
	fit := "moderately"
	if p.Subject(primary) >= alignsWell {
		fit = "well"
	}
	return fmt.Sprintf("This career emphasizes %s skills. Your scores align %s with requirements.", primary, fit)
}

// recommendations advises on the largest skill gaps first, then on the GPA.
func recommendations(p *profile.Profile, def *catalog.CareerDefinition, gaps []score.SkillGap) []string {
	ordered := append([]score.SkillGap(nil), gaps...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Gap > ordered[j].Gap
	})
	if len(ordered) > maxGapAdvice {
		ordered = ordered[:maxGapAdvice]
	}

	result := make([]string, 0, len(ordered)+1)
	for _, g := range ordered {
		result = append(result, fmt.Sprintf("Develop your %s skills (currently %d/5, need %d/5)", g.Skill, g.Current, g.Required))
	}

	if p.GPA < def.MinGPA {
		result = append(result, fmt.Sprintf("Focus on improving your GPA to at least %s", formatGPA(def.MinGPA)))
	}

	if len(result) == 0 {
		result = append(result, "Continue building your profile - you're on the right track!")
	}
	return result
}

// NewExplainer creates an explanation builder over the given catalog.
func NewExplainer(c *catalog.Catalog) *Explainer {
	return &Explainer{catalog: c}
}
