package catalog

// Fallback returns the minimal built-in catalog used when no careers file is available.
func Fallback() *Catalog {
	c, _ := New([]CareerDefinition{
		{
			ID:          "software_engineer",
			Name:        "Software Engineer",
			Category:    "Technology",
			Description: "Designs and builds software applications",
			RequiredSkills: Requirements{
				{Name: "programming", Level: 4},
				{Name: "analytical_thinking", Level: 4},
				{Name: "problem_solving", Level: 4},
			},
			RequiredInterests: Requirements{
				{Name: "technology", Level: 4},
				{Name: "engineering", Level: 3},
			},
			AcademicWeights: AcademicWeights{"math": 0.4, "science": 0.3, "english": 0.3},
			MinGPA:          3.0,
		},
	}, Features{
		Skills:    []string{"programming", "communication", "analytical_thinking", "problem_solving"},
		Interests: []string{"technology", "engineering", "healthcare", "business", "arts"},
	})
	return c
}
