package scorer

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// displayName turns a snake_case identifier into title case, "problem_solving" into "Problem Solving".
func displayName(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

func displayNames(ratings []rating) []string {
	names := make([]string, len(ratings))
	for i, r := range ratings {
		names[i] = displayName(r.name)
	}
	return names
}
