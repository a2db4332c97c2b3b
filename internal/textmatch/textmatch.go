// Package textmatch implements the name matching used to line up skill, interest and
// feature names coming from different sources (profiles, catalogs, model schemas).
//
// The algorithm has three steps, tried in order:
//  1. exact key match;
//  2. normalized match: lower-case, trimmed, with spaces and hyphens folded into underscores;
//  3. containment: one normalized name is a substring of the other, in either direction.
//
// Step 3 picks the lexicographically smallest candidate key so lookups are deterministic.
package textmatch

import (
	"sort"
	"strings"
)

var separators = strings.NewReplacer(" ", "_", "-", "_")

// Normalize folds a name into its canonical comparable form.
func Normalize(name string) string {
	return separators.Replace(strings.ToLower(strings.TrimSpace(name)))
}

// Matches reports whether two names refer to the same thing.
// Empty names never match anything.
func Matches(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	return na == nb || strings.Contains(na, nb) || strings.Contains(nb, na)
}

// Lookup finds the value stored under name in values.
// Returns the matched key, the value and whether anything matched.
func Lookup[V any](values map[string]V, name string) (string, V, bool) {
	var zero V
	if len(values) == 0 {
		return "", zero, false
	}
	if v, ok := values[name]; ok {
		return name, v, true
	}

	target := Normalize(name)
	if target == "" {
		return "", zero, false
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if Normalize(k) == target {
			return k, values[k], true
		}
	}

	for _, k := range keys {
		nk := Normalize(k)
		if nk == "" {
			continue
		}
		if strings.Contains(nk, target) || strings.Contains(target, nk) {
			return k, values[k], true
		}
	}

	return "", zero, false
}

// Rating returns the integer rating stored under name, or 0 when nothing matches.
func Rating(ratings map[string]int, name string) int {
	_, v, ok := Lookup(ratings, name)
	if !ok {
		return 0
	}
	return v
}
