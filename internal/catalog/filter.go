package catalog

import (
	"sort"
	"strings"
)

// Match is a recipe that survived an ingredient filter.
type Match struct {
	Recipe Recipe
	// Score is the number of distinct search terms found in the recipe.
	Score int
	// Matched holds the indices of ingredients hit by any term.
	Matched []int
}

// SplitTerms splits comma separated search input into lower-cased terms.
func SplitTerms(input string) []string {
	seen := make(map[string]struct{})
	var terms []string
	for _, part := range strings.Split(input, ",") {
		term := strings.ToLower(strings.TrimSpace(part))
		if term == "" {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}
	return terms
}

// FilterByIngredients ranks recipes by how many terms occur in their
// ingredient names. Blank input returns every recipe in original order.
func FilterByIngredients(recipes []Recipe, input string) []Match {
	terms := SplitTerms(input)
	if len(terms) == 0 {
		all := make([]Match, len(recipes))
		for i, r := range recipes {
			all[i] = Match{Recipe: r}
		}
		return all
	}

	var matches []Match
	for _, r := range recipes {
		names := make([]string, len(r.Ingredients))
		for i, ing := range r.Ingredients {
			names[i] = strings.ToLower(ing.Name)
		}

		score := 0
		hit := make(map[int]struct{})
		for _, term := range terms {
			found := false
			for i, name := range names {
				if strings.Contains(name, term) {
					found = true
					hit[i] = struct{}{}
				}
			}
			if found {
				score++
			}
		}
		if score == 0 {
			continue
		}

		matched := make([]int, 0, len(hit))
		for i := range hit {
			matched = append(matched, i)
		}
		sort.Ints(matched)
		matches = append(matches, Match{Recipe: r, Score: score, Matched: matched})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}
