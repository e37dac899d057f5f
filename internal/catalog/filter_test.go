package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(matches []Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Recipe.Title
	}
	return out
}

func TestFilterByIngredients(t *testing.T) {
	cached := []Recipe{
		{Title: "A", Ingredients: []Ingredient{{Name: "salt"}}},
		{Title: "B", Ingredients: []Ingredient{{Name: "sugar"}}},
	}

	t.Run("single term", func(t *testing.T) {
		got := FilterByIngredients(cached, "salt")
		assert.Equal(t, []string{"A"}, titles(got))
		assert.Equal(t, 1, got[0].Score)
		assert.Equal(t, []int{0}, got[0].Matched)
	})

	t.Run("empty input restores original order", func(t *testing.T) {
		assert.Equal(t, []string{"A", "B"}, titles(FilterByIngredients(cached, "")))
		assert.Equal(t, []string{"A", "B"}, titles(FilterByIngredients(cached, " , ")))
	})

	t.Run("case insensitive substring", func(t *testing.T) {
		assert.Equal(t, []string{"B"}, titles(FilterByIngredients(cached, "SUG")))
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, FilterByIngredients(cached, "peber"))
	})
}

func TestFilterRanksByMatchCount(t *testing.T) {
	recipes := []Recipe{
		{Title: "Kun løg", Ingredients: []Ingredient{{Name: "Løg"}}},
		{Title: "Løg og gulerod", Ingredients: []Ingredient{{Name: "løg"}, {Name: "gulerødder"}}},
		{Title: "Rødløg", Ingredients: []Ingredient{{Name: "rødløg"}, {Name: "salt"}}},
	}

	got := FilterByIngredients(recipes, "løg, gulerød")
	require.Len(t, got, 3)
	assert.Equal(t, "Løg og gulerod", got[0].Recipe.Title)
	assert.Equal(t, 2, got[0].Score)
	// ties keep cached order
	assert.Equal(t, "Kun løg", got[1].Recipe.Title)
	assert.Equal(t, "Rødløg", got[2].Recipe.Title)
}

func TestSplitTermsDeduplicates(t *testing.T) {
	assert.Equal(t, []string{"salt", "peber"}, SplitTerms("Salt, peber,salt,,"))
}
