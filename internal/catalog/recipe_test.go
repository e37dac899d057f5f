package catalog

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(v float64) *float64 { return &v }

func TestNormalizeDropsBlankRows(t *testing.T) {
	r := Recipe{
		Title: "  Frikadeller ",
		Ingredients: []Ingredient{
			{Amount: amount(500), Unit: "g", Name: "hakket svinekød"},
			{Amount: amount(2), Unit: "stk", Name: "  "},
			{Unit: "dl", Name: "mælk"},
		},
		Instructions: []string{"Rør farsen", "   ", "Steg dem"},
		Servings:     -2,
	}

	r.Normalize()

	assert.Equal(t, "Frikadeller", r.Title)
	require.Len(t, r.Ingredients, 2)
	assert.Equal(t, "hakket svinekød", r.Ingredients[0].Name)
	assert.Equal(t, "mælk", r.Ingredients[1].Name)
	assert.Nil(t, r.Ingredients[1].Amount)
	assert.Equal(t, []string{"Rør farsen", "Steg dem"}, r.Instructions)
	assert.Equal(t, 0, r.Servings)
}

func TestValidate(t *testing.T) {
	r := Recipe{Title: " "}
	err := r.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTitleRequired))

	r.Title = "Æblekage"
	assert.NoError(t, r.Validate())
}

func TestValidateComplete(t *testing.T) {
	t.Run("missing everything", func(t *testing.T) {
		r := Recipe{}
		err := r.ValidateComplete()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTitleRequired))
		assert.True(t, errors.Is(err, ErrIngredientRequired))
		assert.True(t, errors.Is(err, ErrInstructionRequired))

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Len(t, verr.Problems, 3)
	})

	t.Run("ingredient without unit is not complete", func(t *testing.T) {
		r := Recipe{
			Title:        "Risalamande",
			Ingredients:  []Ingredient{{Amount: amount(1), Name: "ris"}},
			Instructions: []string{"Kog grøden"},
		}
		err := r.ValidateComplete()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrIngredientRequired))
		assert.False(t, errors.Is(err, ErrTitleRequired))
	})

	t.Run("amount with unit suffix", func(t *testing.T) {
		r := Recipe{
			Title:        "Boller",
			Ingredients:  []Ingredient{{Amount: ParseAmount("200g"), Unit: "g", Name: "mel"}},
			Instructions: []string{"Ælt dejen"},
		}
		assert.NoError(t, r.ValidateComplete())
	})

	t.Run("valid", func(t *testing.T) {
		r := Recipe{
			Title:        "Risalamande",
			Ingredients:  []Ingredient{{Amount: amount(1), Unit: "l", Name: "mælk"}},
			Instructions: []string{"Kog grøden"},
		}
		assert.NoError(t, r.ValidateComplete())
	})
}

func TestSortByTitle(t *testing.T) {
	recipes := []Recipe{{Title: "pandekager"}, {Title: "Boller"}, {Title: "æbleskiver"}, {Title: "Ablekage"}}
	SortByTitle(recipes)
	assert.Equal(t, "Ablekage", recipes[0].Title)
	assert.Equal(t, "Boller", recipes[1].Title)
	assert.Equal(t, "pandekager", recipes[2].Title)
	assert.Equal(t, "æbleskiver", recipes[3].Title)
}

func TestParseAmount(t *testing.T) {
	assert.Nil(t, ParseAmount(""))
	assert.Nil(t, ParseAmount("abc"))
	assert.Nil(t, ParseAmount("0"))
	require.NotNil(t, ParseAmount("2,5"))
	assert.Equal(t, 2.5, *ParseAmount("2,5"))
	assert.Equal(t, 100.0, *ParseAmount(" 100 "))

	tests := []struct {
		in   string
		want float64
	}{
		{"200g", 200},
		{"2 dl", 2},
		{"1/2", 1},
		{"1,5 kg", 1.5},
		{".5 tsk", 0.5},
		{"3.", 3},
		{"1e3", 1000},
		{"2em", 2},
		{"-1 spsk", -1},
	}
	for _, tt := range tests {
		got := ParseAmount(tt.in)
		require.NotNil(t, got, tt.in)
		assert.Equal(t, tt.want, *got, tt.in)
	}

	for _, in := range []string{"g200", ".", "-", "0 g", "0,0", "e5"} {
		assert.Nil(t, ParseAmount(in), in)
	}
}

func TestParseCount(t *testing.T) {
	assert.Equal(t, 0, ParseCount(""))
	assert.Equal(t, 0, ParseCount("x"))
	assert.Equal(t, 45, ParseCount("45"))
	assert.Equal(t, 12, ParseCount("12.5"))
	assert.Equal(t, 0, ParseCount("-3"))
}

func TestIngredientAmountSerializesNull(t *testing.T) {
	data, err := json.Marshal(Ingredient{Unit: "tsk", Name: "salt"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":null,"unit":"tsk","name":"salt"}`, string(data))
}

func TestRecipeOmitsEmptyID(t *testing.T) {
	data, err := json.Marshal(Recipe{Title: "Kladde"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"id"`)
	assert.Contains(t, string(data), `"prepTimeMinutes":0`)
}
