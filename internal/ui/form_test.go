package ui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/opskrifter/internal/catalog"
	"github.com/pageza/opskrifter/internal/client"
	"github.com/pageza/opskrifter/internal/mocks"
)

func filledInput() FormInput {
	return FormInput{
		Title:    " Boller ",
		PrepTime: "15",
		CookTime: "12 min",
		Servings: "abc",
		Ingredients: []IngredientRow{
			{Amount: "500", Unit: "g", Name: "hvedemel"},
			{Amount: "2", Unit: "dl", Name: "  "},
			{Amount: "0,5", Unit: "l", Name: "mælk"},
		},
		Instructions: []string{"Ælt dejen", "  ", "Bag"},
	}
}

func TestNewFormStartsWithBlankRows(t *testing.T) {
	f := NewForm(new(mocks.MockRecipeAPI))
	in := f.Input()
	assert.Len(t, in.Ingredients, 1)
	assert.Len(t, in.Instructions, 1)
}

func TestFormPayload(t *testing.T) {
	f := NewForm(new(mocks.MockRecipeAPI))
	f.SetFields(filledInput())

	p := f.Payload()
	assert.Equal(t, "Boller", p.Title)
	assert.Equal(t, catalog.DefaultCategory, p.Category)
	assert.Equal(t, 15, p.PrepTimeMinutes)
	assert.Equal(t, 12, p.CookTimeMinutes)
	assert.Equal(t, 0, p.Servings)
	require.Len(t, p.Ingredients, 2)
	assert.Equal(t, "mælk", p.Ingredients[1].Name)
	require.NotNil(t, p.Ingredients[1].Amount)
	assert.Equal(t, 0.5, *p.Ingredients[1].Amount)
	assert.Equal(t, []string{"Ælt dejen", "Bag"}, p.Instructions)
}

func TestFormRowEditing(t *testing.T) {
	f := NewForm(new(mocks.MockRecipeAPI))
	f.AddIngredient()
	f.AddInstruction()
	f.AddInstruction()
	assert.Len(t, f.Input().Ingredients, 2)
	assert.Len(t, f.Input().Instructions, 3)

	f.RemoveIngredient(5)
	f.RemoveIngredient(-1)
	assert.Len(t, f.Input().Ingredients, 2)

	f.RemoveIngredient(0)
	f.RemoveInstruction(2)
	assert.Len(t, f.Input().Ingredients, 1)
	assert.Len(t, f.Input().Instructions, 2)
}

func TestFormSubmitValidationFailureSendsNothing(t *testing.T) {
	api := new(mocks.MockRecipeAPI)
	f := NewForm(api)
	f.SetFields(FormInput{Title: "Kun titel"})

	err := f.Submit(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrIngredientRequired)
	assert.Equal(t, ToneError, f.Status().Tone)
	assert.Contains(t, f.Status().Text, "Fejl: ")
	api.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFormSubmitSuccessResetsRows(t *testing.T) {
	api := new(mocks.MockRecipeAPI)
	api.On("Create", mock.Anything, mock.MatchedBy(func(r catalog.Recipe) bool {
		return r.Title == "Boller" && len(r.Ingredients) == 2
	})).Return(&client.Result{Message: "Opskriften er gemt"}, nil).Once()

	f := NewForm(api)
	f.SetFields(filledInput())

	require.NoError(t, f.Submit(context.Background()))
	assert.Equal(t, Status{Text: "Success! Opskriften er gemt", Tone: ToneSuccess}, f.Status())
	assert.Equal(t, BlankInput(), f.Input())
	api.AssertExpectations(t)
}

func TestFormSubmitFailureKeepsRows(t *testing.T) {
	api := new(mocks.MockRecipeAPI)
	api.On("Create", mock.Anything, mock.Anything).
		Return(nil, &client.APIError{Status: 500, Message: "Lagring fejlede"}).Once()

	f := NewForm(api)
	f.SetFields(filledInput())

	require.Error(t, f.Submit(context.Background()))
	assert.Equal(t, Status{Text: "Fejl: Lagring fejlede", Tone: ToneError}, f.Status())
	assert.Len(t, f.Input().Ingredients, 3)
}

func TestFormDoubleSubmitPostsTwice(t *testing.T) {
	api := new(mocks.MockRecipeAPI)
	api.On("Create", mock.Anything, mock.Anything).
		Return(nil, &client.APIError{Status: 503, Message: "Server-fejl (status 503)"})

	f := NewForm(api)
	f.SetFields(filledInput())
	_ = f.Submit(context.Background())
	_ = f.Submit(context.Background())

	api.AssertNumberOfCalls(t, "Create", 2)
}

func TestInputFromRecipeRoundTrip(t *testing.T) {
	amount := 2.5
	r := catalog.Recipe{
		Title:           "Suppe",
		Category:        "Frokost",
		PrepTimeMinutes: 5,
		Ingredients:     []catalog.Ingredient{{Amount: &amount, Unit: "l", Name: "vand"}},
		Instructions:    []string{"Kog"},
	}

	in := InputFromRecipe(r)
	assert.Equal(t, "2.5", in.Ingredients[0].Amount)
	assert.Equal(t, "5", in.PrepTime)

	back := in.Recipe()
	assert.Equal(t, r.Title, back.Title)
	assert.Equal(t, r.Category, back.Category)
	assert.Equal(t, r.Ingredients, back.Ingredients)
	assert.Equal(t, r.Instructions, back.Instructions)
}
