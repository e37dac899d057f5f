package ui

import (
	"context"
	"strconv"
	"sync"

	"github.com/pageza/opskrifter/internal/catalog"
	"github.com/pageza/opskrifter/internal/client"
	"github.com/pageza/opskrifter/internal/logging"
)

// Status texts of the submission form
const (
	StatusSaving = "Gemmer opskrift..."
)

// Tone colours a status line
type Tone string

const (
	ToneNeutral Tone = "neutral"
	ToneSuccess Tone = "success"
	ToneError   Tone = "error"
)

// Status is the single line of feedback under a form
type Status struct {
	Text string
	Tone Tone
}

// IngredientRow is one editable ingredient line. Values are kept as typed.
type IngredientRow struct {
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
	Name   string `json:"name"`
}

// FormInput is the raw content of a recipe form
type FormInput struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	ImageURL     string          `json:"imageUrl"`
	Category     string          `json:"category"`
	PrepTime     string          `json:"prepTime"`
	CookTime     string          `json:"cookTime"`
	Servings     string          `json:"servings"`
	Ingredients  []IngredientRow `json:"ingredients"`
	Instructions []string        `json:"instructions"`
}

// BlankInput returns a form with one empty ingredient and one empty step.
func BlankInput() FormInput {
	return FormInput{
		Category:     catalog.DefaultCategory,
		Ingredients:  []IngredientRow{{}},
		Instructions: []string{""},
	}
}

// InputFromRecipe fills a form with the values of an existing recipe.
func InputFromRecipe(r catalog.Recipe) FormInput {
	in := FormInput{
		Title:       r.Title,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Category:    r.Category,
		PrepTime:    strconv.Itoa(r.PrepTimeMinutes),
		CookTime:    strconv.Itoa(r.CookTimeMinutes),
		Servings:    strconv.Itoa(r.Servings),
	}
	for _, ing := range r.Ingredients {
		in.Ingredients = append(in.Ingredients, IngredientRow{
			Amount: catalog.FormatAmount(ing.Amount),
			Unit:   ing.Unit,
			Name:   ing.Name,
		})
	}
	in.Instructions = append(in.Instructions, r.Instructions...)
	if len(in.Ingredients) == 0 {
		in.Ingredients = []IngredientRow{{}}
	}
	if len(in.Instructions) == 0 {
		in.Instructions = []string{""}
	}
	return in
}

// Recipe serialises the visible rows into a request payload. Rows without
// an ingredient name are dropped even when amount or unit are filled.
func (in FormInput) Recipe() catalog.Recipe {
	r := catalog.Recipe{
		Title:           in.Title,
		Description:     in.Description,
		ImageURL:        in.ImageURL,
		Category:        in.Category,
		PrepTimeMinutes: catalog.ParseCount(in.PrepTime),
		CookTimeMinutes: catalog.ParseCount(in.CookTime),
		Servings:        catalog.ParseCount(in.Servings),
		Ingredients:     []catalog.Ingredient{},
		Instructions:    []string{},
	}
	for _, row := range in.Ingredients {
		r.Ingredients = append(r.Ingredients, catalog.Ingredient{
			Amount: catalog.ParseAmount(row.Amount),
			Unit:   row.Unit,
			Name:   row.Name,
		})
	}
	r.Instructions = append(r.Instructions, in.Instructions...)
	r.Normalize()
	if r.Category == "" {
		r.Category = catalog.DefaultCategory
	}
	return r
}

func (in FormInput) clone() FormInput {
	out := in
	out.Ingredients = append([]IngredientRow(nil), in.Ingredients...)
	out.Instructions = append([]string(nil), in.Instructions...)
	return out
}

func (in *FormInput) addIngredient() {
	in.Ingredients = append(in.Ingredients, IngredientRow{})
}

func (in *FormInput) addInstruction() {
	in.Instructions = append(in.Instructions, "")
}

func (in *FormInput) removeIngredient(i int) {
	if i < 0 || i >= len(in.Ingredients) {
		return
	}
	in.Ingredients = append(in.Ingredients[:i:i], in.Ingredients[i+1:]...)
}

func (in *FormInput) removeInstruction(i int) {
	if i < 0 || i >= len(in.Instructions) {
		return
	}
	in.Instructions = append(in.Instructions[:i:i], in.Instructions[i+1:]...)
}

// Form is the recipe submission form of one visitor
type Form struct {
	mu     sync.Mutex
	api    client.RecipeAPI
	input  FormInput
	status Status
}

// NewForm creates a form with one blank ingredient and one blank step
func NewForm(api client.RecipeAPI) *Form {
	return &Form{api: api, input: BlankInput()}
}

// Input returns a copy of the current values
func (f *Form) Input() FormInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input.clone()
}

// Status returns the current status line
func (f *Form) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// SetFields replaces every value with the posted form content
func (f *Form) SetFields(in FormInput) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.input = in.clone()
}

func (f *Form) AddIngredient() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.input.addIngredient()
}

func (f *Form) AddInstruction() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.input.addInstruction()
}

// RemoveIngredient removes the i-th ingredient row; out of range is ignored.
func (f *Form) RemoveIngredient(i int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.input.removeIngredient(i)
}

// RemoveInstruction removes the i-th step; out of range is ignored.
func (f *Form) RemoveInstruction(i int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.input.removeInstruction(i)
}

// Payload builds the recipe that Submit would send
func (f *Form) Payload() catalog.Recipe {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input.Recipe()
}

// Submit validates the form and posts it once. On success the form is
// reset; on failure the rows are kept and the status carries the reason.
func (f *Form) Submit(ctx context.Context) error {
	logger := logging.New(ctx)

	f.mu.Lock()
	f.status = Status{Text: StatusSaving, Tone: ToneNeutral}
	payload := f.input.Recipe()
	if err := payload.ValidateComplete(); err != nil {
		f.status = Status{Text: "Fejl: " + err.Error(), Tone: ToneError}
		f.mu.Unlock()
		return err
	}
	f.mu.Unlock()

	res, err := f.api.Create(ctx, payload)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		logger.Error("submit_recipe", err)
		f.status = Status{Text: "Fejl: " + client.UserMessage(err), Tone: ToneError}
		return err
	}

	msg := ""
	if res != nil {
		msg = res.Message
	}
	f.status = Status{Text: "Success! " + msg, Tone: ToneSuccess}
	f.input = BlankInput()
	logger.Infof("submit_recipe", "title=%q", payload.Title)
	return nil
}
