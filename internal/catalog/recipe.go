package catalog

import (
	"errors"
	"sort"
	"strconv"
	"strings"
)

// DefaultCategory is applied to submitted recipes that carry no category.
const DefaultCategory = "Aftensmad"

var (
	ErrTitleRequired       = errors.New("titel mangler")
	ErrIngredientRequired  = errors.New("mindst én ingrediens med mængde, enhed og navn er påkrævet")
	ErrInstructionRequired = errors.New("mindst ét trin i fremgangsmåden er påkrævet")
)

// Ingredient is one line of a recipe's ingredient list.
type Ingredient struct {
	Amount *float64 `json:"amount"`
	Unit   string   `json:"unit"`
	Name   string   `json:"name"`
}

// Complete reports whether the ingredient has name, amount and unit.
func (i Ingredient) Complete() bool {
	return strings.TrimSpace(i.Name) != "" && i.Amount != nil && strings.TrimSpace(i.Unit) != ""
}

// Recipe represents a recipe as exchanged with the catalog API
type Recipe struct {
	ID              string       `json:"id,omitempty"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	ImageURL        string       `json:"imageUrl"`
	Category        string       `json:"category"`
	PrepTimeMinutes int          `json:"prepTimeMinutes"`
	CookTimeMinutes int          `json:"cookTimeMinutes"`
	Servings        int          `json:"servings"`
	Ingredients     []Ingredient `json:"ingredients"`
	Instructions    []string     `json:"instructions"`
}

// IsDraft reports whether the recipe has not been persisted yet.
func (r *Recipe) IsDraft() bool {
	return r.ID == ""
}

// Normalize trims text fields, drops nameless ingredients and blank steps
// and clamps negative counts to zero.
func (r *Recipe) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.ImageURL = strings.TrimSpace(r.ImageURL)
	r.Category = strings.TrimSpace(r.Category)
	r.PrepTimeMinutes = nonNegative(r.PrepTimeMinutes)
	r.CookTimeMinutes = nonNegative(r.CookTimeMinutes)
	r.Servings = nonNegative(r.Servings)

	ingredients := make([]Ingredient, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		ing.Name = strings.TrimSpace(ing.Name)
		ing.Unit = strings.TrimSpace(ing.Unit)
		if ing.Name == "" {
			continue
		}
		ingredients = append(ingredients, ing)
	}
	r.Ingredients = ingredients

	steps := make([]string, 0, len(r.Instructions))
	for _, step := range r.Instructions {
		step = strings.TrimSpace(step)
		if step == "" {
			continue
		}
		steps = append(steps, step)
	}
	r.Instructions = steps
}

// Validate checks the minimal rule: a non-empty title.
func (r *Recipe) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return &ValidationError{Problems: []error{ErrTitleRequired}}
	}
	return nil
}

// ValidateComplete requires a title, one complete ingredient and one
// instruction step.
func (r *Recipe) ValidateComplete() error {
	var problems []error
	if strings.TrimSpace(r.Title) == "" {
		problems = append(problems, ErrTitleRequired)
	}

	hasIngredient := false
	for _, ing := range r.Ingredients {
		if ing.Complete() {
			hasIngredient = true
			break
		}
	}
	if !hasIngredient {
		problems = append(problems, ErrIngredientRequired)
	}

	hasStep := false
	for _, step := range r.Instructions {
		if strings.TrimSpace(step) != "" {
			hasStep = true
			break
		}
	}
	if !hasStep {
		problems = append(problems, ErrInstructionRequired)
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// ValidationError collects every failed rule of a recipe
type ValidationError struct {
	Problems []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return strings.Join(msgs, "; ")
}

// Is lets errors.Is match any of the collected sentinel errors.
func (e *ValidationError) Is(target error) bool {
	for _, p := range e.Problems {
		if p == target {
			return true
		}
	}
	return false
}

// SortByTitle orders recipes alphabetically by title, ignoring case.
func SortByTitle(recipes []Recipe) {
	sort.SliceStable(recipes, func(i, j int) bool {
		return strings.ToLower(recipes[i].Title) < strings.ToLower(recipes[j].Title)
	})
}

// ParseAmount parses a form amount from its leading number, so "200g" is
// 200 and "1/2" is 1. Empty, invalid and zero amounts are unknown.
func ParseAmount(s string) *float64 {
	s = strings.TrimSpace(strings.Replace(s, ",", ".", 1))
	v, err := strconv.ParseFloat(floatPrefix(s), 64)
	if err != nil || v == 0 {
		return nil
	}
	return &v
}

// floatPrefix returns the longest leading decimal number of s
func floatPrefix(s string) string {
	digits := func(i int) int {
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		return i
	}

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	i = digits(i)
	mantissa := i > start
	if i < len(s) && s[i] == '.' {
		if j := digits(i + 1); j > i+1 || mantissa {
			mantissa = true
			i = j
		}
	}
	if !mantissa {
		return ""
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if k := digits(j); k > j {
			i = k
		}
	}
	return s[:i]
}

// ParseCount parses a form integer, falling back to 0.
func ParseCount(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if v, err := strconv.Atoi(s); err == nil {
		return nonNegative(v)
	}
	// "12.5" and "12 min" still count as 12
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	v, _ := strconv.Atoi(s[:end])
	return v
}

// FormatAmount renders an amount for display; unknown amounts render empty.
func FormatAmount(a *float64) string {
	if a == nil {
		return ""
	}
	return strconv.FormatFloat(*a, 'f', -1, 64)
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
