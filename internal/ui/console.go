package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pageza/opskrifter/internal/catalog"
	"github.com/pageza/opskrifter/internal/client"
	"github.com/pageza/opskrifter/internal/ingredients"
	"github.com/pageza/opskrifter/internal/logging"
)

var (
	// ErrSaveInFlight is returned when a row is saved while its previous
	// save has not been answered yet.
	ErrSaveInFlight = errors.New("gemning er allerede i gang")
	ErrRowNotFound  = errors.New("rækken findes ikke")
)

// MsgEmptyTable is shown when the catalog holds no recipes
const MsgEmptyTable = "Ingen opskrifter fundet i databasen."

const draftPrefix = "draft-"

// DeletePrompt is the confirmation text shown before a delete
func DeletePrompt(title string) string {
	return "Er du sikker på, at du vil slette opskriften \"" + title + "\"?\nDenne handling kan ikke fortrydes."
}

// RowState is the lifecycle of one table row
type RowState int

const (
	RowDisplay RowState = iota
	RowEditing
	RowSaving
)

func (s RowState) String() string {
	switch s {
	case RowEditing:
		return "editing"
	case RowSaving:
		return "saving"
	default:
		return "display"
	}
}

// Row is one line of the admin table
type Row struct {
	Key    string
	Recipe catalog.Recipe
	State  RowState
	Editor FormInput
	Err    string
}

// IsDraft reports whether the row holds a recipe that was never saved
func (r Row) IsDraft() bool {
	return strings.HasPrefix(r.Key, draftPrefix)
}

// IngredientSource supplies autocomplete names to the console
type IngredientSource interface {
	List() *ingredients.List
	Refresh(ctx context.Context) error
}

// ConsoleView is a snapshot of the console for rendering
type ConsoleView struct {
	Loading     bool
	Error       string
	Empty       bool
	Alert       string
	Notice      string
	Rows        []Row
	Suggestions []string
}

// Console is the admin table of one administrator
type Console struct {
	mu          sync.Mutex
	api         client.RecipeAPI
	ingredients IngredientSource

	cache       []catalog.Recipe
	rows        []*Row
	initialized bool
	loading     bool
	loadErr     string
	alert       string
	notice      string
}

// NewConsole creates a console; src may be nil when no ingredient list
// is configured.
func NewConsole(api client.RecipeAPI, src IngredientSource) *Console {
	return &Console{api: api, ingredients: src}
}

// Initialized reports whether Init has run
func (c *Console) Initialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}

// Init waits for the ingredient list before loading recipes. A failing
// ingredient list is logged and does not stop the recipes.
func (c *Console) Init(ctx context.Context) error {
	if c.ingredients != nil && c.ingredients.List().Len() == 0 {
		if err := c.ingredients.Refresh(ctx); err != nil {
			logging.New(ctx).Error("load_ingredients", err)
		}
	}

	c.mu.Lock()
	c.initialized = true
	c.mu.Unlock()

	return c.LoadRecipes(ctx)
}

// LoadRecipes fetches every recipe, sorts by title and rebuilds the table
func (c *Console) LoadRecipes(ctx context.Context) error {
	return c.reload(ctx, "")
}

// reload rebuilds the rows from a fresh list. Rows still being edited keep
// their buffers, except the one named by saved.
func (c *Console) reload(ctx context.Context, saved string) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	recipes, err := c.api.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		logging.New(ctx).Error("load_recipes", err)
		c.loadErr = "Fejl: " + client.UserMessage(err)
		return err
	}

	catalog.SortByTitle(recipes)
	c.cache = recipes
	c.loadErr = ""

	editing := make(map[string]*Row)
	var drafts []*Row
	for _, row := range c.rows {
		if row.Key == saved || row.State == RowDisplay {
			continue
		}
		if row.IsDraft() {
			drafts = append(drafts, row)
			continue
		}
		editing[row.Key] = row
	}

	c.rows = make([]*Row, 0, len(recipes)+len(drafts))
	for _, r := range recipes {
		if prev, ok := editing[r.ID]; ok {
			prev.Recipe = r
			c.rows = append(c.rows, prev)
			continue
		}
		c.rows = append(c.rows, &Row{Key: r.ID, Recipe: r, State: RowDisplay})
	}
	c.rows = append(c.rows, drafts...)
	return nil
}

// ShowForm opens an editor. A nil recipe appends a blank draft row;
// otherwise the row of that recipe switches to editing with its cached
// values. It returns the key of the edited row.
func (c *Console) ShowForm(recipe *catalog.Recipe) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if recipe == nil {
		row := &Row{Key: draftPrefix + uuid.New().String(), State: RowEditing, Editor: BlankInput()}
		c.rows = append(c.rows, row)
		return row.Key, nil
	}

	row := c.find(recipe.ID)
	if row == nil {
		return "", ErrRowNotFound
	}
	if row.State == RowSaving {
		return "", ErrSaveInFlight
	}
	row.State = RowEditing
	row.Editor = InputFromRecipe(row.Recipe)
	row.Err = ""
	return row.Key, nil
}

// Save sends the row editor as a PUT for existing recipes or a POST for
// drafts, then reloads the whole list. On failure the row stays in editing
// with the reason and nothing is reloaded.
func (c *Console) Save(ctx context.Context, key string, input *FormInput) error {
	logger := logging.New(ctx)

	c.mu.Lock()
	row := c.find(key)
	if row == nil {
		c.mu.Unlock()
		return ErrRowNotFound
	}
	if row.State == RowSaving {
		c.mu.Unlock()
		return ErrSaveInFlight
	}
	if input != nil {
		row.Editor = input.clone()
	}
	row.State = RowEditing
	payload := row.Editor.Recipe()
	if err := payload.ValidateComplete(); err != nil {
		row.Err = "Fejl: " + err.Error()
		c.mu.Unlock()
		return err
	}
	row.State = RowSaving
	row.Err = ""
	id := row.Recipe.ID
	draft := row.IsDraft()
	c.mu.Unlock()

	var (
		res *client.Result
		err error
	)
	if draft {
		res, err = c.api.Create(ctx, payload)
	} else {
		res, err = c.api.Update(ctx, id, payload)
	}

	c.mu.Lock()
	if err != nil {
		if row := c.find(key); row != nil {
			row.State = RowEditing
			row.Err = "Fejl: " + client.UserMessage(err)
		}
		c.mu.Unlock()
		logger.Error("save_recipe", err)
		return err
	}
	if draft {
		c.remove(key)
	} else if row := c.find(key); row != nil {
		row.State = RowDisplay
		row.Editor = FormInput{}
	}
	c.notice = ""
	if res != nil {
		c.notice = res.Message
	}
	c.alert = ""
	c.mu.Unlock()

	logger.Infof("save_recipe", "row=%s draft=%t", key, draft)
	return c.reload(ctx, key)
}

// Cancel drops the editor of a row without any request. Draft rows are
// removed.
func (c *Console) Cancel(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	row := c.find(key)
	if row == nil {
		return ErrRowNotFound
	}
	if row.State == RowSaving {
		return ErrSaveInFlight
	}
	if row.IsDraft() {
		c.remove(key)
		return nil
	}
	row.State = RowDisplay
	row.Editor = FormInput{}
	row.Err = ""
	return nil
}

// Delete asks for confirmation and deletes the recipe. On success the row
// and cache entry are dropped without a reload.
func (c *Console) Delete(ctx context.Context, id string, confirm Confirmer) error {
	c.mu.Lock()
	row := c.find(id)
	if row == nil {
		c.mu.Unlock()
		return ErrRowNotFound
	}
	if row.IsDraft() {
		// never saved, nothing to delete on the server
		c.remove(id)
		c.alert = ""
		c.mu.Unlock()
		return nil
	}
	title := row.Recipe.Title
	c.mu.Unlock()

	if confirm == nil || !confirm.Confirm(DeletePrompt(title)) {
		return nil
	}

	err := c.api.Delete(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		logging.New(ctx).Error("delete_recipe", err)
		c.alert = "Fejl: " + client.UserMessage(err)
		return err
	}

	c.remove(id)
	for i, r := range c.cache {
		if r.ID == id {
			c.cache = append(c.cache[:i:i], c.cache[i+1:]...)
			break
		}
	}
	c.alert = ""
	return nil
}

// Dispatch runs one action. input carries the posted editor values of the
// row and may be nil for actions without a form.
func (c *Console) Dispatch(ctx context.Context, a Action, input *FormInput, confirm Confirmer) error {
	switch a.Kind {
	case ActionEdit:
		if a.Row == "" {
			_, err := c.ShowForm(nil)
			return err
		}
		recipe, ok := c.cached(a.Row)
		if !ok {
			return ErrRowNotFound
		}
		_, err := c.ShowForm(&recipe)
		return err
	case ActionAdd, ActionRemove:
		return c.editRows(a, input)
	case ActionSave:
		return c.Save(ctx, a.Row, input)
	case ActionCancel:
		return c.Cancel(a.Row)
	case ActionDelete:
		return c.Delete(ctx, a.Row, confirm)
	}
	return fmt.Errorf("%w: %q", ErrUnknownAction, a.Kind)
}

func (c *Console) editRows(a Action, input *FormInput) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	row := c.find(a.Row)
	if row == nil {
		return ErrRowNotFound
	}
	switch row.State {
	case RowSaving:
		return ErrSaveInFlight
	case RowDisplay:
		row.State = RowEditing
		row.Editor = InputFromRecipe(row.Recipe)
	}
	if input != nil {
		row.Editor = input.clone()
	}
	switch {
	case a.Kind == ActionAdd && a.Target == TargetIngredient:
		row.Editor.addIngredient()
	case a.Kind == ActionAdd && a.Target == TargetInstruction:
		row.Editor.addInstruction()
	case a.Kind == ActionRemove && a.Target == TargetIngredient:
		row.Editor.removeIngredient(a.Index)
	case a.Kind == ActionRemove && a.Target == TargetInstruction:
		row.Editor.removeInstruction(a.Index)
	default:
		return fmt.Errorf("%w: target %q", ErrUnknownAction, a.Target)
	}
	return nil
}

// Recipes returns the cached recipes in table order
func (c *Console) Recipes() []catalog.Recipe {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]catalog.Recipe(nil), c.cache...)
}

// View snapshots the console state
func (c *Console) View() ConsoleView {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := ConsoleView{
		Loading: c.loading,
		Error:   c.loadErr,
		Alert:   c.alert,
		Notice:  c.notice,
		Rows:    make([]Row, 0, len(c.rows)),
	}
	for _, row := range c.rows {
		r := *row
		r.Editor = row.Editor.clone()
		v.Rows = append(v.Rows, r)
	}
	v.Empty = !v.Loading && v.Error == "" && len(v.Rows) == 0
	if c.ingredients != nil {
		v.Suggestions = c.ingredients.List().Names()
	}
	return v
}

func (c *Console) cached(id string) (catalog.Recipe, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if row := c.find(id); row != nil && !row.IsDraft() {
		return row.Recipe, true
	}
	return catalog.Recipe{}, false
}

func (c *Console) find(key string) *Row {
	for _, row := range c.rows {
		if row.Key == key {
			return row
		}
	}
	return nil
}

func (c *Console) remove(key string) {
	for i, row := range c.rows {
		if row.Key == key {
			c.rows = append(c.rows[:i:i], c.rows[i+1:]...)
			return
		}
	}
}
